// cmd/bot/main.go
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"juros-justos/internal/app"
	"juros-justos/internal/bot"
	"juros-justos/internal/calculator"
	"juros-justos/internal/config"
	"juros-justos/internal/lead"
	"juros-justos/internal/notify"
	"juros-justos/internal/rates"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	cfg := config.MustLoad()
	logger := app.NewLogger(cfg.LogLevel)

	if cfg.TelegramToken == "" {
		slog.Error("TELEGRAM_BOT_TOKEN not set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := app.OpenLeadStorage(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open lead storage", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		slog.Error("Failed to start telegram bot", "error", err)
		os.Exit(1)
	}
	slog.Info("Bot started", "username", api.Self.UserName)

	var notifier lead.Notifier
	if cfg.TelegramChatID != 0 {
		notifier = notify.NewTelegram(api, cfg.TelegramChatID)
	}

	tracker := app.NewTracker(cfg, logger)
	b := bot.New(
		calculator.New(rates.MustLoad(), tracker),
		lead.NewService(store, tracker, notifier),
		api,
	)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)
	go func() {
		<-ctx.Done()
		api.StopReceivingUpdates()
	}()

	b.Run(ctx, updates)
	slog.Info("Bot stopped")
}
