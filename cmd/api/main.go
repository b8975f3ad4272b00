// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"juros-justos/internal/app"
	"juros-justos/internal/bot"
	"juros-justos/internal/calculator"
	"juros-justos/internal/config"
	"juros-justos/internal/handler"
	"juros-justos/internal/lead"
	"juros-justos/internal/notify"
	"juros-justos/internal/rates"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.MustLoad()
	logger := app.NewLogger(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := app.OpenLeadStorage(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open lead storage", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	tracker := app.NewTracker(cfg, logger)
	table := rates.MustLoad()

	var (
		tg       *tgbotapi.BotAPI
		notifier lead.Notifier
	)
	if cfg.TelegramToken != "" {
		tg, err = tgbotapi.NewBotAPI(cfg.TelegramToken)
		if err != nil {
			slog.Error("Failed to init telegram bot", "error", err)
			os.Exit(1)
		}
		if cfg.TelegramChatID != 0 {
			notifier = notify.NewTelegram(tg, cfg.TelegramChatID)
			slog.Info("Lead notifications enabled", "chat_id", cfg.TelegramChatID)
		}
	}

	calc := calculator.New(table, tracker)
	leads := lead.NewService(store, tracker, notifier)

	deps := handler.Deps{
		Calculator:  calc,
		Leads:       leads,
		Tracker:     tracker,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	}
	if p, ok := store.(handler.Pinger); ok {
		deps.Health = p
	}

	if tg != nil && cfg.TelegramWebhookURL != "" {
		webhookURL := cfg.TelegramWebhookURL + "/telegram"
		wh, err := tgbotapi.NewWebhook(webhookURL)
		if err != nil {
			slog.Error("Invalid telegram webhook url", "error", err)
			os.Exit(1)
		}
		if _, err := tg.Request(wh); err != nil {
			slog.Error("Failed to set telegram webhook", "error", err)
			os.Exit(1)
		}
		slog.Info("Telegram webhook set", "url", webhookURL)
		deps.Telegram = bot.New(calc, leads, tg)
	}

	srv := &http.Server{
		Addr:              cfg.ServerPort,
		Handler:           handler.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	slog.Info("🚀 Server started", "addr", cfg.ServerPort)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}
