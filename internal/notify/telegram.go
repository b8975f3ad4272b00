// Package notify pushes newly captured leads to the sales team's Telegram chat.
package notify

import (
	"context"
	"fmt"
	"strings"

	"juros-justos/internal/domain"
	"juros-justos/internal/phone"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is satisfied by *tgbotapi.BotAPI.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Telegram struct {
	bot    Sender
	chatID int64
}

func NewTelegram(bot Sender, chatID int64) *Telegram {
	return &Telegram{bot: bot, chatID: chatID}
}

func (t *Telegram) NotifyLead(ctx context.Context, lead domain.Lead) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, FormatLead(lead))); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

// FormatLead renders a lead as a plain-text chat message.
func FormatLead(lead domain.Lead) string {
	lines := []string{
		"📥 Nova solicitação de consultoria",
		"",
		"Nome: " + lead.NomeCompleto,
		"WhatsApp: " + phone.Format(lead.WhatsApp),
		"E-mail: " + lead.Email,
	}
	if s := strings.TrimSpace(lead.CidadeEstado); s != "" {
		lines = append(lines, "Cidade/Estado: "+s)
	}
	if s := strings.TrimSpace(lead.DescricaoSituacao); s != "" {
		lines = append(lines, "", "Situação:", s)
	}
	if lead.ID != "" {
		lines = append(lines, "", "ID: "+lead.ID)
	}
	return strings.Join(lines, "\n")
}
