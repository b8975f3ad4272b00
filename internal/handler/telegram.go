package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// UpdateHandler processes one Telegram update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

// TelegramWebhook answers Telegram's webhook calls. Telegram retries on any
// non-2xx answer, so only undecodable bodies are rejected.
func TelegramWebhook(h UpdateHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var update tgbotapi.Update
		if err := c.ShouldBindJSON(&update); err != nil {
			slog.Error("Failed to decode telegram update", "error", err)
			c.Status(http.StatusBadRequest)
			return
		}
		h.HandleUpdate(c.Request.Context(), update)
		c.Status(http.StatusOK)
	}
}
