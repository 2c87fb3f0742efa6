package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/wishlist/internal/telegram"
)

// StartHandler handles the /start command
type StartHandler struct {
	logger *logrus.Logger
}

// NewStartHandler creates a new start command handler
func NewStartHandler(logger *logrus.Logger) *StartHandler {
	return &StartHandler{
		logger: logger,
	}
}

// Handle processes the /start command
func (h *StartHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	welcomeText := `🎁 *Welcome to Wishlist!*

I keep track of the things you want, grouped by category.

*Get started:*
• /wish Laptop | 599.99 | electronics | https://example.com - Add an item
• /wishlist - Show your wishlist
• /help - Show all commands`

	msg := tgbotapi.NewMessage(message.Chat.ID, welcomeText)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true

	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send start message: %w", err)
	}

	h.logger.WithField("chat_id", message.Chat.ID).Info("Sent start message")

	return nil
}
