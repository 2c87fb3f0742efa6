package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/wishlist/internal/telegram"
)

// HelpHandler handles the /help command
type HelpHandler struct {
	logger *logrus.Logger
}

func NewHelpHandler(logger *logrus.Logger) *HelpHandler {
	return &HelpHandler{logger: logger}
}

func (h *HelpHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	helpText := `📚 *Wishlist Help*

• /wish <title> | [price] | [category] | [url] - Add an item
• /wishlist - Show items grouped by category
• /item <id> - Show item details
• /delete <id> - Delete an item (can be undone for a few seconds)

_Categories: electronics, crafts, gifts, books, clothing, or any custom name._`

	msg := tgbotapi.NewMessage(message.Chat.ID, helpText)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send help message: %w", err)
	}

	h.logger.WithField("chat_id", message.Chat.ID).Info("Sent help message")

	return nil
}
