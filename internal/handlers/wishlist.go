package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/wishlist/internal/models"
	"github.com/Kerhoff/wishlist/internal/repository"
	"github.com/Kerhoff/wishlist/internal/service"
	"github.com/Kerhoff/wishlist/internal/telegram"
)

// UndoCallbackPrefix routes inline Undo buttons to UndoHandler.
const UndoCallbackPrefix = "undo"

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

func reply(bot telegram.Sender, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// parseItemID reads the first argument as an item id, replying with usage
// when it is missing or malformed.
func parseItemID(bot telegram.Sender, chatID int64, args []string, usage string) (int64, bool, error) {
	if len(args) == 0 {
		return 0, false, reply(bot, chatID, "❌ Please provide an item ID.\nUsage: `"+usage+"`")
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
	if err != nil {
		return 0, false, reply(bot, chatID, "❌ Invalid ID. Please provide a numeric item ID.")
	}
	return id, true, nil
}

// ---------------------------------------------------------------------------
// WishAddHandler – /wish title | price | category | url
// ---------------------------------------------------------------------------

// WishAddHandler handles the /wish command.
type WishAddHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewWishAddHandler creates a new WishAddHandler.
func NewWishAddHandler(svc *service.Service, logger *logrus.Logger) *WishAddHandler {
	return &WishAddHandler{svc: svc, logger: logger}
}

// ParseWish splits "/wish" arguments on "|" into a form. Categories match
// predefined labels case-insensitively; anything else is kept as a custom
// category name.
func ParseWish(args []string) service.ItemForm {
	parts := strings.Split(strings.Join(args, " "), "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	field := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}

	form := service.ItemForm{
		Title:    field(0),
		Price:    strings.TrimPrefix(field(1), "$"),
		Category: field(2),
		URL:      field(3),
	}
	for _, c := range models.Categories {
		if !c.IsCustom() && strings.EqualFold(form.Category, c.Value) {
			form.Category = c.Value
		}
	}
	return form
}

// Handle processes the /wish command.
func (h *WishAddHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	if len(args) == 0 {
		return reply(bot, message.Chat.ID,
			"❌ Please provide a wish item.\n"+
				"Usage: `/wish Laptop | 599.99 | electronics | https://example.com`")
	}

	item, err := h.svc.Add(context.Background(), ParseWish(args))
	if errors.Is(err, service.ErrInvalidItem) {
		return reply(bot, message.Chat.ID, "❌ "+escape(strings.Join(service.ValidationMessages(err), "\n")))
	}
	if err != nil {
		return fmt.Errorf("add wish item: %w", err)
	}

	text := fmt.Sprintf("🎁 *Added to your wishlist!*\n\n*#%d* %s", item.ID, escape(item.Title))
	if p := item.DisplayPrice(); p != "" {
		text += " — " + escape(p)
	}
	if err := reply(bot, message.Chat.ID, text); err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"item_id": item.ID,
	}).Info("Wish item added")

	return nil
}

// ---------------------------------------------------------------------------
// WishListHandler – /wishlist
// ---------------------------------------------------------------------------

// WishListHandler handles the /wishlist command.
type WishListHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewWishListHandler creates a new WishListHandler.
func NewWishListHandler(svc *service.Service, logger *logrus.Logger) *WishListHandler {
	return &WishListHandler{svc: svc, logger: logger}
}

// Handle processes the /wishlist command.
func (h *WishListHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	sections, err := h.svc.Sections(context.Background())
	if err != nil {
		return fmt.Errorf("list sections: %w", err)
	}

	if len(sections) == 0 {
		return reply(bot, message.Chat.ID, "🎁 *Your wishlist is empty!*\n\nAdd items with `/wish <title>`")
	}

	var sb strings.Builder
	sb.WriteString("🎁 *Wishlist*\n")

	count := 0
	for _, sec := range sections {
		sb.WriteString(fmt.Sprintf("\n*%s*\n", escape(sec.Title)))
		for _, item := range sec.Items {
			count++
			sb.WriteString(fmt.Sprintf("  #%d %s", item.ID, escape(item.Title)))
			if p := item.DisplayPrice(); p != "" {
				sb.WriteString(" — " + escape(p))
			}
			if h.svc.IsPendingDelete(item.ID) {
				sb.WriteString(" ⏳")
			}
			sb.WriteString("\n")
		}
	}

	if err := reply(bot, message.Chat.ID, sb.String()); err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"count":   count,
	}).Info("Listed wishlist")

	return nil
}

// ---------------------------------------------------------------------------
// WishShowHandler – /item <id>
// ---------------------------------------------------------------------------

// WishShowHandler handles the /item command.
type WishShowHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewWishShowHandler creates a new WishShowHandler.
func NewWishShowHandler(svc *service.Service, logger *logrus.Logger) *WishShowHandler {
	return &WishShowHandler{svc: svc, logger: logger}
}

// Handle processes the /item command.
func (h *WishShowHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	id, ok, err := parseItemID(bot, message.Chat.ID, args, "/item 5")
	if !ok {
		return err
	}

	item, err := h.svc.Get(context.Background(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return reply(bot, message.Chat.ID, fmt.Sprintf("❌ Item *#%d* not found.", id))
	}
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}

	description := "_Description not available_"
	if item.Description != "" {
		description = escape(item.Description)
	}
	price := "_Price not available_"
	if p := item.DisplayPrice(); p != "" {
		price = escape(p)
	}

	text := fmt.Sprintf("*#%d %s*\n\n%s\n\n*Price:* %s\n*Category:* %s",
		item.ID, escape(item.Title), description, price, escape(item.CategoryLabel()))

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	if item.HasURL() {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL("Open Website", item.URL)),
		)
	}

	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send item: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// WishDeleteHandler – /delete <id>
// ---------------------------------------------------------------------------

// WishDeleteHandler schedules a deletion and offers an Undo button for the
// length of the undo window.
type WishDeleteHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewWishDeleteHandler creates a new WishDeleteHandler.
func NewWishDeleteHandler(svc *service.Service, logger *logrus.Logger) *WishDeleteHandler {
	return &WishDeleteHandler{svc: svc, logger: logger}
}

// Handle processes the /delete command.
func (h *WishDeleteHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	id, ok, err := parseItemID(bot, message.Chat.ID, args, "/delete 5")
	if !ok {
		return err
	}

	pending, err := h.svc.ScheduleDelete(context.Background(), id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return reply(bot, message.Chat.ID, fmt.Sprintf("❌ Item *#%d* not found.", id))
	case errors.Is(err, service.ErrSchedulerClosed):
		return reply(bot, message.Chat.ID, "❌ Wishlist is shutting down. Please try again later.")
	case err != nil:
		return fmt.Errorf("schedule deletion: %w", err)
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, "🗑 Item will be deleted.")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Undo", fmt.Sprintf("%s:%d", UndoCallbackPrefix, id)),
		),
	)
	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send deletion notice: %w", err)
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id":   message.Chat.ID,
		"item_id":   id,
		"delete_at": pending.DeleteAt,
	}).Info("Wish item deletion scheduled")

	return nil
}

// ---------------------------------------------------------------------------
// UndoHandler – callback "undo:<id>"
// ---------------------------------------------------------------------------

// UndoHandler cancels a pending deletion from its inline button.
type UndoHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewUndoHandler creates a new UndoHandler.
func NewUndoHandler(svc *service.Service, logger *logrus.Logger) *UndoHandler {
	return &UndoHandler{svc: svc, logger: logger}
}

// HandleCallback restores the item and rewrites the deletion notice.
func (h *UndoHandler) HandleCallback(bot telegram.Sender, query *tgbotapi.CallbackQuery, data string) error {
	id, err := strconv.ParseInt(data, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid undo payload %q: %w", data, err)
	}

	var answer, text string
	pending, err := h.svc.UndoDelete(id)
	switch {
	case errors.Is(err, service.ErrNoPendingDeletion):
		// Nothing pending: either the window closed or the item was
		// already restored elsewhere.
		item, getErr := h.svc.Get(context.Background(), id)
		switch {
		case errors.Is(getErr, repository.ErrNotFound):
			answer = "Too late"
			text = "🗑 Item deleted."
		case getErr != nil:
			return fmt.Errorf("get item: %w", getErr)
		default:
			answer = "Already restored"
			text = fmt.Sprintf("↩️ %s is still on your wishlist.", item.Title)
		}
	case err != nil:
		return fmt.Errorf("undo deletion: %w", err)
	default:
		answer = "Restored"
		text = fmt.Sprintf("↩️ Deletion of %s undone.", pending.Title)
	}

	if _, err := bot.Request(tgbotapi.NewCallback(query.ID, answer)); err != nil {
		return fmt.Errorf("failed to answer callback: %w", err)
	}

	if query.Message != nil {
		edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID, text)
		if _, err := bot.Send(edit); err != nil {
			return fmt.Errorf("failed to edit deletion notice: %w", err)
		}
	}

	h.logger.WithFields(logrus.Fields{
		"item_id": id,
		"undone":  err == nil,
	}).Info("Handled undo request")

	return nil
}
