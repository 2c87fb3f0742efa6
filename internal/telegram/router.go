package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Sender is the part of *tgbotapi.BotAPI the handlers use.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// CommandHandler defines the interface for command handlers
type CommandHandler interface {
	Handle(bot Sender, message *tgbotapi.Message, args []string) error
}

// CallbackHandler handles inline keyboard presses. data is the callback
// data with the "<prefix>:" routing key removed.
type CallbackHandler interface {
	HandleCallback(bot Sender, query *tgbotapi.CallbackQuery, data string) error
}

// Router handles message routing and command parsing
type Router struct {
	logger    *logrus.Logger
	chatID    int64
	handlers  map[string]CommandHandler
	callbacks map[string]CallbackHandler
}

// NewRouter creates a new message router. A non-zero chatID restricts the
// bot to that chat.
func NewRouter(logger *logrus.Logger, chatID int64) *Router {
	return &Router{
		logger:    logger,
		chatID:    chatID,
		handlers:  make(map[string]CommandHandler),
		callbacks: make(map[string]CallbackHandler),
	}
}

// RegisterCommand registers a command handler
func (r *Router) RegisterCommand(command string, handler CommandHandler) {
	r.handlers[command] = handler
	r.logger.Debugf("Registered command: %s", command)
}

// RegisterCallback routes callback data of the form "<prefix>:<payload>".
func (r *Router) RegisterCallback(prefix string, handler CallbackHandler) {
	r.callbacks[prefix] = handler
	r.logger.Debugf("Registered callback: %s", prefix)
}

func (r *Router) allowed(chatID int64) bool {
	return r.chatID == 0 || r.chatID == chatID
}

// HandleMessage handles incoming messages
func (r *Router) HandleMessage(bot Sender, message *tgbotapi.Message) {
	fields := logrus.Fields{
		"chat_id":    message.Chat.ID,
		"message_id": message.MessageID,
		"text":       message.Text,
	}
	if message.From != nil {
		fields["user_id"] = message.From.ID
		fields["username"] = message.From.UserName
	}
	entry := r.logger.WithFields(fields)

	if !r.allowed(message.Chat.ID) {
		entry.Warn("Ignoring message from foreign chat")
		return
	}
	entry.Info("Received message")

	if message.Text == "" || !message.IsCommand() {
		return
	}

	command := message.Command()
	args := strings.Fields(message.CommandArguments())

	handler, exists := r.handlers[command]
	if !exists {
		entry.WithField("command", command).Warn("Unknown command")

		unknownMsg := tgbotapi.NewMessage(message.Chat.ID, "❓ Unknown command. Use /help to see available commands.")
		if _, err := bot.Send(unknownMsg); err != nil {
			entry.WithError(err).Error("Failed to send message")
		}
		return
	}

	if err := handler.Handle(bot, message, args); err != nil {
		entry.WithFields(logrus.Fields{
			"command": command,
			"error":   err,
		}).Error("Command handler failed")

		errorMsg := tgbotapi.NewMessage(message.Chat.ID, "❌ An error occurred while processing your command. Please try again.")
		if _, err := bot.Send(errorMsg); err != nil {
			entry.WithError(err).Error("Failed to send message")
		}
	}
}

// HandleCallbackQuery handles callback queries from inline keyboards
func (r *Router) HandleCallbackQuery(bot Sender, callbackQuery *tgbotapi.CallbackQuery) {
	entry := r.logger.WithFields(logrus.Fields{
		"callback_id": callbackQuery.ID,
		"user_id":     callbackQuery.From.ID,
		"data":        callbackQuery.Data,
	})

	if msg := callbackQuery.Message; msg != nil && !r.allowed(msg.Chat.ID) {
		entry.Warn("Ignoring callback from foreign chat")
		return
	}
	entry.Info("Received callback query")

	prefix, data, _ := strings.Cut(callbackQuery.Data, ":")
	handler, exists := r.callbacks[prefix]
	if !exists {
		entry.Warn("Unknown callback")
		r.answer(bot, entry, callbackQuery.ID, "")
		return
	}

	if err := handler.HandleCallback(bot, callbackQuery, data); err != nil {
		entry.WithError(err).Error("Callback handler failed")
		r.answer(bot, entry, callbackQuery.ID, "❌ Something went wrong")
	}
}

// answer clears the button's loading state.
func (r *Router) answer(bot Sender, entry *logrus.Entry, id, text string) {
	if _, err := bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		entry.WithError(err).Error("Failed to answer callback query")
	}
}
