package telegram_test

import (
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Kerhoff/wishlist/internal/telegram"
	"github.com/Kerhoff/wishlist/internal/testutil"
)

type recordingCommand struct {
	args []string
	err  error
}

func (c *recordingCommand) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	c.args = args
	return c.err
}

type recordingCallback struct {
	data string
}

func (c *recordingCallback) HandleCallback(bot telegram.Sender, query *tgbotapi.CallbackQuery, data string) error {
	c.data = data
	return nil
}

func TestRouterDispatchesCommands(t *testing.T) {
	l, _ := testutil.Logger(t)
	r := telegram.NewRouter(l, 0)
	cmd := &recordingCommand{}
	r.RegisterCommand("wish", cmd)

	bot := &testutil.FakeBot{}
	r.HandleMessage(bot, testutil.CommandMessage(1, "/wish Lego | 49.99"))

	if strings.Join(cmd.args, " ") != "Lego | 49.99" {
		t.Errorf("args = %q", cmd.args)
	}
	if len(bot.Sent) != 0 {
		t.Errorf("router sent %d messages", len(bot.Sent))
	}
}

func TestRouterUnknownCommandAndFailure(t *testing.T) {
	l, _ := testutil.Logger(t)
	r := telegram.NewRouter(l, 0)
	r.RegisterCommand("boom", &recordingCommand{err: errors.New("db down")})

	bot := &testutil.FakeBot{}
	r.HandleMessage(bot, testutil.CommandMessage(1, "/nope"))
	r.HandleMessage(bot, testutil.CommandMessage(1, "/boom"))

	texts := bot.Texts()
	if len(texts) != 2 {
		t.Fatalf("texts = %q", texts)
	}
	if !strings.Contains(texts[0], "Unknown command") || !strings.Contains(texts[1], "An error occurred") {
		t.Errorf("texts = %q", texts)
	}
}

func TestRouterIgnoresForeignChats(t *testing.T) {
	l, _ := testutil.Logger(t)
	r := telegram.NewRouter(l, 42)
	cmd := &recordingCommand{}
	r.RegisterCommand("wishlist", cmd)

	bot := &testutil.FakeBot{}
	r.HandleMessage(bot, testutil.CommandMessage(7, "/wishlist now"))
	if cmd.args != nil || len(bot.Sent) != 0 {
		t.Fatalf("foreign chat handled: args %q sent %d", cmd.args, len(bot.Sent))
	}

	r.HandleMessage(bot, testutil.CommandMessage(42, "/wishlist now"))
	if len(cmd.args) != 1 {
		t.Errorf("allowed chat not handled: %q", cmd.args)
	}
}

func TestRouterCallbacks(t *testing.T) {
	l, _ := testutil.Logger(t)
	r := telegram.NewRouter(l, 0)
	cb := &recordingCallback{}
	r.RegisterCallback("undo", cb)

	bot := &testutil.FakeBot{}
	query := &tgbotapi.CallbackQuery{
		ID:      "q1",
		From:    &tgbotapi.User{ID: 100},
		Message: &tgbotapi.Message{MessageID: 5, Chat: &tgbotapi.Chat{ID: 1}},
		Data:    "undo:1732786200000",
	}
	r.HandleCallbackQuery(bot, query)
	if cb.data != "1732786200000" {
		t.Errorf("data = %q", cb.data)
	}

	query.Data = "other:1"
	r.HandleCallbackQuery(bot, query)
	if len(bot.Requests) != 1 {
		t.Errorf("unknown callback not answered: %d requests", len(bot.Requests))
	}
}
