package testutil

import (
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// FakeBot records everything sent through it instead of calling Telegram.
type FakeBot struct {
	mu       sync.Mutex
	Sent     []tgbotapi.Chattable
	Requests []tgbotapi.Chattable
	nextID   int
}

func (b *FakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Sent = append(b.Sent, c)
	b.nextID++
	return tgbotapi.Message{MessageID: b.nextID}, nil
}

func (b *FakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Requests = append(b.Requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

// Texts returns the text of every sent message and message edit.
func (b *FakeBot) Texts() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, c := range b.Sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, m.Text)
		case tgbotapi.EditMessageTextConfig:
			out = append(out, m.Text)
		}
	}
	return out
}

// LastMessage returns the most recent plain message sent.
func (b *FakeBot) LastMessage() (tgbotapi.MessageConfig, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.Sent) - 1; i >= 0; i-- {
		if m, ok := b.Sent[i].(tgbotapi.MessageConfig); ok {
			return m, true
		}
	}
	return tgbotapi.MessageConfig{}, false
}

// CommandMessage builds an incoming message holding a bot command.
func CommandMessage(chatID int64, text string) *tgbotapi.Message {
	command, _, _ := strings.Cut(text, " ")
	return &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: chatID},
		From:      &tgbotapi.User{ID: 100, UserName: "tester", FirstName: "Test"},
		Text:      text,
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: len(command)},
		},
	}
}
