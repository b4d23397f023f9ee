// Package notify pushes run results to a Telegram chat, so a scheduled
// render can report without anyone watching the logs.
package notify

import (
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// New connects the bot. Returns an error if the token is rejected.
func New(token string, chatID int64) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("notify: %w", err)
	}
	log.Printf("notify: telegram bot authorized as %s", api.Self.UserName)
	return &Notifier{api: api, chatID: chatID}, nil
}

// Send posts a plain-text message to the configured chat.
func (n *Notifier) Send(text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("notify: send: %w", err)
	}
	return nil
}

// SendWithRetry retries transient send failures with a short backoff.
func (n *Notifier) SendWithRetry(text string, attempts int) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = n.Send(text); err == nil {
			return nil
		}
		time.Sleep(time.Duration(i+1) * time.Second)
	}
	return err
}
