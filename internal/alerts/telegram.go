package alerts

import (
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram delivers digests to a single chat. Optional: the caller skips
// construction entirely when no token is configured.
type Telegram struct {
	bot        *tgbotapi.BotAPI
	chatID     int64
	maxRetries int
	retryDelay time.Duration
}

// NewTelegram creates a Telegram sender for the given bot token and chat.
func NewTelegram(botToken, chatID string) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	return &Telegram{
		bot:        bot,
		chatID:     chatIDInt,
		maxRetries: 3,
		retryDelay: time.Second,
	}, nil
}

// Send delivers a plain-text message, retrying with linear backoff.
func (t *Telegram) Send(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)

	var lastErr error
	for i := 0; i < t.maxRetries; i++ {
		_, err := t.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(t.retryDelay * time.Duration(i+1))
	}

	return fmt.Errorf("sending message after %d retries: %w", t.maxRetries, lastErr)
}
