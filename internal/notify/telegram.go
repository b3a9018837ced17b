package notify

import (
	"context"
	"fmt"
	"net/http"
)

// TelegramSender delivers notifications via the Telegram Bot API.
type TelegramSender struct {
	endpoint string
	chatID   string
	client   *http.Client
}

// NewTelegramSender creates a TelegramSender for the given bot token and chat
// ID.
func NewTelegramSender(token, chatID string) *TelegramSender {
	return &TelegramSender{
		endpoint: "https://api.telegram.org/bot" + token + "/sendMessage",
		chatID:   chatID,
		client:   newHTTPClient(),
	}
}

// Send posts a message to the configured chat using the sendMessage API, with
// the title rendered in bold.
func (t *TelegramSender) Send(ctx context.Context, title, message string) error {
	payload := map[string]string{
		"chat_id":    t.chatID,
		"text":       fmt.Sprintf("*%s*\n%s", title, message),
		"parse_mode": "Markdown",
	}
	if err := postJSON(ctx, t.client, t.endpoint, payload); err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	return nil
}

// Name returns the sender identifier.
func (t *TelegramSender) Name() string { return "telegram" }
