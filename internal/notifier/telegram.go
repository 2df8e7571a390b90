package notifier

import (
	"context"
	"fmt"
)

// MessageSender sends a message to a chat
type MessageSender interface {
	SendMessageTo(ctx context.Context, chatID, text string) error
}

// TelegramNotifier posts the menu to a fixed Telegram chat
type TelegramNotifier struct {
	client MessageSender
	chatID string
}

// NewTelegramNotifier creates a notifier that sends to chatID
func NewTelegramNotifier(client MessageSender, chatID string) (*TelegramNotifier, error) {
	if chatID == "" {
		return nil, fmt.Errorf("chat ID is required")
	}
	return &TelegramNotifier{client: client, chatID: chatID}, nil
}

// Notify sends text to the configured chat
func (n *TelegramNotifier) Notify(ctx context.Context, text string) error {
	if err := n.client.SendMessageTo(ctx, n.chatID, text); err != nil {
		return fmt.Errorf("sending to chat %s: %w", n.chatID, err)
	}
	return nil
}
