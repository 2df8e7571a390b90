package telegram

import (
	"context"
	"errors"
	"testing"
)

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name      string
		botToken  string
		chatID    string
		wantError bool
	}{
		{
			name:     "valid parameters",
			botToken: "test-token",
			chatID:   "12345",
		},
		{
			name:     "no default chat",
			botToken: "test-token",
		},
		{
			name:      "empty bot token",
			chatID:    "12345",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.botToken, tt.chatID)
			if tt.wantError {
				if err == nil {
					t.Error("NewClient() expected error, got nil")
				}
				if client != nil {
					t.Error("NewClient() should return nil client on error")
				}
				return
			}

			if err != nil {
				t.Fatalf("NewClient() unexpected error: %v", err)
			}
			if client.botToken != tt.botToken {
				t.Errorf("botToken = %q, want %q", client.botToken, tt.botToken)
			}
			if client.ChatID() != tt.chatID {
				t.Errorf("ChatID() = %q, want %q", client.ChatID(), tt.chatID)
			}
			if client.httpClient == nil {
				t.Error("httpClient should not be nil")
			}
		})
	}
}

func TestSendMessage_Validation(t *testing.T) {
	client, _ := NewClient("test-token", "12345")

	err := client.SendMessage(context.Background(), "")
	if !errors.Is(err, ErrMessageRequired) {
		t.Errorf("SendMessage() error = %v, want ErrMessageRequired", err)
	}
}

func TestSendMessage_NoDefaultChat(t *testing.T) {
	client, _ := NewClient("test-token", "")

	if err := client.SendMessage(context.Background(), "hello"); err == nil {
		t.Error("SendMessage() without chat ID should fail")
	}
}
