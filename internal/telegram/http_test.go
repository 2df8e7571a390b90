package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient("test-token", "12345")
	if err != nil {
		t.Fatal(err)
	}
	client.baseURL = server.URL + "/bot"
	return client
}

func TestSendMessage_Success(t *testing.T) {
	var payload map[string]interface{}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.URL.Path != "/bottest-token/sendMessage" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected Content-Type application/json, got %s", r.Header.Get("Content-Type"))
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		w.Write([]byte(`{"ok":true,"result":{"message_id":123,"chat":{"id":12345,"type":"private"}}}`))
	})

	if err := client.SendMessage(context.Background(), "*ALMOÇO*\n- Arroz"); err != nil {
		t.Fatalf("SendMessage() unexpected error: %v", err)
	}

	if payload["chat_id"] != "12345" {
		t.Errorf("chat_id = %v, want 12345", payload["chat_id"])
	}
	if payload["parse_mode"] != "Markdown" {
		t.Errorf("parse_mode = %v, want Markdown", payload["parse_mode"])
	}
	if payload["text"] != "*ALMOÇO*\n- Arroz" {
		t.Errorf("text = %v", payload["text"])
	}
}

func TestSendPlainMessageTo_NoParseMode(t *testing.T) {
	var payload map[string]interface{}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		w.Write([]byte(`{"ok":true,"result":{"message_id":7}}`))
	})

	if err := client.SendPlainMessageTo(context.Background(), "-100_2", "Seu chat_id é: -100_2"); err != nil {
		t.Fatalf("SendPlainMessageTo() unexpected error: %v", err)
	}

	if _, ok := payload["parse_mode"]; ok {
		t.Errorf("parse_mode = %v, want it absent", payload["parse_mode"])
	}
	if payload["chat_id"] != "-100_2" || payload["text"] != "Seu chat_id é: -100_2" {
		t.Errorf("payload = %v", payload)
	}

	if err := client.SendPlainMessageTo(context.Background(), "1", ""); err != ErrMessageRequired {
		t.Errorf("empty text error = %v, want ErrMessageRequired", err)
	}
}

func TestSendMessageTo_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	})

	err := client.SendMessageTo(context.Background(), "999", "hello")
	if err == nil {
		t.Fatal("SendMessageTo() expected error, got nil")
	}
	if !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("error = %v, want Telegram description", err)
	}
}

func TestSendMessageTo_OKFalse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"Forbidden: bot was blocked by the user"}`))
	})

	err := client.SendMessageTo(context.Background(), "1", "hello")
	if err == nil || !strings.Contains(err.Error(), "blocked") {
		t.Errorf("SendMessageTo() error = %v, want blocked description", err)
	}
}

func TestSendMessageTo_InvalidBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>Bad Gateway</html>`))
	})

	if err := client.SendMessageTo(context.Background(), "1", "hello"); err == nil {
		t.Error("SendMessageTo() expected error for non-JSON body")
	}
}

func TestGetUpdates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottest-token/getUpdates" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("offset"); got != "42" {
			t.Errorf("offset = %q, want 42", got)
		}
		if got := r.URL.Query().Get("timeout"); got != "30" {
			t.Errorf("timeout = %q, want 30", got)
		}
		w.Write([]byte(`{"ok":true,"result":[
			{"update_id":42,"message":{"message_id":1,"from":{"id":7,"first_name":"Ana"},"chat":{"id":7,"type":"private"},"date":1760000000,"text":"/almoco"}},
			{"update_id":43}
		]}`))
	})

	updates, err := client.GetUpdates(context.Background(), 42, 30)
	if err != nil {
		t.Fatalf("GetUpdates() error: %v", err)
	}
	if len(updates) != 2 {
		t.Fatalf("GetUpdates() returned %d updates, want 2", len(updates))
	}

	msg := updates[0].Message
	if msg == nil {
		t.Fatal("first update has no message")
	}
	if msg.Text != "/almoco" || msg.Chat.ID != 7 || msg.From.FirstName != "Ana" {
		t.Errorf("message = %+v", msg)
	}
	if updates[1].Message != nil {
		t.Error("second update should have no message")
	}
}

func TestGetUpdates_Empty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("offset") {
			t.Error("offset should be omitted when zero")
		}
		w.Write([]byte(`{"ok":true,"result":[]}`))
	})

	updates, err := client.GetUpdates(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("GetUpdates() error: %v", err)
	}
	if len(updates) != 0 {
		t.Errorf("GetUpdates() returned %d updates, want 0", len(updates))
	}
}
