package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
)

const (
	apiBaseURL = "https://api.telegram.org/bot"
	timeout    = 10 * time.Second

	// ParseMode is the formatting used for every outgoing message
	ParseMode = "Markdown"
)

// ErrMessageRequired is returned when asked to send an empty message
var ErrMessageRequired = errors.New("message text is required")

// Client represents a Telegram Bot API client
type Client struct {
	botToken   string
	chatID     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Telegram client. chatID is the default destination
// for SendMessage and may be empty when the client only answers commands.
func NewClient(botToken, chatID string) (*Client, error) {
	if botToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	return &Client{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  apiBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// ChatID returns the default destination chat
func (c *Client) ChatID() string {
	return c.chatID
}

func (c *Client) endpoint(method string) string {
	return fmt.Sprintf("%s%s/%s", c.baseURL, c.botToken, method)
}

// SendMessage sends a text message to the configured chat
func (c *Client) SendMessage(ctx context.Context, text string) error {
	if c.chatID == "" {
		return fmt.Errorf("chat ID is required")
	}
	return c.SendMessageTo(ctx, c.chatID, text)
}

// SendMessageTo sends a Markdown message to chatID
func (c *Client) SendMessageTo(ctx context.Context, chatID, text string) error {
	return c.sendMessage(ctx, chatID, text, ParseMode)
}

// SendPlainMessageTo sends text to chatID without any parse mode
func (c *Client) SendPlainMessageTo(ctx context.Context, chatID, text string) error {
	return c.sendMessage(ctx, chatID, text, "")
}

func (c *Client) sendMessage(ctx context.Context, chatID, text, parseMode string) error {
	if text == "" {
		return ErrMessageRequired
	}

	payload := map[string]interface{}{
		"chat_id":                  chatID,
		"text":                     text,
		"disable_web_page_preview": true,
	}
	if parseMode != "" {
		payload["parse_mode"] = parseMode
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("sendMessage"), bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	_, err = c.do(c.httpClient, req)
	return err
}

// GetUpdates long-polls for new updates starting at offset. timeoutSeconds
// is passed to Telegram; the HTTP timeout is extended to cover it.
func (c *Client) GetUpdates(ctx context.Context, offset, timeoutSeconds int) ([]Update, error) {
	params := url.Values{}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
	if timeoutSeconds > 0 {
		params.Set("timeout", strconv.Itoa(timeoutSeconds))
	}
	params.Set("allowed_updates", `["message"]`)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("getUpdates")+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	// Add extra time to the HTTP timeout to account for Telegram's long polling
	clientTimeout := time.Duration(timeoutSeconds+10) * time.Second
	if clientTimeout < 15*time.Second {
		clientTimeout = 15 * time.Second
	}
	pollClient := &http.Client{Timeout: clientTimeout, Transport: c.httpClient.Transport}

	result, err := c.do(pollClient, req)
	if err != nil {
		return nil, err
	}

	var updates []Update
	if raw := result.Raw; raw != "" {
		if err := json.Unmarshal([]byte(raw), &updates); err != nil {
			return nil, fmt.Errorf("decoding updates: %w", err)
		}
	}

	return updates, nil
}

// do executes req and returns the "result" field of a successful response
func (c *Client) do(client *http.Client, req *http.Request) (gjson.Result, error) {
	resp, err := client.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("reading response: %w", err)
	}

	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("telegram API error (status %d): invalid response body", resp.StatusCode)
	}

	envelope := gjson.ParseBytes(body)
	if resp.StatusCode != http.StatusOK || !envelope.Get("ok").Bool() {
		description := envelope.Get("description").String()
		if description == "" {
			description = string(body)
		}
		return gjson.Result{}, fmt.Errorf("telegram API error (status %d): %s", resp.StatusCode, description)
	}

	return envelope.Get("result"), nil
}
