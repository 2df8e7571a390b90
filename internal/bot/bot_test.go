package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pfrederiksen/ru-menu/internal/telegram"
)

type fakeRenderer struct {
	meals []string
	today int
}

func (r *fakeRenderer) RenderMeal(ctx context.Context, name string) string {
	r.meals = append(r.meals, name)
	return "menu:" + name
}

func (r *fakeRenderer) RenderToday(ctx context.Context) string {
	r.today++
	return "menu:today"
}

type sent struct {
	chatID   string
	text     string
	markdown bool
}

type fakeAPI struct {
	mu      sync.Mutex
	batches [][]telegram.Update
	errs    []error
	offsets []int
	sent    []sent
	sendErr error
	cancel  context.CancelFunc
}

func (a *fakeAPI) GetUpdates(ctx context.Context, offset, timeoutSeconds int) ([]telegram.Update, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.offsets = append(a.offsets, offset)

	if len(a.errs) > 0 {
		err := a.errs[0]
		a.errs = a.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	if len(a.batches) == 0 {
		a.cancel()
		return nil, context.Canceled
	}
	batch := a.batches[0]
	a.batches = a.batches[1:]
	return batch, nil
}

func (a *fakeAPI) SendMessageTo(ctx context.Context, chatID, text string) error {
	return a.record(sent{chatID, text, true})
}

func (a *fakeAPI) SendPlainMessageTo(ctx context.Context, chatID, text string) error {
	return a.record(sent{chatID, text, false})
}

func (a *fakeAPI) record(s sent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sent = append(a.sent, s)
	return a.sendErr
}

func message(updateID int, chatID int64, text string) telegram.Update {
	return telegram.Update{
		UpdateID: updateID,
		Message: &telegram.Message{
			MessageID: updateID,
			Chat:      telegram.Chat{ID: chatID, Type: "private"},
			Text:      text,
		},
	}
}

func TestProcessCommand(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		want         string
		wantMeal     string
		wantMarkdown bool
	}{
		{name: "breakfast", text: "/desjejum", want: "menu:Desjejum", wantMeal: "Desjejum", wantMarkdown: true},
		{name: "lunch", text: "/almoco", want: "menu:Almoço", wantMeal: "Almoço", wantMarkdown: true},
		{name: "dinner uppercase", text: "/JANTAR", want: "menu:Jantar", wantMeal: "Jantar", wantMarkdown: true},
		{name: "group mention", text: "/almoco@ru_ufc_bot", want: "menu:Almoço", wantMeal: "Almoço", wantMarkdown: true},
		{name: "today", text: "/hoje", want: "menu:today", wantMarkdown: true},
		{name: "free text echoes chat id", text: "oi", want: "Seu chat_id é: 555"},
		{name: "unknown command echoes chat id", text: "/cafe", want: "Seu chat_id é: 555"},
		{name: "empty", text: "", want: "Seu chat_id é: 555"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeRenderer{}
			b := New(&fakeAPI{}, r)

			got := b.ProcessCommand(context.Background(), "555", tt.text)
			if got.Text != tt.want {
				t.Errorf("ProcessCommand(%q) = %q, want %q", tt.text, got.Text, tt.want)
			}
			if got.Markdown != tt.wantMarkdown {
				t.Errorf("ProcessCommand(%q).Markdown = %v, want %v", tt.text, got.Markdown, tt.wantMarkdown)
			}
			if tt.wantMeal != "" && (len(r.meals) != 1 || r.meals[0] != tt.wantMeal) {
				t.Errorf("rendered meals = %q, want [%q]", r.meals, tt.wantMeal)
			}
		})
	}
}

func TestProcessCommand_Help(t *testing.T) {
	b := New(&fakeAPI{}, &fakeRenderer{})

	for _, cmd := range []string{"/start", "/help"} {
		got := b.ProcessCommand(context.Background(), "1", cmd)
		if !got.Markdown {
			t.Errorf("%s reply is not Markdown", cmd)
		}
		for _, want := range []string{"/desjejum", "/almoco", "/jantar", "/hoje"} {
			if !strings.Contains(got.Text, want) {
				t.Errorf("%s reply missing %q", cmd, want)
			}
		}
	}
}

func TestRun_RepliesAndAdvancesOffset(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := &fakeAPI{
		cancel: cancel,
		batches: [][]telegram.Update{
			{message(10, 1, "/almoco"), {UpdateID: 11}},
			{message(12, 2, "/hoje")},
		},
	}
	b := New(api, &fakeRenderer{})

	err := b.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}

	wantOffsets := []int{0, 12, 13}
	if len(api.offsets) != len(wantOffsets) {
		t.Fatalf("offsets = %v, want %v", api.offsets, wantOffsets)
	}
	for i := range wantOffsets {
		if api.offsets[i] != wantOffsets[i] {
			t.Errorf("offsets = %v, want %v", api.offsets, wantOffsets)
			break
		}
	}

	if len(api.sent) != 2 {
		t.Fatalf("sent %d replies, want 2: %+v", len(api.sent), api.sent)
	}
	if api.sent[0] != (sent{"1", "menu:Almoço", true}) {
		t.Errorf("first reply = %+v", api.sent[0])
	}
	if api.sent[1] != (sent{"2", "menu:today", true}) {
		t.Errorf("second reply = %+v", api.sent[1])
	}
}

func TestRun_RetriesAfterPollError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := &fakeAPI{
		cancel:  cancel,
		errs:    []error{errors.New("telegram API error (status 502)")},
		batches: [][]telegram.Update{{message(1, 9, "/jantar")}},
	}
	b := New(api, &fakeRenderer{})
	b.retryDelay = time.Millisecond

	if err := b.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if len(api.sent) != 1 || api.sent[0].text != "menu:Jantar" {
		t.Errorf("sent = %+v, want one dinner reply", api.sent)
	}
}

func TestRun_SendFailureDoesNotStopLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := &fakeAPI{
		cancel:  cancel,
		sendErr: errors.New("bot was blocked by the user"),
		batches: [][]telegram.Update{
			{message(1, 1, "/almoco")},
			{message(2, 2, "/jantar")},
		},
	}
	b := New(api, &fakeRenderer{})

	if err := b.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if len(api.sent) != 2 {
		t.Errorf("attempted %d sends, want 2", len(api.sent))
	}
}

func TestRun_ChatIDEchoIsPlainText(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := &fakeAPI{
		cancel:  cancel,
		batches: [][]telegram.Update{{message(1, -1002, "oi"), message(2, -1002, "/almoco")}},
	}
	b := New(api, &fakeRenderer{})

	if err := b.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if len(api.sent) != 2 {
		t.Fatalf("sent %d replies, want 2", len(api.sent))
	}
	if api.sent[0] != (sent{"-1002", "Seu chat_id é: -1002", false}) {
		t.Errorf("echo reply = %+v, want plain text", api.sent[0])
	}
	if !api.sent[1].markdown {
		t.Errorf("menu reply = %+v, want Markdown", api.sent[1])
	}
}
