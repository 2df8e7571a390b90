package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/ru-menu/internal/logger"
	"github.com/pfrederiksen/ru-menu/internal/menu"
	"github.com/pfrederiksen/ru-menu/internal/telegram"
)

// API is the part of the Telegram client the bot uses
type API interface {
	GetUpdates(ctx context.Context, offset, timeoutSeconds int) ([]telegram.Update, error)
	SendMessageTo(ctx context.Context, chatID, text string) error
	SendPlainMessageTo(ctx context.Context, chatID, text string) error
}

// Reply is the answer to one message. Menu and help replies are Markdown;
// the chat ID echo is plain text.
type Reply struct {
	Text     string
	Markdown bool
}

// Renderer produces menu text; satisfied by *service.Service
type Renderer interface {
	RenderMeal(ctx context.Context, name string) string
	RenderToday(ctx context.Context) string
}

// Bot long-polls Telegram and replies to commands
type Bot struct {
	api         API
	menus       Renderer
	pollTimeout int
	retryDelay  time.Duration
}

// New creates a Bot
func New(api API, menus Renderer) *Bot {
	return &Bot{
		api:         api,
		menus:       menus,
		pollTimeout: 30,
		retryDelay:  5 * time.Second,
	}
}

var mealCommands = map[string]menu.Meal{
	"/desjejum": menu.Breakfast,
	"/almoco":   menu.Lunch,
	"/jantar":   menu.Dinner,
}

// ProcessCommand returns the reply for text sent from chatID
func (b *Bot) ProcessCommand(ctx context.Context, chatID, text string) Reply {
	command := parseCommand(text)

	if meal, ok := mealCommands[command]; ok {
		return Reply{Text: b.menus.RenderMeal(ctx, meal.Label()), Markdown: true}
	}

	switch command {
	case "/hoje":
		return Reply{Text: b.menus.RenderToday(ctx), Markdown: true}
	case "/start", "/help":
		return Reply{Text: helpMessage(), Markdown: true}
	default:
		return Reply{Text: fmt.Sprintf("Seu chat_id é: %s", chatID)}
	}
}

// parseCommand returns the lowercase command word without any @botname suffix
func parseCommand(text string) string {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return ""
	}
	command := strings.ToLower(parts[0])
	if i := strings.Index(command, "@"); i > 0 {
		command = command[:i]
	}
	return command
}

func helpMessage() string {
	return `🍽️ *Cardápio do RU*

/desjejum - cardápio do desjejum
/almoco - cardápio do almoço
/jantar - cardápio do jantar
/hoje - todas as refeições de hoje

O cardápio do almoço também é enviado automaticamente nos dias úteis.`
}

// Run polls for updates until ctx is done
func (b *Bot) Run(ctx context.Context) error {
	logger.Info("Starting long polling loop", logger.Fields{"timeout_seconds": b.pollTimeout})
	offset := 0

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		updates, err := b.api.GetUpdates(ctx, offset, b.pollTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Error("Error getting updates", nil, err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(b.retryDelay):
			}
			continue
		}

		for _, update := range updates {
			b.handleUpdate(ctx, update)

			// Mark this update as processed
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update telegram.Update) {
	msg := update.Message
	if msg == nil {
		return
	}

	chatID := strconv.FormatInt(msg.Chat.ID, 10)
	text := strings.TrimSpace(msg.Text)
	command := parseCommand(text)

	logger.Info("Message received", logger.Fields{
		"chat_id": chatID,
		"command": command,
	})
	logger.IncrCounter("bot.messages")

	start := time.Now()
	reply := b.ProcessCommand(ctx, chatID, text)
	logger.RecordTiming("bot.reply", time.Since(start))

	send := b.api.SendPlainMessageTo
	if reply.Markdown {
		send = b.api.SendMessageTo
	}
	if err := send(ctx, chatID, reply.Text); err != nil {
		logger.IncrCounter("bot.send_failure")
		logger.Error("Error sending reply", logger.Fields{"chat_id": chatID}, err)
	}
}
