package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/pfrederiksen/ru-menu/internal/cache"
	"github.com/pfrederiksen/ru-menu/internal/logger"
	"github.com/pfrederiksen/ru-menu/internal/menu"
	"github.com/pfrederiksen/ru-menu/internal/notifier"
	"github.com/pfrederiksen/ru-menu/internal/scheduler"
	"github.com/pfrederiksen/ru-menu/internal/scraper"
	"github.com/pfrederiksen/ru-menu/internal/service"
	"github.com/pfrederiksen/ru-menu/internal/storage"
	"github.com/pfrederiksen/ru-menu/internal/telegram"
)

// newService builds scraper -> cache -> service. With persist the cache is
// seeded from and written to the data directory.
func (a *app) newService(persist bool) (*service.Service, error) {
	loc, err := a.cfg.Location()
	if err != nil {
		return nil, err
	}

	daily := cache.New(scraper.New(a.cfg.MenuURL), loc)

	if persist {
		store, err := storage.New(a.cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initializing storage: %w", err)
		}
		if err := daily.Restore(store); err != nil {
			return nil, err
		}
		logger.Debug("Menu cache restored", logger.Fields{
			"path":    store.Path(),
			"entries": daily.Len(),
		})
	}

	return service.New(daily, loc), nil
}

// newTelegramClient creates a client for the configured bot
func (a *app) newTelegramClient() (*telegram.Client, error) {
	if err := a.cfg.RequireToken(); err != nil {
		return nil, err
	}
	return telegram.NewClient(a.cfg.Token, a.cfg.ChatID)
}

// newNotifier returns where delivered menus go: out when dryRun, otherwise
// the configured Telegram chat plus Twitter when enabled
func (a *app) newNotifier(out io.Writer, dryRun bool) (notifier.Notifier, error) {
	if dryRun {
		return notifier.NewDryRunNotifier(out), nil
	}

	if err := a.cfg.RequireChat(); err != nil {
		return nil, err
	}
	client, err := a.newTelegramClient()
	if err != nil {
		return nil, err
	}
	tg, err := notifier.NewTelegramNotifier(client, a.cfg.ChatID)
	if err != nil {
		return nil, err
	}

	if !a.cfg.Twitter {
		return tg, nil
	}

	tw, err := notifier.NewTwitterNotifier()
	if err != nil {
		return nil, fmt.Errorf("creating Twitter notifier: %w", err)
	}
	return notifier.Multi{tg, tw}, nil
}

// lunchJob delivers the lunch menu on service days
func lunchJob(svc *service.Service, n notifier.Notifier) scheduler.Job {
	return func(ctx context.Context) error {
		_, err := svc.Deliver(ctx, menu.Lunch, n, false)
		return err
	}
}
