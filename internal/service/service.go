package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pfrederiksen/ru-menu/internal/calendar"
	"github.com/pfrederiksen/ru-menu/internal/logger"
	"github.com/pfrederiksen/ru-menu/internal/menu"
	"github.com/pfrederiksen/ru-menu/internal/notifier"
	"github.com/pfrederiksen/ru-menu/internal/scraper"
)

const (
	MsgFetchFailed       = "Erro ao buscar o cardápio."
	MsgContainerNotFound = "Cardápio não encontrado."
)

// Source returns today's raw menu text; satisfied by *cache.Daily
type Source interface {
	Today(ctx context.Context) (string, error)
}

// Service renders menus from a Source
type Service struct {
	source Source
	loc    *time.Location
	now    func() time.Time
}

// New creates a Service reading from source. Dates are evaluated in loc
// (nil means time.Local).
func New(source Source, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{source: source, loc: loc, now: time.Now}
}

// Menu fetches (or reuses) today's text and parses it
func (s *Service) Menu(ctx context.Context) (*menu.ParsedMenu, error) {
	raw, err := s.source.Today(ctx)
	if err != nil {
		return nil, err
	}
	return menu.Parse(raw), nil
}

// Render returns the display text for the meal called name. The text is
// always displayable; err classifies what went wrong, if anything.
func (s *Service) Render(ctx context.Context, name string) (string, error) {
	if _, ok := menu.ParseMeal(name); !ok {
		return menu.FormatMeal(name, nil)
	}

	pm, err := s.Menu(ctx)
	if err != nil {
		return FetchErrorMessage(err), err
	}
	return menu.FormatMeal(name, pm)
}

// RenderMeal is Render without the error, logging failures by kind
func (s *Service) RenderMeal(ctx context.Context, name string) string {
	text, err := s.Render(ctx, name)
	if err != nil {
		logRenderError(name, err)
	}
	return text
}

// RenderToday renders all three meals. When the page cannot be fetched the
// fetch error message is returned on its own.
func (s *Service) RenderToday(ctx context.Context) string {
	pm, err := s.Menu(ctx)
	if err != nil {
		logRenderError("today", err)
		return FetchErrorMessage(err)
	}
	return menu.FormatToday(pm)
}

// FetchErrorMessage maps a fetch error to the text shown to users
func FetchErrorMessage(err error) string {
	if errors.Is(err, scraper.ErrContainerNotFound) {
		return MsgContainerNotFound
	}
	return MsgFetchFailed
}

func logRenderError(meal string, err error) {
	fields := logger.Fields{"meal": meal}
	switch {
	case errors.Is(err, menu.ErrUnknownMeal):
		logger.IncrCounter("render.unknown_meal")
		logger.Info("Unknown meal requested", fields)
	case errors.Is(err, menu.ErrEmptySection):
		logger.IncrCounter("render.empty_section")
		logger.Warn("No items found for meal", fields)
	case errors.Is(err, scraper.ErrContainerNotFound):
		logger.IncrCounter("render.container_not_found")
		logger.Error("Menu container missing from page, layout may have changed", fields, err)
	default:
		logger.IncrCounter("render.fetch_failed")
		logger.Error("Failed to fetch menu", fields, err)
	}
}

// DeliveryResult describes what Deliver did
type DeliveryResult struct {
	Sent    bool
	Reason  string
	Message string
}

// Deliver renders meal and sends it through n, unless today is not a service
// day and force is false
func (s *Service) Deliver(ctx context.Context, meal menu.Meal, n notifier.Notifier, force bool) (DeliveryResult, error) {
	today := s.now().In(s.loc)

	if !force && !calendar.IsServiceDay(today) {
		reason := "weekend"
		if h, ok := calendar.HolidayOn(today); ok {
			reason = h.Name
		}
		logger.Info("Not a service day, nothing sent", logger.Fields{
			"date":   today.Format("2006-01-02"),
			"reason": reason,
		})
		return DeliveryResult{Reason: reason}, nil
	}

	text := s.RenderMeal(ctx, meal.Label())
	if err := n.Notify(ctx, text); err != nil {
		logger.IncrCounter("delivery.failure")
		return DeliveryResult{Message: text}, fmt.Errorf("delivering %s menu: %w", meal.Label(), err)
	}

	logger.IncrCounter("delivery.success")
	logger.Info("Menu sent", logger.Fields{
		"date": today.Format("2006-01-02"),
		"meal": meal.Label(),
	})
	return DeliveryResult{Sent: true, Message: text}, nil
}
