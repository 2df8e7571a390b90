package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pfrederiksen/ru-menu/internal/logger"
)

const dateLayout = "2006-01-02"

// Fetcher retrieves the raw menu text
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// FetcherFunc adapts a function to the Fetcher interface
type FetcherFunc func(ctx context.Context) (string, error)

// Fetch calls f(ctx)
func (f FetcherFunc) Fetch(ctx context.Context) (string, error) {
	return f(ctx)
}

// Store persists cache entries across restarts
type Store interface {
	Load() (map[string]string, error)
	Put(date, text string) error
}

// Daily caches one menu text per calendar date. It is safe for concurrent use.
type Daily struct {
	fetcher Fetcher
	loc     *time.Location
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]string
	store   Store

	group singleflight.Group
}

// New creates a cache that fetches through f. Dates are interpreted in loc
// (nil means time.Local).
func New(f Fetcher, loc *time.Location) *Daily {
	if loc == nil {
		loc = time.Local
	}
	return &Daily{
		fetcher: f,
		loc:     loc,
		now:     time.Now,
		entries: make(map[string]string),
	}
}

// Restore loads previously persisted entries from store and writes every
// new entry back to it
func (d *Daily) Restore(store Store) error {
	texts, err := store.Load()
	if err != nil {
		return fmt.Errorf("loading cache store: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for key, text := range texts {
		if _, exists := d.entries[key]; !exists {
			d.entries[key] = text
		}
	}
	d.store = store

	return nil
}

// Key returns the cache key for date
func (d *Daily) Key(date time.Time) string {
	return date.In(d.loc).Format(dateLayout)
}

// Get returns the cached text for date without fetching
func (d *Daily) Get(date time.Time) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	text, ok := d.entries[d.Key(date)]
	return text, ok
}

// Len returns the number of cached dates
func (d *Daily) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}

// Today returns the menu text for the current date
func (d *Daily) Today(ctx context.Context) (string, error) {
	return d.GetOrFetch(ctx, d.now())
}

// GetOrFetch returns the text cached for date, fetching it on a miss. The
// result is stored only when the fetch succeeds, so a failed fetch is retried
// by the next call.
func (d *Daily) GetOrFetch(ctx context.Context, date time.Time) (string, error) {
	key := d.Key(date)

	if text, ok := d.lookup(key); ok {
		logger.IncrCounter("cache.hit")
		return text, nil
	}

	v, err, shared := d.group.Do(key, func() (interface{}, error) {
		// Another caller may have stored the entry between lookup and Do
		if text, ok := d.lookup(key); ok {
			return text, nil
		}

		logger.IncrCounter("cache.miss")
		text, err := d.fetcher.Fetch(ctx)
		if err != nil {
			return "", err
		}

		return d.insert(key, text), nil
	})
	if err != nil {
		logger.Warn("Menu fetch failed, cache left empty", logger.Fields{
			"date":   key,
			"shared": shared,
			"error":  err.Error(),
		})
		return "", err
	}

	return v.(string), nil
}

func (d *Daily) lookup(key string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	text, ok := d.entries[key]
	return text, ok
}

// insert stores text under key unless an entry already exists, and returns
// the entry that ends up cached
func (d *Daily) insert(key, text string) string {
	d.mu.Lock()
	if existing, ok := d.entries[key]; ok {
		d.mu.Unlock()
		return existing
	}
	d.entries[key] = text
	store := d.store
	d.mu.Unlock()

	logger.Info("Menu cached", logger.Fields{
		"date":  key,
		"lines": countLines(text),
	})

	if store != nil {
		if err := store.Put(key, text); err != nil {
			logger.Error("Failed to persist cached menu", logger.Fields{"date": key}, err)
		}
	}

	return text
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	return strings.Count(text, "\n") + 1
}
