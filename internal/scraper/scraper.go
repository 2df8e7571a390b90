package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"golang.org/x/net/html"

	"github.com/pfrederiksen/ru-menu/internal/logger"
)

const (
	MenuURL           = "https://www.ufc.br/restaurante/cardapio/1-restaurante-universitario-de-fortaleza"
	UserAgent         = "ru-menu/1.0 (github.com/pfrederiksen/ru-menu)"
	Timeout           = 30 * time.Second
	ContainerSelector = "div.c-cardapios"
	MaxRetries        = 2
)

var (
	// ErrFetchFailed covers transport errors and non-200 responses
	ErrFetchFailed = errors.New("fetch failed")
	// ErrContainerNotFound means the page no longer has the menu container
	ErrContainerNotFound = errors.New("menu container not found")
)

// Scraper handles fetching and extracting the RU menu page
type Scraper struct {
	client          *http.Client
	url             string
	maxRetries      uint64
	initialInterval time.Duration
}

// New creates a Scraper for url. An empty url uses MenuURL.
func New(url string) *Scraper {
	if url == "" {
		url = MenuURL
	}
	return &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		url:             url,
		maxRetries:      MaxRetries,
		initialInterval: 500 * time.Millisecond,
	}
}

// URL returns the page the scraper reads
func (s *Scraper) URL() string {
	return s.url
}

// Fetch downloads the menu page and returns the container text
func (s *Scraper) Fetch(ctx context.Context) (string, error) {
	start := time.Now()
	defer func() {
		logger.RecordTiming("scraper.fetch", time.Since(start))
	}()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.initialInterval
	b := backoff.WithContext(backoff.WithMaxRetries(policy, s.maxRetries), ctx)

	var text string
	attempt := 0
	op := func() error {
		attempt++
		body, err := s.get(ctx)
		if err != nil {
			return err
		}
		defer body.Close()

		t, err := ExtractText(body)
		if err != nil {
			return backoff.Permanent(err)
		}
		text = t
		return nil
	}

	notify := func(err error, wait time.Duration) {
		logger.Warn("Menu fetch failed, retrying", logger.Fields{
			"url":     s.url,
			"attempt": attempt,
			"wait":    wait.String(),
			"error":   err.Error(),
		})
	}

	if err := backoff.RetryNotify(op, b, notify); err != nil {
		logger.IncrCounter("scraper.failure")
		return "", err
	}

	logger.IncrCounter("scraper.success")
	return text, nil
}

// get performs one request. Errors worth retrying are returned as is,
// everything else is wrapped in backoff.Permanent.
func (s *Scraper) get(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(fmt.Errorf("%w: %v", ErrFetchFailed, ctx.Err()))
		}
		return nil, fmt.Errorf("%w: fetching page: %v", ErrFetchFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		err := fmt.Errorf("%w: unexpected status code: %d", ErrFetchFailed, resp.StatusCode)
		if resp.StatusCode >= 500 {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}

	return resp.Body, nil
}

// ExtractText parses an HTML document and returns the text of the menu
// container, one trimmed text node per line
func ExtractText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	container := doc.Find(ContainerSelector).First()
	if container.Length() == 0 {
		return "", ErrContainerNotFound
	}

	var lines []string
	for _, n := range container.Nodes {
		collectText(n, &lines)
	}

	return strings.Join(lines, "\n"), nil
}

// collectText walks n in document order and appends every non-blank text node
func collectText(n *html.Node, lines *[]string) {
	switch n.Type {
	case html.TextNode:
		if text := strings.TrimSpace(n.Data); text != "" {
			*lines = append(*lines, text)
		}
		return
	case html.ElementNode:
		if n.Data == "script" || n.Data == "style" {
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, lines)
	}
}
