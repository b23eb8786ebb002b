package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/octobees/job-leads/api/internal/entity"
)

const (
	defaultTimeout  = 30 * time.Second
	maxFeedBodySize = 20 << 20
)

// ErrFeedURLMissing is returned when no feed URL is configured.
var ErrFeedURLMissing = errors.New("rss feed url is not configured")

// Fetcher downloads and parses the configured job feed.
type Fetcher struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

// NewFetcher builds a fetcher for feedURL. A nil client uses a fresh http.Client.
func NewFetcher(feedURL string, timeout time.Duration, client *http.Client) *Fetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if client == nil {
		client = &http.Client{}
	}
	return &Fetcher{url: strings.TrimSpace(feedURL), timeout: timeout, client: client}
}

// Fetch downloads the raw feed document.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	if f.url == "" {
		return "", ErrFeedURLMissing
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/rss+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch feed: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBodySize))
	if err != nil {
		return "", fmt.Errorf("read feed: %w", err)
	}
	return string(body), nil
}

// Items fetches the feed and parses its items.
func (f *Fetcher) Items(ctx context.Context) ([]entity.FeedItem, error) {
	raw, err := f.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return ParseItems(raw), nil
}
