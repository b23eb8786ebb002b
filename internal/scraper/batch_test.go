package scraper

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type crawlerFunc func(ctx context.Context, visited *VisitedSet, siteURL string) ScrapedData

func (f crawlerFunc) ScrapeWebsite(ctx context.Context, visited *VisitedSet, siteURL string) ScrapedData {
	return f(ctx, visited, siteURL)
}

func TestScrapeAllPreservesOrderAndDropsPanics(t *testing.T) {
	crawler := crawlerFunc(func(ctx context.Context, visited *VisitedSet, siteURL string) ScrapedData {
		switch siteURL {
		case "https://a.com":
			time.Sleep(20 * time.Millisecond)
		case "https://boom.com":
			panic("parser exploded")
		}
		return ScrapedData{Emails: []string{"hr@" + siteURL[len("https://"):]}}
	})

	results := NewBatch(crawler, 2, nil).ScrapeAll(context.Background(), NewVisitedSet(),
		[]string{"https://a.com", "https://boom.com", "https://b.com", "https://c.com"})

	assert.Len(t, results, 3)
	assert.Equal(t, "hr@a.com", results[0].Emails[0])
	assert.Equal(t, "hr@b.com", results[1].Emails[0])
	assert.Equal(t, "hr@c.com", results[2].Emails[0])
}

func TestScrapeAllRespectsConcurrencyCap(t *testing.T) {
	var current, peak int32
	crawler := crawlerFunc(func(ctx context.Context, visited *VisitedSet, siteURL string) ScrapedData {
		n := atomic.AddInt32(&current, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&current, -1)
		return ScrapedData{}
	})

	urls := make([]string, 10)
	for i := range urls {
		urls[i] = "https://site.com"
	}
	results := NewBatch(crawler, 3, nil).ScrapeAll(context.Background(), nil, urls)

	assert.Len(t, results, 10)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
}

func TestScrapeAllStopsLaunchingAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int32
	crawler := crawlerFunc(func(ctx context.Context, visited *VisitedSet, siteURL string) ScrapedData {
		atomic.AddInt32(&calls, 1)
		cancel()
		return ScrapedData{}
	})

	NewBatch(crawler, 1, nil).ScrapeAll(ctx, nil, []string{"https://a.com", "https://b.com", "https://c.com"})
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestScrapeAllSharesVisitedSet(t *testing.T) {
	visited := NewVisitedSet()
	crawler := crawlerFunc(func(ctx context.Context, v *VisitedSet, siteURL string) ScrapedData {
		v.Add(siteURL)
		return ScrapedData{}
	})

	NewBatch(crawler, 4, nil).ScrapeAll(context.Background(), visited, []string{"https://a.com", "https://b.com"})
	assert.Equal(t, 2, visited.Len())
}

func TestScrapeAllLogsSitesWithoutContacts(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	crawler := crawlerFunc(func(ctx context.Context, visited *VisitedSet, siteURL string) ScrapedData {
		if siteURL == "https://acme.com" {
			return ScrapedData{Phones: []string{"+12025550143"}}
		}
		return ScrapedData{}
	})

	results := NewBatch(crawler, 1, logrus.NewEntry(logger)).ScrapeAll(context.Background(), nil,
		[]string{"https://acme.com", "https://empty.com"})

	assert.Len(t, results, 2)
	entries := hook.AllEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "No contacts found", entries[0].Message)
	assert.Equal(t, "https://empty.com", entries[0].Data["url"])
}
