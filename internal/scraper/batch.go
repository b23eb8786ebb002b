package scraper

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 8

// SiteCrawler scrapes one site. *Crawler is the production implementation.
type SiteCrawler interface {
	ScrapeWebsite(ctx context.Context, visited *VisitedSet, siteURL string) ScrapedData
}

// Batch crawls many sites concurrently with a fixed cap.
type Batch struct {
	crawler     SiteCrawler
	concurrency int
	log         *logrus.Entry
}

// NewBatch builds an orchestrator around crawler.
func NewBatch(crawler SiteCrawler, concurrency int, log *logrus.Entry) *Batch {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Batch{crawler: crawler, concurrency: concurrency, log: log}
}

// ScrapeAll crawls every URL and returns the results in input order. A crawl that panics is
// logged and its result omitted. No new crawl starts once ctx is done.
func (b *Batch) ScrapeAll(ctx context.Context, visited *VisitedSet, urls []string) []ScrapedData {
	if len(urls) == 0 {
		return nil
	}
	if visited == nil {
		visited = NewVisitedSet()
	}

	results := make([]ScrapedData, len(urls))
	completed := make([]bool, len(urls))

	var g errgroup.Group
	g.SetLimit(b.concurrency)

	for i, siteURL := range urls {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					b.log.WithField("url", siteURL).Errorf("!! Failed to scrape website: panic: %v", r)
				}
			}()
			if ctx.Err() != nil {
				return nil
			}
			data := b.crawler.ScrapeWebsite(ctx, visited, siteURL)
			if data.Empty() {
				b.log.WithField("url", siteURL).Debug("No contacts found")
			}
			results[i] = data
			completed[i] = true
			return nil
		})
	}
	_ = g.Wait()

	out := make([]ScrapedData, 0, len(urls))
	for i, ok := range completed {
		if ok {
			out = append(out, results[i])
		}
	}
	return out
}
