package scraper

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

const defaultMaxRelevantPages = 5

var relevantKeywords = []string{"contact", "about", "team", "support"}

// Crawler scrapes a site's landing page and, when it has no email, a few likely contact pages.
type Crawler struct {
	pages       *PageScraper
	maxRelevant int
	log         *logrus.Entry
}

// NewCrawler wraps a page scraper. maxRelevant caps the secondary pages visited per site.
func NewCrawler(pages *PageScraper, maxRelevant int, log *logrus.Entry) *Crawler {
	if maxRelevant <= 0 {
		maxRelevant = defaultMaxRelevantPages
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Crawler{pages: pages, maxRelevant: maxRelevant, log: log}
}

// ScrapeWebsite collects deduplicated contacts for the site at siteURL. It stops visiting
// secondary pages as soon as one of them yields an email.
func (c *Crawler) ScrapeWebsite(ctx context.Context, visited *VisitedSet, siteURL string) ScrapedData {
	if visited == nil {
		visited = NewVisitedSet()
	}
	target := withScheme(siteURL)
	if target == "" {
		return ScrapedData{}
	}
	visited.Add(target)

	emails, socials, phones := NewEmailSet(), NewLinkSet(), NewLinkSet()
	merge := func(d ScrapedData) {
		emails.AddAll(d.Emails)
		socials.AddAll(d.SocialLinks)
		phones.AddAll(d.Phones)
	}

	seed, doc, base := c.pages.scrape(ctx, target)
	merge(seed)

	if emails.Len() == 0 && doc != nil {
		for _, page := range relevantPages(doc, base, c.maxRelevant) {
			if ctx.Err() != nil {
				break
			}
			if !visited.Add(page) {
				continue
			}
			c.log.WithField("url", page).Debug("Scraping relevant page")
			merge(c.pages.ScrapePage(ctx, page))
			if emails.Len() > 0 {
				break
			}
		}
	}

	return ScrapedData{
		Emails:      emails.Values(),
		SocialLinks: socials.Values(),
		Phones:      phones.Values(),
	}
}

// FindRelevantPages fetches siteURL and returns up to the configured number of
// same-site links that look like contact, about, team or support pages.
func (c *Crawler) FindRelevantPages(ctx context.Context, siteURL string) []string {
	target := withScheme(siteURL)
	doc, base, err := c.pages.fetch(ctx, target)
	if err != nil {
		c.log.WithError(err).WithField("url", target).Warn("!! Failed to find relevant pages")
		return nil
	}
	return relevantPages(doc, base, c.maxRelevant)
}

func relevantPages(doc *goquery.Document, base *url.URL, limit int) []string {
	if base == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var pages []string

	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" {
			return true
		}
		resolved, err := base.Parse(href)
		if err != nil {
			return true
		}
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return true
		}
		if !sameSite(base, resolved) {
			return true
		}
		if !hasRelevantKeyword(resolved.Path) {
			return true
		}
		resolved.Fragment = ""
		resolved.RawFragment = ""
		page := resolved.String()
		if _, dup := seen[page]; dup {
			return true
		}
		seen[page] = struct{}{}
		pages = append(pages, page)
		return len(pages) < limit
	})
	return pages
}

// sameSite reports whether a and b share a host and port, ignoring a leading www. and the
// scheme's default port.
func sameSite(a, b *url.URL) bool {
	return siteKey(a) == siteKey(b)
}

func siteKey(u *url.URL) string {
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch port := u.Port(); port {
	case "", "80", "443":
		return host
	default:
		return host + ":" + port
	}
}

func hasRelevantKeyword(path string) bool {
	path = strings.ToLower(path)
	for _, keyword := range relevantKeywords {
		if strings.Contains(path, keyword) {
			return true
		}
	}
	return false
}

func withScheme(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "https://" + strings.TrimLeft(raw, "/")
}
