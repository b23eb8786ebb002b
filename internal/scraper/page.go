// Package scraper fetches employer web pages and extracts contact emails, social profile
// links and phone numbers from them.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/octobees/job-leads/api/internal/metrics"
	"github.com/octobees/job-leads/api/internal/urlfilter"
)

const (
	defaultPageTimeout  = 10 * time.Second
	defaultMaxBodyBytes = 5 << 20
	defaultUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36"
)

// DefaultSocialDomains are the networks whose profile links are collected.
var DefaultSocialDomains = []string{
	"instagram.com",
	"facebook.com",
	"linkedin.com",
	"tiktok.com",
	"threads.net",
}

var (
	textEmailPattern   = regexp.MustCompile(`(?:^|\s)([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})\b`)
	scriptEmailPattern = regexp.MustCompile(`(?:^|[^a-zA-Z0-9._%+-])([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})\b`)
)

// Options configures page fetching and extraction.
type Options struct {
	PageTimeout   time.Duration
	UserAgent     string
	PhoneRegion   string
	SocialDomains []string
	MaxBodyBytes  int64
	Client        *http.Client
}

// PageScraper fetches a single page and extracts contacts from it.
type PageScraper struct {
	client  *http.Client
	opts    Options
	log     *logrus.Entry
	metrics *metrics.Metrics
}

// NewPageScraper builds a scraper, filling unset options with defaults.
func NewPageScraper(opts Options, log *logrus.Entry, m *metrics.Metrics) *PageScraper {
	if opts.PageTimeout <= 0 {
		opts.PageTimeout = defaultPageTimeout
	}
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if len(opts.SocialDomains) == 0 {
		opts.SocialDomains = DefaultSocialDomains
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &PageScraper{client: client, opts: opts, log: log, metrics: m}
}

// ScrapePage fetches pageURL and returns the contacts it mentions. Fetch and parse failures are
// logged and produce an empty result. Duplicates are not removed.
func (p *PageScraper) ScrapePage(ctx context.Context, pageURL string) ScrapedData {
	data, _, _ := p.scrape(ctx, pageURL)
	return data
}

func (p *PageScraper) scrape(ctx context.Context, pageURL string) (ScrapedData, *goquery.Document, *url.URL) {
	doc, finalURL, err := p.fetch(ctx, pageURL)
	if err != nil {
		p.log.WithError(err).WithField("url", pageURL).Warn("!! Failed to scrape page")
		return ScrapedData{}, nil, nil
	}
	return p.Extract(doc), doc, finalURL
}

func (p *PageScraper) fetch(ctx context.Context, pageURL string) (*goquery.Document, *url.URL, error) {
	ctx, cancel := context.WithTimeout(ctx, p.opts.PageTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		p.metrics.PageFetched("error")
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", p.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := p.client.Do(req)
	if err != nil {
		p.metrics.PageFetched("error")
		return nil, nil, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		p.metrics.PageFetched("error")
		return nil, nil, fmt.Errorf("fetch page: unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, p.opts.MaxBodyBytes))
	if err != nil {
		p.metrics.PageFetched("error")
		return nil, nil, fmt.Errorf("parse page: %w", err)
	}
	p.metrics.PageFetched("ok")

	finalURL := resp.Request.URL
	if finalURL == nil {
		finalURL, _ = url.Parse(pageURL)
	}
	return doc, finalURL, nil
}

// Extract pulls emails, social links and phones out of a parsed document.
func (p *PageScraper) Extract(doc *goquery.Document) ScrapedData {
	var out ScrapedData

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		lower := strings.ToLower(href)
		switch {
		case strings.HasPrefix(lower, "mailto:"):
			out.Emails = append(out.Emails, mailtoAddresses(href[len("mailto:"):])...)
		case strings.HasPrefix(lower, "tel:"):
			if phone := NormalizePhone(unescape(href[len("tel:"):]), p.opts.PhoneRegion); phone != "" {
				out.Phones = append(out.Phones, phone)
			}
		}
	})

	if len(out.Emails) == 0 {
		doc.Find("a, span, p, div").Each(func(_ int, s *goquery.Selection) {
			out.Emails = append(out.Emails, findEmails(textEmailPattern, strings.TrimSpace(s.Text()))...)
		})
	}

	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		out.Emails = append(out.Emails, findEmails(scriptEmailPattern, s.Text())...)
	})
	doc.Find("meta[content]").Each(func(_ int, s *goquery.Selection) {
		out.Emails = append(out.Emails, findEmails(scriptEmailPattern, s.AttrOr("content", ""))...)
	})

	doc.Find("a, span, p, div").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		if link, ok := p.socialLink(href); ok {
			out.SocialLinks = append(out.SocialLinks, link)
		}
	})

	return out
}

func (p *PageScraper) socialLink(href string) (string, bool) {
	normalized := urlfilter.Normalize(strings.TrimLeft(strings.TrimSpace(href), "/"))
	if normalized == "" {
		return "", false
	}
	for _, domain := range p.opts.SocialDomains {
		if strings.HasPrefix(normalized, domain) {
			return "https://" + normalized, true
		}
	}
	return "", false
}

func findEmails(pattern *regexp.Regexp, text string) []string {
	if text == "" || !strings.Contains(text, "@") {
		return nil
	}
	var found []string
	for _, match := range pattern.FindAllStringSubmatch(text, -1) {
		if isAssetName(match[1]) {
			continue
		}
		found = append(found, match[1])
	}
	return found
}

func mailtoAddresses(value string) []string {
	value = unescape(value)
	if idx := strings.Index(value, "?"); idx >= 0 {
		value = value[:idx]
	}
	var out []string
	for _, addr := range strings.Split(value, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

func unescape(value string) string {
	if decoded, err := url.PathUnescape(value); err == nil {
		return decoded
	}
	return value
}
