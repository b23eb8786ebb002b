package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/octobees/job-leads/api/internal/dto"
	"github.com/octobees/job-leads/api/internal/entity"
	"github.com/octobees/job-leads/api/internal/metrics"
	"github.com/octobees/job-leads/api/internal/repository"
	"github.com/octobees/job-leads/api/internal/scraper"
	"github.com/octobees/job-leads/api/internal/urlfilter"
)

// ErrRunInProgress is returned when a run is requested while another is still going.
var ErrRunInProgress = errors.New("pipeline run already in progress")

const defaultMaxAutoEmails = 3

// RunOptions tunes a single pass over the feed.
type RunOptions struct {
	StoreMailsOnly bool
}

// RunResult is the human-readable log of a run plus every outreach attempt it made.
type RunResult struct {
	LogLines     []string
	EmailResults []dto.EmailResult
}

// FeedSource yields the current job postings. *feed.Fetcher is the production implementation.
type FeedSource interface {
	Items(ctx context.Context) ([]entity.FeedItem, error)
}

// BatchScraper crawls a set of sites sharing one visited set. *scraper.Batch implements it.
type BatchScraper interface {
	ScrapeAll(ctx context.Context, visited *scraper.VisitedSet, urls []string) []scraper.ScrapedData
}

// PipelineConfig carries the run limits.
type PipelineConfig struct {
	MaxAutoEmails int
}

// LeadPipeline turns feed items into stored leads and sends first-contact email.
type LeadPipeline struct {
	feed      FeedSource
	outreach  *OutreachService
	scraper   BatchScraper
	validator *urlfilter.Validator
	leads     repository.LeadsRepository
	emailLogs repository.EmailLogsRepository
	cfg       PipelineConfig
	log       *logrus.Entry
	metrics   *metrics.Metrics
	now       func() time.Time

	running sync.Mutex
}

// NewLeadPipeline wires the pipeline collaborators.
func NewLeadPipeline(
	source FeedSource,
	outreach *OutreachService,
	batch BatchScraper,
	validator *urlfilter.Validator,
	leads repository.LeadsRepository,
	emailLogs repository.EmailLogsRepository,
	cfg PipelineConfig,
	log *logrus.Entry,
	m *metrics.Metrics,
) *LeadPipeline {
	if cfg.MaxAutoEmails <= 0 {
		cfg.MaxAutoEmails = defaultMaxAutoEmails
	}
	if validator == nil {
		validator = urlfilter.NewValidator(urlfilter.DefaultBlocklist)
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &LeadPipeline{
		feed:      source,
		outreach:  outreach,
		scraper:   batch,
		validator: validator,
		leads:     leads,
		emailLogs: emailLogs,
		cfg:       cfg,
		log:       log,
		metrics:   m,
		now:       time.Now,
	}
}

// runLog accumulates operator-facing lines and mirrors them to the structured logger.
type runLog struct {
	lines []string
	log   *logrus.Entry
}

func (r *runLog) add(level logrus.Level, format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	r.lines = append(r.lines, line)
	r.log.Log(level, line)
}

func (r *runLog) info(format string, args ...any) { r.add(logrus.InfoLevel, format, args...) }
func (r *runLog) warn(format string, args ...any) { r.add(logrus.WarnLevel, format, args...) }

// Run processes the feed once. Only a feed failure or a failure to load existing links aborts
// the run; everything else is logged and the loop moves on to the next item.
func (p *LeadPipeline) Run(ctx context.Context, opts RunOptions) (RunResult, error) {
	if !p.running.TryLock() {
		return RunResult{}, ErrRunInProgress
	}
	defer p.running.Unlock()

	started := p.now()
	rl := &runLog{log: p.log}
	result := RunResult{EmailResults: []dto.EmailResult{}}

	finish := func(outcome string) {
		rl.info("--- END --- %s", p.now().Format("03:04 PM"))
		p.metrics.RunFinished(outcome, p.now().Sub(started))
		result.LogLines = rl.lines
	}

	rl.info("--- START --- %s", started.Format("03:04 PM"))

	items, err := p.feed.Items(ctx)
	if err != nil {
		p.metrics.RunFinished("failed", p.now().Sub(started))
		return RunResult{}, fmt.Errorf("fetch feed: %w", err)
	}

	existing, err := p.leads.ListJobLinks(ctx)
	if err != nil {
		p.metrics.RunFinished("failed", p.now().Sub(started))
		return RunResult{}, fmt.Errorf("load existing job links: %w", err)
	}
	known := make(map[string]struct{}, len(existing))
	for _, link := range existing {
		known[link] = struct{}{}
	}

	stored := 0
	for _, item := range items {
		if ctx.Err() != nil {
			rl.warn("!! Run cancelled: %v", ctx.Err())
			finish("cancelled")
			return result, nil
		}

		link := strings.TrimSpace(item.Link)
		if link == "" {
			rl.warn("!! Missing link: %s", item.Title)
			p.metrics.LeadProcessed("skipped")
			continue
		}
		if _, ok := known[link]; ok {
			rl.info("Lead already exists: %s", link)
			p.metrics.LeadProcessed("existing")
			continue
		}

		lead, sent, ok := p.processItem(ctx, rl, item, opts)
		result.EmailResults = append(result.EmailResults, sent...)
		if !ok {
			p.metrics.LeadProcessed("dropped")
			continue
		}

		if err := p.leads.Insert(ctx, lead); err != nil {
			if errors.Is(err, repository.ErrLeadExists) {
				known[link] = struct{}{}
			}
			rl.warn("Error storing lead: %v", err)
			p.metrics.LeadProcessed("failed")
			continue
		}
		known[link] = struct{}{}
		stored++
		rl.info("%d) ✔️ Lead stored: %s", stored, item.Title)
		p.metrics.LeadProcessed("stored")
	}

	finish("success")
	return result, nil
}

// processItem runs link extraction, scraping and outreach for one new item. ok is false when
// the item must not be stored.
func (p *LeadPipeline) processItem(ctx context.Context, rl *runLog, item entity.FeedItem, opts RunOptions) (*entity.Lead, []dto.EmailResult, bool) {
	links, err := p.outreach.ExtractLinks(ctx, item.Title, item.Description)
	switch {
	case errors.Is(err, ErrNoLinks):
		rl.warn("!! No links: %s", item.Title)
		return nil, nil, false
	case err != nil:
		rl.warn("!! Error extracting links: %s > %v", item.Title, err)
		return nil, nil, false
	}

	websites := p.filterURLs(rl, links.Websites)
	socials := p.filterURLs(rl, links.SocialLinks)
	if len(websites) == 0 && len(socials) == 0 {
		rl.warn("!! No valid links: %s", item.Title)
		return nil, nil, false
	}

	visited := scraper.NewVisitedSet()
	emails := scraper.NewEmailSet()
	socialSet := scraper.NewLinkSet(socials...)
	phones := scraper.NewLinkSet()

	for _, data := range p.scraper.ScrapeAll(ctx, visited, websites) {
		p.mergeEmails(emails, data.Emails)
		socialSet.AddAll(data.SocialLinks)
		phones.AddAll(data.Phones)
	}

	if socialSet.Len() > 0 {
		for _, data := range p.scraper.ScrapeAll(ctx, visited, socialSet.Values()) {
			p.mergeEmails(emails, data.Emails)
			phones.AddAll(data.Phones)
		}
	}

	var sent []dto.EmailResult
	if n := emails.Len(); n >= 1 && n <= p.cfg.MaxAutoEmails {
		sent = p.autoSend(ctx, rl, item, emails.Values())
	}

	switch {
	case emails.Len() == 0 && opts.StoreMailsOnly:
		rl.warn("!! No emails: %s", item.Title)
		return nil, sent, false
	case emails.Len() == 0 && socialSet.Len() == 0:
		rl.warn("!! No contacts: %s", item.Title)
		return nil, sent, false
	}

	return &entity.Lead{
		JobTitle:     item.Title,
		JobDesc:      item.Description,
		JobLink:      strings.TrimSpace(item.Link),
		Emails:       emails.Values(),
		PhoneNumbers: phones.Values(),
		Websites:     websites,
		SocialLinks:  socialSet.Values(),
		Keywords:     []string{},
		Tags:         []string{},
	}, sent, true
}

// filterURLs dedupes, repairs and validates model-provided URLs.
func (p *LeadPipeline) filterURLs(rl *runLog, raw []string) []string {
	out := scraper.NewLinkSet()
	for _, candidate := range raw {
		formatted := urlfilter.FormatURL(candidate)
		if formatted == "" {
			continue
		}
		if p.validator.Blocked(formatted) {
			rl.info("Blocked URL: %s", formatted)
			continue
		}
		out.Add(formatted)
	}
	return out.Values()
}

func (p *LeadPipeline) mergeEmails(set *scraper.EmailSet, raw []string) {
	for _, candidate := range raw {
		if email, ok := scraper.SanitizeEmail(candidate); ok {
			set.Add(email)
		}
	}
}

// autoSend mails every address that has not been contacted before. A failed send is not
// logged to the email log so a later run can retry it.
func (p *LeadPipeline) autoSend(ctx context.Context, rl *runLog, item entity.FeedItem, emails []string) []dto.EmailResult {
	tpl := p.outreach.GenerateEmailTemplate(ctx, item.Description)
	if tpl.Blank() {
		rl.warn("!! Blank mail generated: %s", item.Title)
		return nil
	}

	contactedList, err := p.emailLogs.ListEmails(ctx)
	if err != nil {
		rl.warn("Error sending emails: %v", err)
		return nil
	}
	contacted := scraper.NewEmailSet(contactedList...)

	results := make([]dto.EmailResult, 0, len(emails))
	for _, email := range emails {
		if contacted.Contains(email) {
			rl.info("!! Email already sent to %s.", email)
			results = append(results, dto.EmailResult{Email: email, Sent: false})
			continue
		}
		if err := p.outreach.SendEmail(ctx, email, tpl); err != nil {
			rl.warn("-- ✗ email failed: %s > %v", email, err)
			results = append(results, dto.EmailResult{Email: email, Sent: false})
			continue
		}
		rl.info("-- ✓ email sent: %s", email)
		results = append(results, dto.EmailResult{Email: email, Sent: true})
		contacted.Add(email)
		if err := p.emailLogs.Insert(ctx, entity.EmailLog{JobLink: strings.TrimSpace(item.Link), Email: email}); err != nil {
			rl.warn("!! Failed to record email log for %s: %v", email, err)
		}
	}
	return results
}
