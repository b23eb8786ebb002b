package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/job-leads/api/internal/dto"
	"github.com/octobees/job-leads/api/internal/entity"
	"github.com/octobees/job-leads/api/internal/llm"
	"github.com/octobees/job-leads/api/internal/mailer"
	"github.com/octobees/job-leads/api/internal/repository"
	"github.com/octobees/job-leads/api/internal/scraper"
)

const (
	testLinkModel    = "link-model"
	testEmailModel   = "email-model"
	testKeywordModel = "keyword-model"
)

var testOutreachConfig = OutreachConfig{
	LinkModel:    testLinkModel,
	EmailModel:   testEmailModel,
	KeywordModel: testKeywordModel,
	SenderName:   "Jane Doe",
	FromAddress:  "jane@example.com",
}

// fakeCompleter answers by model and counts calls per model.
type fakeCompleter struct {
	mu      sync.Mutex
	replies map[string]string
	errs    map[string]error
	calls   map[string]int
	last    map[string]llm.Request
}

func newFakeCompleter(replies map[string]string) *fakeCompleter {
	return &fakeCompleter{
		replies: replies,
		errs:    map[string]error{},
		calls:   map[string]int{},
		last:    map[string]llm.Request{},
	}
}

func (f *fakeCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[req.Model]++
	f.last[req.Model] = req
	if err := f.errs[req.Model]; err != nil {
		return "", err
	}
	return f.replies[req.Model], nil
}

func (f *fakeCompleter) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeCompleter) count(model string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[model]
}

// fakeSender records messages and fails for addresses listed in fail.
type fakeSender struct {
	mu   sync.Mutex
	sent []mailer.Message
	fail map[string]bool
}

func (f *fakeSender) Send(_ context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[msg.To] {
		return errors.New("smtp: mailbox unavailable")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) recipients() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, m := range f.sent {
		out = append(out, m.To)
	}
	return out
}

type fakeFeed struct {
	items []entity.FeedItem
	err   error
}

func (f fakeFeed) Items(context.Context) ([]entity.FeedItem, error) {
	return f.items, f.err
}

// fakeBatch returns canned data per URL and records every visited set it was given.
type fakeBatch struct {
	mu       sync.Mutex
	data     map[string]scraper.ScrapedData
	requests [][]string
	visited  []*scraper.VisitedSet
}

func (f *fakeBatch) ScrapeAll(_ context.Context, visited *scraper.VisitedSet, urls []string) []scraper.ScrapedData {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, append([]string{}, urls...))
	f.visited = append(f.visited, visited)
	out := make([]scraper.ScrapedData, 0, len(urls))
	for _, u := range urls {
		visited.Add(u)
		out = append(out, f.data[u])
	}
	return out
}

func (f *fakeBatch) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// memLeads is an in-memory LeadsRepository.
type memLeads struct {
	mu        sync.Mutex
	leads     []*entity.Lead
	insertErr error
	listErr   error
}

var _ repository.LeadsRepository = (*memLeads)(nil)

func (m *memLeads) ListJobLinks(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	links := make([]string, 0, len(m.leads))
	for _, l := range m.leads {
		links = append(links, l.JobLink)
	}
	return links, nil
}

func (m *memLeads) Insert(_ context.Context, lead *entity.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	for _, l := range m.leads {
		if l.JobLink == lead.JobLink {
			return repository.ErrLeadExists
		}
	}
	lead.ID = uuid.New()
	lead.CreatedAt = time.Now()
	copied := *lead
	m.leads = append(m.leads, &copied)
	return nil
}

func (m *memLeads) List(_ context.Context, filter dto.LeadFilter) ([]entity.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entity.Lead{}
	for i := len(m.leads) - 1; i >= 0; i-- {
		l := m.leads[i]
		if filter.Q != "" && !strings.Contains(strings.ToLower(l.JobTitle), strings.ToLower(filter.Q)) {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (m *memLeads) find(id uuid.UUID) (*entity.Lead, error) {
	for _, l := range m.leads {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, repository.ErrLeadNotFound
}

func (m *memLeads) GetByID(_ context.Context, id uuid.UUID) (*entity.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, err := m.find(id)
	if err != nil {
		return nil, err
	}
	copied := *l
	copied.Tags = append([]string{}, l.Tags...)
	copied.Emails = append([]string{}, l.Emails...)
	return &copied, nil
}

func (m *memLeads) update(id uuid.UUID, apply func(*entity.Lead)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, err := m.find(id)
	if err != nil {
		return err
	}
	apply(l)
	return nil
}

func (m *memLeads) UpdateTags(_ context.Context, id uuid.UUID, tags []string) error {
	return m.update(id, func(l *entity.Lead) { l.Tags = tags })
}

func (m *memLeads) UpdateEmails(_ context.Context, id uuid.UUID, emails []string) error {
	return m.update(id, func(l *entity.Lead) { l.Emails = emails })
}

func (m *memLeads) UpdateKeywords(_ context.Context, id uuid.UUID, keywords []string) error {
	return m.update(id, func(l *entity.Lead) { l.Keywords = keywords })
}

func (m *memLeads) Delete(_ context.Context, id uuid.UUID) error {
	_, err := m.DeleteMany(context.Background(), []uuid.UUID{id})
	if err != nil {
		return err
	}
	return nil
}

func (m *memLeads) DeleteMany(_ context.Context, ids []uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	drop := map[uuid.UUID]bool{}
	for _, id := range ids {
		drop[id] = true
	}
	kept := m.leads[:0]
	var removed int64
	for _, l := range m.leads {
		if drop[l.ID] {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	m.leads = kept
	if removed == 0 && len(ids) == 1 {
		return 0, repository.ErrLeadNotFound
	}
	return removed, nil
}

func (m *memLeads) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.leads)
}

func (m *memLeads) seed(lead entity.Lead) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	lead.ID = uuid.New()
	m.leads = append(m.leads, &lead)
	return lead.ID
}

// memEmailLogs is an in-memory EmailLogsRepository.
type memEmailLogs struct {
	mu      sync.Mutex
	logs    []entity.EmailLog
	listErr error
}

func (m *memEmailLogs) ListEmails(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]string, 0, len(m.logs))
	for _, l := range m.logs {
		out = append(out, strings.ToLower(l.Email))
	}
	return out, nil
}

func (m *memEmailLogs) Insert(_ context.Context, log entity.EmailLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}
