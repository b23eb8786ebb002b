package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/octobees/job-leads/api/internal/dto"
	"github.com/octobees/job-leads/api/internal/entity"
	"github.com/octobees/job-leads/api/internal/repository"
	"github.com/octobees/job-leads/api/internal/scraper"
)

var (
	// ErrInvalidLeadID is returned when a lead identifier is not a UUID.
	ErrInvalidLeadID = errors.New("invalid lead id")
	// ErrEmailNotFound is returned when the address to replace is not on the lead.
	ErrEmailNotFound = errors.New("email not found on lead")
	// ErrInvalidEmail is returned when a replacement address fails validation.
	ErrInvalidEmail = errors.New("invalid email address")
)

// KeywordExtractor finds brand and person names in free text.
type KeywordExtractor interface {
	ExtractKeywords(ctx context.Context, text string) []string
}

// LeadService implements the operator's lead editing operations.
type LeadService struct {
	repo     repository.LeadsRepository
	keywords KeywordExtractor
}

// NewLeadService constructs a LeadService. keywords may be nil if keyword generation is unused.
func NewLeadService(repo repository.LeadsRepository, keywords KeywordExtractor) *LeadService {
	return &LeadService{repo: repo, keywords: keywords}
}

// ListLeads returns leads newest first.
func (s *LeadService) ListLeads(ctx context.Context, filter dto.LeadFilter) ([]entity.Lead, error) {
	filter.Q = strings.TrimSpace(filter.Q)
	filter.Tag = strings.TrimSpace(filter.Tag)
	return s.repo.List(ctx, filter)
}

// DeleteLead removes a single lead.
func (s *LeadService) DeleteLead(ctx context.Context, id string) error {
	leadID, err := parseLeadID(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, leadID)
}

// DeleteLeads removes every listed lead and reports how many existed.
func (s *LeadService) DeleteLeads(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: ids must not be empty", ErrInvalidInput)
	}
	parsed := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		leadID, err := parseLeadID(id)
		if err != nil {
			return 0, err
		}
		parsed = append(parsed, leadID)
	}
	return s.repo.DeleteMany(ctx, parsed)
}

// AddTag appends tag unless the lead already carries it.
func (s *LeadService) AddTag(ctx context.Context, id, tag string) ([]string, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, fmt.Errorf("%w: tag must not be empty", ErrInvalidInput)
	}
	lead, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, existing := range lead.Tags {
		if existing == tag {
			return lead.Tags, nil
		}
	}
	tags := append(lead.Tags, tag)
	if err := s.repo.UpdateTags(ctx, lead.ID, tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// RemoveTag drops tag from the lead. Removing an absent tag is not an error.
func (s *LeadService) RemoveTag(ctx context.Context, id, tag string) ([]string, error) {
	lead, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	tags := make([]string, 0, len(lead.Tags))
	for _, existing := range lead.Tags {
		if existing != tag {
			tags = append(tags, existing)
		}
	}
	if err := s.repo.UpdateTags(ctx, lead.ID, tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// UpdateEmail replaces oldEmail with newEmail, matching case-insensitively.
func (s *LeadService) UpdateEmail(ctx context.Context, id string, req dto.UpdateEmailRequest) ([]string, error) {
	newEmail, ok := scraper.SanitizeEmail(req.NewEmail)
	if !ok {
		return nil, ErrInvalidEmail
	}
	lead, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	old := strings.ToLower(strings.TrimSpace(req.OldEmail))
	found := false
	updated := scraper.NewEmailSet()
	for _, email := range lead.Emails {
		if strings.ToLower(email) == old {
			found = true
			updated.Add(newEmail)
			continue
		}
		updated.Add(email)
	}
	if !found {
		return nil, ErrEmailNotFound
	}

	emails := updated.Values()
	if err := s.repo.UpdateEmails(ctx, lead.ID, emails); err != nil {
		return nil, err
	}
	return emails, nil
}

// DeleteEmail removes email from the lead, matching case-insensitively.
func (s *LeadService) DeleteEmail(ctx context.Context, id, email string) ([]string, error) {
	target := strings.ToLower(strings.TrimSpace(email))
	if target == "" {
		return nil, fmt.Errorf("%w: email must not be empty", ErrInvalidInput)
	}
	lead, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	emails := make([]string, 0, len(lead.Emails))
	for _, existing := range lead.Emails {
		if strings.ToLower(existing) != target {
			emails = append(emails, existing)
		}
	}
	if len(emails) == len(lead.Emails) {
		return nil, ErrEmailNotFound
	}
	if err := s.repo.UpdateEmails(ctx, lead.ID, emails); err != nil {
		return nil, err
	}
	return emails, nil
}

// GenerateKeywords extracts keywords from the lead's posting and stores them.
func (s *LeadService) GenerateKeywords(ctx context.Context, id string) ([]string, error) {
	if s.keywords == nil {
		return nil, errors.New("keyword extraction is not configured")
	}
	lead, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	keywords := s.keywords.ExtractKeywords(ctx, lead.JobTitle+"\n\n"+lead.JobDesc)
	if err := s.repo.UpdateKeywords(ctx, lead.ID, keywords); err != nil {
		return nil, err
	}
	return keywords, nil
}

func (s *LeadService) load(ctx context.Context, id string) (*entity.Lead, error) {
	leadID, err := parseLeadID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, leadID)
}

func parseLeadID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, ErrInvalidLeadID
	}
	return parsed, nil
}
