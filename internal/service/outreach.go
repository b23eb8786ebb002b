package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/octobees/job-leads/api/internal/dto"
	"github.com/octobees/job-leads/api/internal/entity"
	"github.com/octobees/job-leads/api/internal/llm"
	"github.com/octobees/job-leads/api/internal/mailer"
	"github.com/octobees/job-leads/api/internal/metrics"
	"github.com/octobees/job-leads/api/internal/repository"
	"github.com/octobees/job-leads/api/internal/scraper"
)

var (
	// ErrNoLinks indicates the model returned nothing usable for a posting.
	ErrNoLinks = errors.New("no links extracted")
	// ErrBlankTemplate indicates the generated email had an empty subject or body.
	ErrBlankTemplate = errors.New("blank email template generated")
	// ErrInvalidInput marks a request that is missing required fields.
	ErrInvalidInput = errors.New("invalid input")
)

const (
	markerSubject = "SUBJECT:"
	markerBody    = "BODY:"
	markerMessage = "MESSAGE:"

	maxKeywordWords = 4
	maxKeywordChars = 20
)

var unwantedKeywords = map[string]struct{}{
	"none": {}, "none.": {}, "no words found": {}, "no such words": {}, "semrush": {}, "stripe": {},
	"paypal": {}, "google": {}, "openai": {}, "vercel": {}, "digitalocean": {}, "aws": {}, "docker": {},
	"kubernetes": {}, "github": {}, "reddit": {}, "youtube": {}, "shopify": {}, "wordpress": {},
	"woocommerce": {}, "framer": {}, "adobe": {}, "linkedin": {}, "twitter": {}, "seo": {}, "php": {},
	"zoho": {}, "instagram": {}, "upwork": {}, "facebook": {}, "amazon": {}, "kindle": {}, "indesign": {},
	"nodejs": {}, "midjourney": {}, "slack": {}, "gumroad": {}, "monday.com": {}, "chatgpt": {},
	"chat gpt": {}, "capcut": {}, "bitcoin": {}, "ethereum": {},
}

// OutreachConfig selects models and personalises generated messages.
type OutreachConfig struct {
	LinkModel          string
	EmailModel         string
	KeywordModel       string
	SenderName         string
	FromAddress        string
	PortfolioDeveloper string
	PortfolioDesign    string
}

// ExtractedLinks is the model's view of where an employer lives online.
type ExtractedLinks struct {
	Websites    []string `json:"websites"`
	SocialLinks []string `json:"social_links"`
}

// EmailTemplate is a generated subject and HTML body.
type EmailTemplate struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Blank reports whether either part is empty.
func (t EmailTemplate) Blank() bool {
	return strings.TrimSpace(t.Subject) == "" || strings.TrimSpace(t.Body) == ""
}

// OutreachService turns job descriptions into links, emails and DMs.
type OutreachService struct {
	llm       llm.Completer
	mail      mailer.Sender
	emailLogs repository.EmailLogsRepository
	cfg       OutreachConfig
	log       *logrus.Entry
	metrics   *metrics.Metrics
}

// NewOutreachService wires the completion and mail capabilities. emailLogs may be nil.
func NewOutreachService(completer llm.Completer, sender mailer.Sender, emailLogs repository.EmailLogsRepository, cfg OutreachConfig, log *logrus.Entry, m *metrics.Metrics) *OutreachService {
	if completer == nil {
		completer = llm.Unavailable{}
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &OutreachService{llm: completer, mail: sender, emailLogs: emailLogs, cfg: cfg, log: log, metrics: m}
}

// ExtractLinks asks the model for the employer's own websites and social profiles.
// It returns ErrNoLinks when the reply has no parsable object or both lists are empty.
func (s *OutreachService) ExtractLinks(ctx context.Context, title, description string) (ExtractedLinks, error) {
	reply, err := s.llm.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: linkSystemPrompt},
			{Role: llm.RoleUser, Content: fmt.Sprintf(linkPrompt, title+"\n\n"+description)},
		},
		Model:       s.cfg.LinkModel,
		MaxTokens:   500,
		Temperature: 0.4,
	})
	if err != nil {
		return ExtractedLinks{}, fmt.Errorf("extract links: %w", err)
	}

	raw, ok := llm.ExtractJSONObject(reply)
	if !ok {
		return ExtractedLinks{}, ErrNoLinks
	}
	var links ExtractedLinks
	if err := json.Unmarshal([]byte(raw), &links); err != nil {
		return ExtractedLinks{}, ErrNoLinks
	}
	links.Websites = nonBlank(links.Websites)
	links.SocialLinks = nonBlank(links.SocialLinks)
	if len(links.Websites) == 0 && len(links.SocialLinks) == 0 {
		return ExtractedLinks{}, ErrNoLinks
	}
	return links, nil
}

// GenerateEmailTemplate writes an application email for the job. Failures yield a blank template.
func (s *OutreachService) GenerateEmailTemplate(ctx context.Context, jobDescription string) EmailTemplate {
	intro := "Analyze this job description and curate the following email template for the job."
	return s.generateTemplate(ctx, templateSystemPrompt, intro, applicationBody, jobDescription)
}

// GenerateFollowUp writes a follow-up for an application sent earlier. Failures yield a blank template.
func (s *OutreachService) GenerateFollowUp(ctx context.Context, jobDescription string) EmailTemplate {
	intro := "I previously sent an email to them. Analyze this job description and curate a follow-up email for the case where the client hasn't hired anyone yet."
	return s.generateTemplate(ctx, followUpSystemPrompt, intro, followUpBody, jobDescription)
}

func (s *OutreachService) generateTemplate(ctx context.Context, system, intro, body, jobDescription string) EmailTemplate {
	sample := fmt.Sprintf(emailSample, body, signature(s.cfg.SenderName))
	prompt := fmt.Sprintf(templatePrompt, intro, portfolioRule(s.cfg.PortfolioDeveloper, s.cfg.PortfolioDesign), sample, jobDescription)

	reply, err := s.llm.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: prompt},
		},
		Model:       s.cfg.EmailModel,
		MaxTokens:   800,
		Temperature: 0.7,
	})
	if err != nil {
		s.log.WithError(err).Warn("Error generating email template")
		return EmailTemplate{}
	}

	sections := llm.SplitSections(reply, markerSubject, markerBody)
	return EmailTemplate{Subject: sections[markerSubject], Body: sections[markerBody]}
}

// GenerateDM writes a short Instagram DM for the job. Failures yield "".
func (s *OutreachService) GenerateDM(ctx context.Context, jobDescription string) string {
	reply, err := s.llm.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: dmSystemPrompt},
			{Role: llm.RoleUser, Content: fmt.Sprintf(dmPrompt, portfolioRule(s.cfg.PortfolioDeveloper, s.cfg.PortfolioDesign), jobDescription)},
		},
		Model:       s.cfg.EmailModel,
		MaxTokens:   300,
		Temperature: 0.7,
	})
	if err != nil {
		s.log.WithError(err).Warn("Error generating Instagram DM")
		return ""
	}
	return llm.SplitSections(reply, markerMessage)[markerMessage]
}

// ExtractKeywords returns small brand and person names mentioned in text.
func (s *OutreachService) ExtractKeywords(ctx context.Context, text string) []string {
	reply, err := s.llm.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: keywordSystemPrompt},
			{Role: llm.RoleUser, Content: fmt.Sprintf(keywordPrompt, text)},
		},
		Model:     s.cfg.KeywordModel,
		MaxTokens: 100,
	})
	if err != nil {
		s.log.WithError(err).Warn("Keyword extraction failed")
		return []string{}
	}

	keywords := []string{}
	for _, line := range strings.Split(reply, "\n") {
		keyword := strings.TrimSpace(line)
		if keyword == "" {
			continue
		}
		if _, unwanted := unwantedKeywords[strings.ToLower(keyword)]; unwanted {
			continue
		}
		if len(strings.Fields(keyword)) > maxKeywordWords || len(keyword) > maxKeywordChars {
			continue
		}
		keywords = append(keywords, keyword)
	}
	return keywords
}

// SendEmail delivers tpl to one address.
func (s *OutreachService) SendEmail(ctx context.Context, to string, tpl EmailTemplate) error {
	if s.mail == nil {
		return mailer.ErrNotConfigured
	}
	err := s.mail.Send(ctx, mailer.Message{
		From:     s.cfg.FromAddress,
		FromName: s.cfg.SenderName,
		To:       to,
		Subject:  tpl.Subject,
		HTMLBody: tpl.Body,
	})
	if err != nil {
		s.metrics.EmailSent("failed")
		return err
	}
	s.metrics.EmailSent("sent")
	return nil
}

// SendApplication generates one application email and sends it to each address in order.
// Successful sends are recorded in the email log when jobLink is set.
func (s *OutreachService) SendApplication(ctx context.Context, jobDescription string, emails []string, jobLink string) ([]dto.EmailResult, error) {
	if strings.TrimSpace(jobDescription) == "" || len(nonBlank(emails)) == 0 {
		return nil, fmt.Errorf("%w: job description and emails are required", ErrInvalidInput)
	}

	tpl := s.GenerateEmailTemplate(ctx, jobDescription)
	if tpl.Blank() {
		return nil, ErrBlankTemplate
	}

	results := make([]dto.EmailResult, 0, len(emails))
	for _, raw := range nonBlank(emails) {
		email, ok := scraper.SanitizeEmail(raw)
		if !ok {
			results = append(results, dto.EmailResult{Email: strings.TrimSpace(raw), Sent: false})
			continue
		}
		if err := s.SendEmail(ctx, email, tpl); err != nil {
			s.log.WithError(err).WithField("email", email).Warn("!! Error sending manual email")
			results = append(results, dto.EmailResult{Email: email, Sent: false})
			continue
		}
		if jobLink = strings.TrimSpace(jobLink); jobLink != "" && s.emailLogs != nil {
			if err := s.emailLogs.Insert(ctx, entity.EmailLog{JobLink: jobLink, Email: email}); err != nil {
				s.log.WithError(err).WithField("email", email).Warn("!! Failed to record email log")
			}
		}
		results = append(results, dto.EmailResult{Email: email, Sent: true})
	}
	return results, nil
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
