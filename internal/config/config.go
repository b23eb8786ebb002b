package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// LLMConfig configures the OpenAI-compatible completion endpoint and the models used per task.
type LLMConfig struct {
	BaseURL      string
	APIKey       string
	LinkModel    string
	EmailModel   string
	KeywordModel string
	Timeout      time.Duration
}

// SMTPConfig holds the outbound mail account.
type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	SenderName string
}

// ScraperConfig tunes page fetching and crawling.
type ScraperConfig struct {
	PageTimeout      time.Duration
	Concurrency      int
	MaxRelevantPages int
	UserAgent        string
	PhoneRegion      string
	FilterListsFile  string
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL          string
	AutoMigrate          bool
	JWTSecret            string
	Port                 string
	SessionTTL           time.Duration
	OperatorEmail        string
	OperatorPasswordHash string
	RSSFeedURL           string
	FeedTimeout          time.Duration
	RunCooldown          time.Duration
	MaxAutoEmails        int
	PollSchedule         string
	PollStoreMailsOnly   bool
	RateLimitMessages    RateLimitConfig
	LogLevel             string
	LogFormat            string
	PortfolioDeveloper   string
	PortfolioDesign      string
	LLM                  LLMConfig
	SMTP                 SMTPConfig
	Scraper              ScraperConfig
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		AutoMigrate:          parseBool(getEnv("AUTO_MIGRATE", "true"), true),
		JWTSecret:            getEnv("JWT_SECRET", "dev-secret"),
		Port:                 getEnv("PORT", "8080"),
		SessionTTL:           parseDuration(getEnv("SESSION_TTL", "15m"), 15*time.Minute),
		OperatorEmail:        strings.ToLower(strings.TrimSpace(os.Getenv("OPERATOR_EMAIL"))),
		OperatorPasswordHash: os.Getenv("OPERATOR_PASSWORD_HASH"),
		RSSFeedURL:           os.Getenv("RSS_FEED_URL"),
		FeedTimeout:          parseDuration(getEnv("FEED_TIMEOUT", "30s"), 30*time.Second),
		RunCooldown:          parseDuration(getEnv("RUN_COOLDOWN", "5s"), 5*time.Second),
		MaxAutoEmails:        parseInt(getEnv("MAX_AUTO_EMAILS", "3"), 3),
		PollSchedule:         strings.TrimSpace(os.Getenv("POLL_SCHEDULE")),
		PollStoreMailsOnly:   parseBool(getEnv("POLL_STORE_MAILS_ONLY", "false"), false),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "text"),
		PortfolioDeveloper:   os.Getenv("PORTFOLIO_DEVELOPER_URL"),
		PortfolioDesign:      os.Getenv("PORTFOLIO_DESIGN_URL"),
		LLM: LLMConfig{
			BaseURL:      getEnv("LLM_BASE_URL", "https://api.groq.com/openai/v1"),
			APIKey:       os.Getenv("LLM_API_KEY"),
			LinkModel:    getEnv("LLM_LINK_MODEL", "gemma2-9b-it"),
			EmailModel:   getEnv("LLM_EMAIL_MODEL", "llama-3.3-70b-versatile"),
			KeywordModel: getEnv("LLM_KEYWORD_MODEL", "llama-3.1-8b-instant"),
			Timeout:      parseDuration(getEnv("LLM_TIMEOUT", "60s"), time.Minute),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:       parseInt(getEnv("SMTP_PORT", "587"), 587),
			Username:   os.Getenv("EMAIL_USER"),
			Password:   os.Getenv("EMAIL_PASSWORD"),
			SenderName: os.Getenv("SENDER_NAME"),
		},
		Scraper: ScraperConfig{
			PageTimeout:      parseDuration(getEnv("SCRAPE_PAGE_TIMEOUT", "10s"), 10*time.Second),
			Concurrency:      parseInt(getEnv("SCRAPE_CONCURRENCY", "8"), 8),
			MaxRelevantPages: parseInt(getEnv("SCRAPE_MAX_RELEVANT_PAGES", "5"), 5),
			UserAgent:        os.Getenv("SCRAPE_USER_AGENT"),
			PhoneRegion:      getEnv("PHONE_REGION", "US"),
			FilterListsFile:  os.Getenv("FILTER_LISTS_FILE"),
		},
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_MESSAGES", "20/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_MESSAGES value: %w", err)
	}
	cfg.RateLimitMessages = rl

	if cfg.MaxAutoEmails < 0 {
		return nil, fmt.Errorf("MAX_AUTO_EMAILS must not be negative")
	}

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(input string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return fallback
	}
	return v
}

func parseBool(input string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(input))
	if err != nil {
		return fallback
	}
	return v
}
