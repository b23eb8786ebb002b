package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/octobees/job-leads/api/internal/auth"
	"github.com/octobees/job-leads/api/internal/config"
	"github.com/octobees/job-leads/api/internal/database"
	"github.com/octobees/job-leads/api/internal/feed"
	"github.com/octobees/job-leads/api/internal/handler"
	"github.com/octobees/job-leads/api/internal/llm"
	"github.com/octobees/job-leads/api/internal/logging"
	"github.com/octobees/job-leads/api/internal/mailer"
	"github.com/octobees/job-leads/api/internal/metrics"
	middlewarepkg "github.com/octobees/job-leads/api/internal/middleware"
	"github.com/octobees/job-leads/api/internal/repository"
	"github.com/octobees/job-leads/api/internal/router"
	"github.com/octobees/job-leads/api/internal/scheduler"
	"github.com/octobees/job-leads/api/internal/scraper"
	"github.com/octobees/job-leads/api/internal/service"
	"github.com/octobees/job-leads/api/internal/urlfilter"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	component := func(name string) *logrus.Entry { return logger.WithField("component", name) }

	lists, err := config.LoadFilterLists(cfg.Scraper.FilterListsFile)
	if err != nil {
		logger.Fatalf("failed to load filter lists: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("failed to connect database: %v", err)
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		version, err := database.Migrate(pool)
		if err != nil {
			logger.Fatalf("failed to migrate database: %v", err)
		}
		logger.WithField("version", version).Info("database schema up to date")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	var completer llm.Completer = llm.Unavailable{}
	if lc, err := llm.NewLangChainCompleter(llm.Config{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.EmailModel,
		Timeout: cfg.LLM.Timeout,
	}); err != nil {
		logger.WithError(err).Warn("text completion disabled; link extraction and message generation will fail")
	} else {
		completer = lc
	}

	var sender mailer.Sender = mailer.SenderFunc(func(context.Context, mailer.Message) error {
		return mailer.ErrNotConfigured
	})
	fromAddress := ""
	if smtp, err := mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:       cfg.SMTP.Host,
		Port:       cfg.SMTP.Port,
		Username:   cfg.SMTP.Username,
		Password:   cfg.SMTP.Password,
		SenderName: cfg.SMTP.SenderName,
	}); err != nil {
		logger.WithError(err).Warn("outbound email disabled")
	} else {
		sender = smtp
		fromAddress = smtp.From()
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL)

	leadsRepo := repository.NewPGXLeadsRepository(pool)
	emailLogsRepo := repository.NewPGXEmailLogsRepository(pool)

	pages := scraper.NewPageScraper(scraper.Options{
		PageTimeout:   cfg.Scraper.PageTimeout,
		UserAgent:     cfg.Scraper.UserAgent,
		PhoneRegion:   cfg.Scraper.PhoneRegion,
		SocialDomains: lists.Merge(scraper.DefaultSocialDomains, lists.SocialDomains),
	}, component("scraper"), m)
	crawler := scraper.NewCrawler(pages, cfg.Scraper.MaxRelevantPages, component("crawler"))
	batch := scraper.NewBatch(crawler, cfg.Scraper.Concurrency, component("batch"))
	validator := urlfilter.NewValidator(lists.Merge(urlfilter.DefaultBlocklist, lists.BlockedDomains))

	outreach := service.NewOutreachService(completer, sender, emailLogsRepo, service.OutreachConfig{
		LinkModel:          cfg.LLM.LinkModel,
		EmailModel:         cfg.LLM.EmailModel,
		KeywordModel:       cfg.LLM.KeywordModel,
		SenderName:         cfg.SMTP.SenderName,
		FromAddress:        fromAddress,
		PortfolioDeveloper: cfg.PortfolioDeveloper,
		PortfolioDesign:    cfg.PortfolioDesign,
	}, component("outreach"), m)

	pipeline := service.NewLeadPipeline(
		feed.NewFetcher(cfg.RSSFeedURL, cfg.FeedTimeout, nil),
		outreach,
		batch,
		validator,
		leadsRepo,
		emailLogsRepo,
		service.PipelineConfig{MaxAutoEmails: cfg.MaxAutoEmails},
		component("pipeline"),
		m,
	)
	debouncer := service.NewDebouncer(cfg.RunCooldown, nil)

	authService := service.NewAuthService(cfg.OperatorEmail, cfg.OperatorPasswordHash, jwtManager)
	leadService := service.NewLeadService(leadsRepo, outreach)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(component("http")))
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, debouncer, router.Handlers{
		Health:   handler.NewHealthHandler(pool),
		Auth:     handler.NewAuthHandler(authService),
		Leads:    handler.NewLeadsHandler(leadService),
		Pipeline: handler.NewPipelineHandler(pipeline, component("pipeline")),
		Messages: handler.NewMessageHandler(outreach),
		Metrics:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
	})

	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	var poller *scheduler.Poller
	if cfg.PollSchedule != "" {
		poller, err = scheduler.New(cfg.PollSchedule, pipeline, debouncer,
			service.RunOptions{StoreMailsOnly: cfg.PollStoreMailsOnly}, component("scheduler"))
		if err != nil {
			logger.Fatalf("failed to configure feed polling: %v", err)
		}
		poller.Start(appCtx)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.WithField("port", cfg.Port).Info("http server listening")
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Infof("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server error: %v", err)
		}
		return
	}

	stopApp()
	if poller != nil {
		poller.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}
