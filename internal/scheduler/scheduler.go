// Package scheduler polls the job feed on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/octobees/job-leads/api/internal/service"
)

// ErrNoSchedule is returned when the poller is built without a cron expression.
var ErrNoSchedule = errors.New("poll schedule is empty")

const defaultRunTimeout = 30 * time.Minute

// Runner executes one pipeline pass. *service.LeadPipeline implements it.
type Runner interface {
	Run(ctx context.Context, opts service.RunOptions) (service.RunResult, error)
}

// Allower is the run debouncer shared with the HTTP endpoint.
type Allower interface {
	Allow() bool
}

// Poller triggers pipeline runs on a cron schedule.
type Poller struct {
	cron     *cron.Cron
	runner   Runner
	debounce Allower
	opts     service.RunOptions
	timeout  time.Duration
	log      *logrus.Entry

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// New parses schedule (standard five fields or a descriptor such as "@every 30m") and
// returns a stopped poller.
func New(schedule string, runner Runner, debounce Allower, opts service.RunOptions, log *logrus.Entry) (*Poller, error) {
	schedule = strings.TrimSpace(schedule)
	if schedule == "" {
		return nil, ErrNoSchedule
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	cronLog := cron.PrintfLogger(log)
	c := cron.New(
		cron.WithParser(parser),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)

	p := &Poller{
		cron:     c,
		runner:   runner,
		debounce: debounce,
		opts:     opts,
		timeout:  defaultRunTimeout,
		log:      log,
		ctx:      context.Background(),
	}
	if _, err := c.AddFunc(schedule, p.Tick); err != nil {
		return nil, fmt.Errorf("parse poll schedule %q: %w", schedule, err)
	}
	return p, nil
}

// Start begins scheduling. Runs in flight are cancelled when ctx is done or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.mu.Unlock()

	p.cron.Start()
	p.log.Info("Feed polling started")
}

// Stop halts scheduling, cancels any run in flight and waits for it to return.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()

	<-p.cron.Stop().Done()
	p.log.Info("Feed polling stopped")
}

// Tick runs the pipeline once unless the debouncer refuses.
func (p *Poller) Tick() {
	if p.debounce != nil && !p.debounce.Allow() {
		p.log.Warn("Scheduled run skipped: cooldown active")
		return
	}

	p.mu.Lock()
	parent := p.ctx
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(parent, p.timeout)
	defer cancel()

	result, err := p.runner.Run(ctx, p.opts)
	if err != nil {
		p.log.WithError(err).Error("Scheduled run failed")
		return
	}

	sent := 0
	for _, r := range result.EmailResults {
		if r.Sent {
			sent++
		}
	}
	p.log.WithFields(logrus.Fields{
		"log_lines":   len(result.LogLines),
		"emails_sent": sent,
	}).Info("Scheduled run finished")
}
