package service

import (
	"time"

	"golang.org/x/time/rate"
)

// Debouncer admits at most one pipeline run per cooldown window. Refused calls do not
// push the window forward.
type Debouncer struct {
	limiter *rate.Limiter
	now     func() time.Time
}

// NewDebouncer returns a debouncer with the given cooldown. A nil clock uses time.Now.
func NewDebouncer(cooldown time.Duration, now func() time.Time) *Debouncer {
	if cooldown <= 0 {
		cooldown = 5 * time.Second
	}
	if now == nil {
		now = time.Now
	}
	return &Debouncer{limiter: rate.NewLimiter(rate.Every(cooldown), 1), now: now}
}

// Allow reports whether a run may start now.
func (d *Debouncer) Allow() bool {
	return d.limiter.AllowN(d.now(), 1)
}
