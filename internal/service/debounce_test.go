package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer_Allow(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	d := NewDebouncer(5*time.Second, func() time.Time { return now })

	assert.True(t, d.Allow())
	assert.False(t, d.Allow(), "second call within the cooldown")

	now = now.Add(3 * time.Second)
	assert.False(t, d.Allow())

	now = now.Add(2 * time.Second)
	assert.True(t, d.Allow(), "refused calls must not extend the window")
}

func TestDebouncer_DefaultCooldown(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	d := NewDebouncer(0, func() time.Time { return now })

	assert.True(t, d.Allow())
	now = now.Add(4 * time.Second)
	assert.False(t, d.Allow())
	now = now.Add(time.Second)
	assert.True(t, d.Allow())
}
