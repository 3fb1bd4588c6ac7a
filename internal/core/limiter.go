package core

// limiter.go caps how many sheets are validated at once.
//
// Validation itself is pure and shares nothing, but each request holds a whole
// sheet in memory. The limiter is a buffered-channel semaphore: callers wait
// up to maxWait for a slot and then fail with ErrBusy. WaitForDrain lets the
// server finish in-flight validations during shutdown.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrBusy is returned when no validation slot frees up within the wait time.
var ErrBusy = errors.New("too many concurrent validations, please try again later")

const (
	// DefaultMaxConcurrent is the slot count used when none is configured.
	DefaultMaxConcurrent = 5

	// DefaultMaxWait is how long Acquire waits for a slot by default.
	DefaultMaxWait = 30 * time.Second
)

// Limiter bounds concurrent validations.
type Limiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

// NewLimiter allows at most maxConcurrent validations, waiting up to maxWait for a slot.
func NewLimiter(maxConcurrent int, maxWait time.Duration) *Limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}
	return &Limiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot. The caller must Release it when done.
// It returns ctx.Err() if ctx ends first and ErrBusy if the wait times out.
func (l *Limiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrBusy
	}
}

// Release frees a slot taken by Acquire.
func (l *Limiter) Release() {
	l.active.Add(-1)
	<-l.slots
}

// WaitForDrain blocks until no validation is active or ctx ends.
func (l *Limiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for l.active.Load() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// LimiterStatus is a snapshot of limiter usage.
type LimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status reports current slot usage.
func (l *Limiter) Status() LimiterStatus {
	return LimiterStatus{
		Active:        int(l.active.Load()),
		Available:     cap(l.slots) - len(l.slots),
		MaxConcurrent: cap(l.slots),
	}
}
