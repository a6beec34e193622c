package bookshop

import (
	"context"
	"time"
)

var (
	_ Delayer = (*SleepDelayer)(nil) // ensure SleepDelayer implements Delayer.
	_ Delayer = (*NoDelayer)(nil)    // ensure NoDelayer implements Delayer.
)

// Delayer simulates the latency of the mocked session endpoints.
// It is injected into the client so tests can run synchronously
// with the no-op implementation.
type Delayer interface {
	Wait(ctx context.Context)
}

// SleepDelayer implements Delayer by sleeping a fixed duration.
type SleepDelayer struct {
	latency time.Duration
}

// NewSleepDelayer returns a Delayer pausing for the given duration.
func NewSleepDelayer(latency time.Duration) *SleepDelayer {
	return &SleepDelayer{latency: latency}
}

// Wait pauses the calling flow until the latency elapsed or the context is done.
func (sd *SleepDelayer) Wait(ctx context.Context) {
	t := time.NewTimer(sd.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// NoDelayer implements Delayer without any pause.
type NoDelayer struct{}

// NewNoDelayer returns a Delayer which does not pause at all.
func NewNoDelayer() *NoDelayer {
	return &NoDelayer{}
}

// Wait returns immediately.
func (nd *NoDelayer) Wait(_ context.Context) {}
