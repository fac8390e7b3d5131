package processing

import (
	"context"
	"time"
)

// Pacer inserts a flat pause after each row that touched the card API.
type Pacer struct {
	delay time.Duration
}

// NewPacer returns a pacer sleeping delay after every row; a delay of zero or
// less disables pacing.
func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{delay: delay}
}

// Pause sleeps for the configured delay, returning early with the context
// error if ctx is done.
func (p *Pacer) Pause(ctx context.Context) error {
	if p == nil || p.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
