package tasks

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultTrackInterval is the minimum delay between consecutive search calls,
// chosen to stay under the destination search API's rate limit.
const DefaultTrackInterval = 100 * time.Millisecond

// Pacer gates sequential network calls. The matching stage waits on it once
// per track regardless of match outcome, which keeps the pacing policy
// testable in isolation from network I/O.
type Pacer interface {
	Wait(ctx context.Context) error
}

type ratePacer struct {
	limiter *rate.Limiter
}

// NewPacer returns a token-bucket Pacer releasing one call per interval.
// A non-positive interval yields a pacer that never delays.
func NewPacer(interval time.Duration) Pacer {
	if interval <= 0 {
		return NopPacer{}
	}
	return &ratePacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

func (p *ratePacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// NopPacer waits for nothing. Used in tests and when pacing is disabled.
type NopPacer struct{}

func (NopPacer) Wait(ctx context.Context) error {
	return ctx.Err()
}
