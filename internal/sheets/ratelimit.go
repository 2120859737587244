package sheets

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// Minimum spacing between requests; 1.1s allows ~54 requests/minute.
	defaultMinInterval = 1100 * time.Millisecond
	// Conservative per-minute budget (the actual quota is 60).
	defaultMaxPerWindow = 50
	defaultWindow       = time.Minute
)

// rateLimiter paces Sheets API calls with a minimum inter-request interval
// and a rolling per-minute budget.
type rateLimiter struct {
	mu           sync.Mutex
	minInterval  time.Duration
	maxPerWindow int
	window       time.Duration

	lastRequest time.Time
	windowStart time.Time
	count       int
}

func newRateLimiter() *rateLimiter {
	return &rateLimiter{
		minInterval:  defaultMinInterval,
		maxPerWindow: defaultMaxPerWindow,
		window:       defaultWindow,
	}
}

// wait blocks until the next request is allowed, or ctx is cancelled.
func (r *rateLimiter) wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()

	if r.windowStart.IsZero() || now.Sub(r.windowStart) >= r.window {
		r.count = 0
		r.windowStart = now
	}

	if r.count >= r.maxPerWindow {
		pause := r.window - now.Sub(r.windowStart)
		if pause > 0 {
			log.Warn().
				Dur("pause", pause).
				Int("requests", r.count).
				Msg("Sheets quota budget reached, pausing")
			if err := sleepCtx(ctx, pause); err != nil {
				return err
			}
		}
		r.count = 0
		r.windowStart = time.Now()
		now = r.windowStart
	}

	if !r.lastRequest.IsZero() {
		if gap := r.minInterval - now.Sub(r.lastRequest); gap > 0 {
			if err := sleepCtx(ctx, gap); err != nil {
				return err
			}
		}
	}

	r.lastRequest = time.Now()
	r.count++
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
