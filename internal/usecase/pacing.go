package usecase

import (
	"context"
	"time"
)

// SleepFunc waits for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// PacingPolicy spaces out sequential Shopify calls to stay under the API rate limit
type PacingPolicy struct {
	PageDelay   time.Duration // between catalog pages
	BatchDelay  time.Duration // between inventory level batches
	UpdateDelay time.Duration // between status writes
	BatchSize   int           // inventory items per inventory level request
}

// DefaultPacingPolicy returns the pacing used against the live store
func DefaultPacingPolicy() PacingPolicy {
	return PacingPolicy{
		PageDelay:   500 * time.Millisecond,
		BatchDelay:  500 * time.Millisecond,
		UpdateDelay: 250 * time.Millisecond,
		BatchSize:   50,
	}
}

// withDefaults fills zero fields from DefaultPacingPolicy. Delays may legitimately be zero, only BatchSize is filled.
func (p PacingPolicy) withDefaults() PacingPolicy {
	if p.BatchSize <= 0 {
		p.BatchSize = DefaultPacingPolicy().BatchSize
	}
	return p
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
