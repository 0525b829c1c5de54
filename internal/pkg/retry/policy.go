package retry

import (
	"context"
	"fmt"
	"math"
	"time"

	"repairshop/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultMaxRetries        = 3
	DefaultInitialDelay      = 2000 * time.Millisecond
	DefaultMaxDelay          = 15000 * time.Millisecond
	DefaultBackoffMultiplier = 2
)

// Policy holds the retry tuning of a Retrier.
type Policy struct {
	MaxRetries        int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
}

// DefaultPolicy returns 3 retries starting at 2s, doubling, capped at 15s.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:        DefaultMaxRetries,
		InitialDelay:      DefaultInitialDelay,
		MaxDelay:          DefaultMaxDelay,
		BackoffMultiplier: DefaultBackoffMultiplier,
	}
}

// Validate checks that the policy describes a finite, non-decreasing schedule.
func (p Policy) Validate() error {
	if p.MaxRetries < 0 {
		return errs.NewValueIsOutOfRangeError("maxRetries", p.MaxRetries, 0, math.MaxInt32)
	}
	if p.InitialDelay <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("initialDelay", fmt.Errorf("%s is not positive", p.InitialDelay))
	}
	if p.MaxDelay < p.InitialDelay {
		return errs.NewValueIsInvalidErrorWithCause(
			"maxDelay",
			fmt.Errorf("%s is lower than initial delay %s", p.MaxDelay, p.InitialDelay),
		)
	}
	if p.BackoffMultiplier < 1 {
		return errs.NewValueIsInvalidErrorWithCause(
			"backoffMultiplier",
			fmt.Errorf("%v is lower than 1", p.BackoffMultiplier),
		)
	}
	return nil
}

// Delay returns the wait before retry number attempt (0-based).
func (p Policy) Delay(attempt int) time.Duration {
	d := float64(p.InitialDelay) * math.Pow(p.BackoffMultiplier, float64(attempt))
	if d >= float64(p.MaxDelay) {
		return p.MaxDelay
	}
	return time.Duration(d)
}

// MaxTotalWait is the sum of every delay the policy can impose on one call.
func (p Policy) MaxTotalWait() time.Duration {
	var total time.Duration
	for attempt := range p.MaxRetries {
		total += p.Delay(attempt)
	}
	return total
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	expo := &backoff.ExponentialBackOff{
		InitialInterval:     p.InitialDelay,
		RandomizationFactor: 0,
		Multiplier:          p.BackoffMultiplier,
		MaxInterval:         p.MaxDelay,
		MaxElapsedTime:      0,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	expo.Reset()

	//nolint:gosec // MaxRetries is validated to be non-negative
	return backoff.WithContext(backoff.WithMaxRetries(expo, uint64(p.MaxRetries)), ctx)
}
