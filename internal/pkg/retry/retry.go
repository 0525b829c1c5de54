package retry

import (
	"context"
	"time"

	"repairshop/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

// Option customises a Retrier.
type Option func(*Retrier)

// WithNotifier sets the sink receiving retry signals.
func WithNotifier(notifier Notifier) Option {
	return func(r *Retrier) {
		if notifier != nil {
			r.notifier = notifier
		}
	}
}

// WithClassifier replaces IsRateLimit as the retry decision.
func WithClassifier(classifier Classifier) Option {
	return func(r *Retrier) {
		if classifier != nil {
			r.classify = classifier
		}
	}
}

// WithTimer injects the timer used between attempts. newTimer is called once per Run.
func WithTimer(newTimer func() backoff.Timer) Option {
	return func(r *Retrier) {
		r.newTimer = newTimer
	}
}

// Retrier runs single remote calls under a Policy.
type Retrier struct {
	policy   Policy
	classify Classifier
	notifier Notifier
	newTimer func() backoff.Timer
}

// New creates a Retrier. An invalid policy falls back to DefaultPolicy.
func New(policy Policy, opts ...Option) *Retrier {
	if err := policy.Validate(); err != nil {
		policy = DefaultPolicy()
	}

	r := &Retrier{
		policy:   policy,
		classify: IsRateLimit,
		notifier: noopNotifier{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Policy returns the effective policy.
func (r *Retrier) Policy() Policy {
	return r.policy
}

// Do is Run for calls without a result.
func (r *Retrier) Do(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	_, err := Run(ctx, r, operation, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Run calls fn until it succeeds, fails with a non rate-limit error, or MaxRetries
// retries have been spent. An exhausted call returns *errs.RateLimitedError wrapping
// the last failure.
func Run[T any](ctx context.Context, r *Retrier, operation string, fn func(ctx context.Context) (T, error)) (T, error) {
	attempts := 0
	throttled := false

	call := func() (T, error) {
		attempts++
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		throttled = r.classify(err)
		if !throttled {
			return result, backoff.Permanent(err)
		}
		return result, err
	}

	notify := func(err error, delay time.Duration) {
		r.notifier.Notify(ctx, Event{
			Operation:  operation,
			Attempt:    attempts,
			MaxRetries: r.policy.MaxRetries,
			Delay:      delay,
			Outcome:    OutcomeRetrying,
			Err:        err,
		})
	}

	var timer backoff.Timer
	if r.newTimer != nil {
		timer = r.newTimer()
	}

	result, err := backoff.RetryNotifyWithTimerAndData(call, r.policy.backOff(ctx), notify, timer)
	if err == nil {
		if attempts > 1 {
			r.notifier.Notify(ctx, Event{
				Operation:  operation,
				Attempt:    attempts,
				MaxRetries: r.policy.MaxRetries,
				Outcome:    OutcomeRecovered,
			})
		}
		return result, nil
	}

	if throttled && ctx.Err() == nil {
		err = errs.NewRateLimitedErrorWithCause(operation, attempts, err)
	}
	r.notifier.Notify(ctx, Event{
		Operation:  operation,
		Attempt:    attempts,
		MaxRetries: r.policy.MaxRetries,
		Outcome:    OutcomeFailed,
		Err:        err,
	})
	return result, err
}
