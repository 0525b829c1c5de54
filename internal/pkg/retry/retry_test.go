package retry_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"repairshop/internal/pkg/errs"
	"repairshop/internal/pkg/retry"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingTimer fires immediately and remembers every requested delay.
type recordingTimer struct {
	mu     sync.Mutex
	delays []time.Duration
	c      chan time.Time
}

func newRecordingTimer() *recordingTimer {
	return &recordingTimer{c: make(chan time.Time, 1)}
}

func (t *recordingTimer) Start(d time.Duration) {
	t.mu.Lock()
	t.delays = append(t.delays, d)
	t.mu.Unlock()
	t.c <- time.Now()
}

func (t *recordingTimer) Stop() {}

func (t *recordingTimer) C() <-chan time.Time {
	return t.c
}

func (t *recordingTimer) Delays() []time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]time.Duration(nil), t.delays...)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []retry.Event
}

func (n *recordingNotifier) Notify(_ context.Context, event retry.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Outcomes() []retry.Outcome {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]retry.Outcome, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.Outcome)
	}
	return out
}

func newRetrier(timer *recordingTimer, notifier retry.Notifier) *retry.Retrier {
	return retry.New(
		retry.DefaultPolicy(),
		retry.WithTimer(func() backoff.Timer { return timer }),
		retry.WithNotifier(notifier),
	)
}

func TestPolicy_Delay(t *testing.T) {
	p := retry.DefaultPolicy()

	assert.Equal(t, 2*time.Second, p.Delay(0))
	assert.Equal(t, 4*time.Second, p.Delay(1))
	assert.Equal(t, 8*time.Second, p.Delay(2))
	assert.Equal(t, 15*time.Second, p.Delay(3))
	assert.Equal(t, 14*time.Second, p.MaxTotalWait())
}

func TestPolicy_Validate(t *testing.T) {
	tests := []struct {
		name   string
		policy retry.Policy
		param  string
	}{
		{"negative retries", retry.Policy{MaxRetries: -1, InitialDelay: time.Second, MaxDelay: time.Second, BackoffMultiplier: 2}, "maxRetries"},
		{"zero initial delay", retry.Policy{MaxRetries: 1, MaxDelay: time.Second, BackoffMultiplier: 2}, "initialDelay"},
		{"cap below initial", retry.Policy{MaxRetries: 1, InitialDelay: 2 * time.Second, MaxDelay: time.Second, BackoffMultiplier: 2}, "maxDelay"},
		{"shrinking multiplier", retry.Policy{MaxRetries: 1, InitialDelay: time.Second, MaxDelay: time.Second, BackoffMultiplier: 0.5}, "backoffMultiplier"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.param)
		})
	}

	require.NoError(t, retry.DefaultPolicy().Validate())
}

func TestRun_SucceedsFirstTime(t *testing.T) {
	timer := newRecordingTimer()
	notifier := &recordingNotifier{}
	r := newRetrier(timer, notifier)
	calls := 0

	got, err := retry.Run(context.Background(), r, "getOrder", func(context.Context) (string, error) {
		calls++
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, calls)
	assert.Empty(t, timer.Delays())
	assert.Empty(t, notifier.Outcomes())
}

func TestRun_RateLimitedTwiceThenSucceeds(t *testing.T) {
	timer := newRecordingTimer()
	notifier := &recordingNotifier{}
	r := newRetrier(timer, notifier)
	calls := 0

	got, err := retry.Run(context.Background(), r, "updateOrder", func(context.Context) (int, error) {
		calls++
		if calls <= 2 {
			return 0, errors.New("Rate limit exceeded")
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, timer.Delays())
	assert.Equal(t,
		[]retry.Outcome{retry.OutcomeRetrying, retry.OutcomeRetrying, retry.OutcomeRecovered},
		notifier.Outcomes())
}

func TestRun_RateLimitExhausted(t *testing.T) {
	timer := newRecordingTimer()
	notifier := &recordingNotifier{}
	r := newRetrier(timer, notifier)
	cause := errors.New("Too many requests")
	calls := 0

	_, err := retry.Run(context.Background(), r, "createEvent", func(context.Context) (struct{}, error) {
		calls++
		return struct{}{}, cause
	})

	require.Error(t, err)
	assert.Equal(t, 4, calls)
	assert.Equal(t,
		[]time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second},
		timer.Delays())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, errs.ErrRateLimited)

	var rateLimited *errs.RateLimitedError
	require.ErrorAs(t, err, &rateLimited)
	assert.Equal(t, 4, rateLimited.Attempts)
	assert.Equal(t, "createEvent", rateLimited.Operation)

	outcomes := notifier.Outcomes()
	require.Len(t, outcomes, 4)
	assert.Equal(t, retry.OutcomeFailed, outcomes[3])
}

func TestRun_TerminalErrorIsNotRetried(t *testing.T) {
	timer := newRecordingTimer()
	r := newRetrier(timer, nil)
	notFound := errs.NewObjectNotFoundError("orderId", "wo-1")
	calls := 0

	_, err := retry.Run(context.Background(), r, "getOrder", func(context.Context) (string, error) {
		calls++
		return "", notFound
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, timer.Delays())
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)

	var rateLimited *errs.RateLimitedError
	assert.False(t, errors.As(err, &rateLimited))
}

func TestRun_CustomClassifier(t *testing.T) {
	timer := newRecordingTimer()
	flaky := errors.New("connection reset")
	r := retry.New(
		retry.Policy{MaxRetries: 1, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, BackoffMultiplier: 1},
		retry.WithTimer(func() backoff.Timer { return timer }),
		retry.WithClassifier(retry.AnyOf(retry.IsRateLimit, func(err error) bool { return errors.Is(err, flaky) })),
	)
	calls := 0

	err := r.Do(context.Background(), "ping", func(context.Context) error {
		calls++
		if calls == 1 {
			return flaky
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []time.Duration{time.Millisecond}, timer.Delays())
}

func TestNew_InvalidPolicyFallsBackToDefault(t *testing.T) {
	r := retry.New(retry.Policy{MaxRetries: -5})

	assert.Equal(t, retry.DefaultPolicy(), r.Policy())
}

func TestIsRateLimit(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"capitalised message", errors.New("Rate limit exceeded"), true},
		{"lowercase message", errors.New("hit the rate limit"), true},
		{"too many requests", errors.New("429 Too many requests"), true},
		{"upper case message", errors.New("RATE LIMIT reached"), true},
		{"mixed case too many requests", errors.New("Too Many Requests"), true},
		{"wrapped message", fmt.Errorf("update order: %w", errors.New("rate limit exceeded")), true},
		{"words apart", errors.New("limit on rate"), false},
		{"typed", errs.NewRateLimitedError("getOrder", 1), true},
		{"other", errors.New("boom"), false},
		{"required", errs.NewValueIsRequiredError("part_name"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, retry.IsRateLimit(tt.err))
		})
	}
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "retrying", retry.OutcomeRetrying.String())
	assert.Equal(t, "recovered", retry.OutcomeRecovered.String())
	assert.Equal(t, "failed", retry.OutcomeFailed.String())
	assert.Equal(t, "unknown", retry.Outcome(0).String())
}
