package retry

import (
	"context"
	"log/slog"
	"time"
)

// Outcome tells a Notifier what stage of a call an Event describes.
type Outcome int

const (
	// OutcomeRetrying is emitted before every wait.
	OutcomeRetrying Outcome = iota + 1
	// OutcomeRecovered is emitted when a call succeeds after at least one retry.
	OutcomeRecovered
	// OutcomeFailed is emitted when a call gives up, terminal or exhausted.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRetrying:
		return "retrying"
	case OutcomeRecovered:
		return "recovered"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event describes one retry signal. Attempt is the number of calls made so far.
type Event struct {
	Operation  string
	Attempt    int
	MaxRetries int
	Delay      time.Duration
	Outcome    Outcome
	Err        error
}

// Notifier receives retry signals for user-facing feedback. Notifications never
// influence the retry decision.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, event Event)

func (f NotifierFunc) Notify(ctx context.Context, event Event) {
	f(ctx, event)
}

// Notifiers fans an event out to every non-nil member.
type Notifiers []Notifier

func (n Notifiers) Notify(ctx context.Context, event Event) {
	for _, notifier := range n {
		if notifier != nil {
			notifier.Notify(ctx, event)
		}
	}
}

// LogNotifier writes retry signals to logger.
func LogNotifier(logger *slog.Logger) Notifier {
	logger = logger.With("component", "retry")
	return NotifierFunc(func(ctx context.Context, event Event) {
		attrs := []any{
			"operation", event.Operation,
			"attempt", event.Attempt,
			"max_retries", event.MaxRetries,
		}
		switch event.Outcome {
		case OutcomeRetrying:
			logger.WarnContext(ctx, "Retrying throttled call",
				append(attrs, "delay", event.Delay.String(), "error", event.Err)...)
		case OutcomeRecovered:
			logger.InfoContext(ctx, "Call recovered after retries", attrs...)
		case OutcomeFailed:
			if event.Attempt <= 1 {
				logger.DebugContext(ctx, "Call failed", append(attrs, "error", event.Err)...)
				return
			}
			logger.ErrorContext(ctx, "Call failed after retries", append(attrs, "error", event.Err)...)
		}
	})
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, Event) {}
