// Package retry wraps a single remote call with bounded exponential backoff.
//
// Only rate-limit failures are retried. Any other error is terminal and is returned
// from the first attempt without waiting. The delay before retry n (n starting at 0)
// is min(InitialDelay * BackoffMultiplier^n, MaxDelay) with no jitter, so the
// worst-case wait of a call is bounded by Policy.MaxTotalWait.
//
// A Retrier never repeats more than one call: callers that perform several remote
// writes wrap each of them separately.
//
//	r := retry.New(retry.DefaultPolicy(), retry.WithNotifier(retry.LogNotifier(logger)))
//	order, err := retry.Run(ctx, r, "order.get", func(ctx context.Context) (*workorder.WorkOrder, error) {
//	    return repo.Get(ctx, id)
//	})
package retry
