package queries

import (
	"errors"
	"time"

	"repairshop/internal/pkg/errs"
	"repairshop/internal/pkg/guard"
)

var (
	ErrGetOverdueOrdersQueryIsNotConstructed = errors.New(
		"GetOverdueOrdersQuery must be created via NewGetOverdueOrdersQuery constructor",
	)
)

// MaxOverdueLimit caps one overdue report.
const MaxOverdueLimit = 500

// GetOverdueOrdersQuery lists open orders past the overdue threshold at a given
// instant, most pressing first.
type GetOverdueOrdersQuery struct {
	now   time.Time
	limit int

	guard guard.ConstructorGuard
}

// NewGetOverdueOrdersQuery builds the query; limit 0 means MaxOverdueLimit.
func NewGetOverdueOrdersQuery(now time.Time, limit int) (GetOverdueOrdersQuery, error) {
	if now.IsZero() {
		return GetOverdueOrdersQuery{}, errs.NewValueIsRequiredError("now")
	}
	if limit == 0 {
		limit = MaxOverdueLimit
	}
	if limit < 0 || limit > MaxOverdueLimit {
		return GetOverdueOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxOverdueLimit)
	}
	return GetOverdueOrdersQuery{now: now, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through NewGetOverdueOrdersQuery.
func (q GetOverdueOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOverdueOrdersQueryIsNotConstructed)
}

// Now returns the instant the report is computed for.
func (q GetOverdueOrdersQuery) Now() time.Time {
	return q.now
}

// Limit returns the maximum number of orders to return.
func (q GetOverdueOrdersQuery) Limit() int {
	return q.limit
}
