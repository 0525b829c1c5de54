package workorder

import (
	"cmp"
	"math"
	"slices"
	"time"
)

// OverdueAfterDays is the number of full days an open order may stay in the shop.
const OverdueAfterDays = 14

// Classification is the derived, read-only view used by the overdue report and
// the order screens.
//
// Example:
//
//	c := Classify(order, time.Now())
//	if c.Overdue {
//	    fmt.Printf("%s open for %d days\n", order.OrderNumber(), c.DaysOpen)
//	}
type Classification struct {
	Overdue      bool
	DaysOpen     int
	PriorityRank int
}

// Classify derives the overdue view of order at now using the built-in terminal
// statuses.
func Classify(order *WorkOrder, now time.Time) Classification {
	return ClassifyWithTerminal(order, now, Status.IsTerminal)
}

// ClassifyWithTerminal is Classify with a caller supplied terminal predicate, for
// deployments that configure extra terminal statuses.
func ClassifyWithTerminal(order *WorkOrder, now time.Time, isTerminal func(Status) bool) Classification {
	daysOpen := int(math.Floor(now.Sub(order.CreatedDate()).Hours() / 24))

	return Classification{
		Overdue:      daysOpen >= OverdueAfterDays && !isTerminal(order.Status()),
		DaysOpen:     daysOpen,
		PriorityRank: order.Priority().Rank(),
	}
}

// ClassifiedOrder pairs an order with its classification.
type ClassifiedOrder struct {
	Order          *WorkOrder
	Classification Classification
}

// SortForAlerts orders items urgent first, then longest open, then by order number.
func SortForAlerts(items []ClassifiedOrder) {
	slices.SortStableFunc(items, func(a, b ClassifiedOrder) int {
		return cmp.Or(
			cmp.Compare(a.Classification.PriorityRank, b.Classification.PriorityRank),
			cmp.Compare(b.Classification.DaysOpen, a.Classification.DaysOpen),
			cmp.Compare(a.Order.OrderNumber(), b.Order.OrderNumber()),
		)
	})
}
