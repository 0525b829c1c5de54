// Package workorder contains the repair order aggregate and its audit entries.
//
// A WorkOrder is created at intake in the pending status and afterwards changes
// only through validated status transitions. Every transition leaves a
// WorkOrderEvent behind; events are append-only and never updated or deleted.
//
// The package also derives the overdue view used by alert surfaces:
//
//	c := workorder.Classify(order, time.Now())
//	if c.Overdue {
//	    // open for c.DaysOpen days
//	}
package workorder
