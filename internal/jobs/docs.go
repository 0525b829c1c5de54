// Package jobs provides scheduled background tasks for the repair shop.
//
// Jobs use github.com/robfig/cron/v3 with a seconds field.
//
// # Available Jobs
//
// 1. OverdueScanJob - Runs on OVERDUE_SCAN_CRON (hourly by default), classifies open
// orders, updates the overdue gauge and publishes one batched alert message
// 2. PermissionCacheJob - Runs every minute to drop expired permission snapshots
//
// # Usage
//
//	jobManager := jobs.NewJobManager(overdueScanJob, permissionCacheJob)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - Scan failures are logged; the next tick runs normally
// - A failed publish is reported after the gauge was already updated
// - Failed job starts will stop any already running jobs
package jobs
