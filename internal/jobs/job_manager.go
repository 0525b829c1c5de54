package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	overdueScanJob     *OverdueScanJob
	permissionCacheJob *PermissionCacheJob
}

// NewJobManager creates a job manager. A nil job is skipped.
func NewJobManager(overdueScanJob *OverdueScanJob, permissionCacheJob *PermissionCacheJob) *JobManager {
	return &JobManager{
		overdueScanJob:     overdueScanJob,
		permissionCacheJob: permissionCacheJob,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if jm.permissionCacheJob != nil {
		if err := jm.permissionCacheJob.Start(); err != nil {
			return fmt.Errorf("failed to start permission cache job: %w", err)
		}
	}

	if jm.overdueScanJob != nil {
		if err := jm.overdueScanJob.Start(); err != nil {
			// Stop already started jobs if this one fails
			if jm.permissionCacheJob != nil {
				jm.permissionCacheJob.Stop()
			}
			return fmt.Errorf("failed to start overdue scan job: %w", err)
		}
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	if jm.overdueScanJob != nil {
		jm.overdueScanJob.Stop()
	}
	if jm.permissionCacheJob != nil {
		jm.permissionCacheJob.Stop()
	}
}
