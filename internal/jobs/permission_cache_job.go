package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"repairshop/internal/core/application/permissions"

	"github.com/robfig/cron/v3"
)

// PermissionCacheJob drops expired permission snapshots every minute so users
// who stopped making requests do not stay in memory.
type PermissionCacheJob struct {
	store  *permissions.CacheStore
	ttl    time.Duration
	now    func() time.Time
	cron   *cron.Cron
	logger *slog.Logger
}

// NewPermissionCacheJob creates the job. A non-positive ttl means permissions.CacheTTL.
func NewPermissionCacheJob(store *permissions.CacheStore, ttl time.Duration, logger *slog.Logger) *PermissionCacheJob {
	if ttl <= 0 {
		ttl = permissions.CacheTTL
	}
	return &PermissionCacheJob{
		store:  store,
		ttl:    ttl,
		now:    time.Now,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.With("component", "permission_cache_job"),
	}
}

// Start schedules eviction at second 0 of every minute.
func (j *PermissionCacheJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		j.RunOnce(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule permission cache eviction: %w", err)
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Permission cache job started (running every minute)")
	return nil
}

// Stop halts the scheduler. A running eviction is not interrupted.
func (j *PermissionCacheJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Permission cache job stopped")
}

// RunOnce evicts expired snapshots and returns how many were dropped.
func (j *PermissionCacheJob) RunOnce(ctx context.Context) int {
	removed := j.store.Evict(j.now(), j.ttl)
	if removed > 0 {
		j.logger.DebugContext(ctx, "Evicted permission caches", "removed", removed, "remaining", j.store.Len())
	}
	return removed
}
