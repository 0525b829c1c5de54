package permissions

import (
	"context"
	"log/slog"
	"time"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/ports"
)

// FlagUserRolesManagement enables role-based permission checks. A missing flag
// counts as enabled.
const FlagUserRolesManagement = "user_roles_management"

// Permission codes checked by the work order API.
const (
	ChangeStatus = "orders.change_status"
	AddNote      = "orders.add_note"
	CreateOrder  = "orders.create"
)

// Decision is the answer to one permission check. Both Allowed and
// AllowByDefault let the action proceed; they differ only in why.
type Decision int

const (
	Denied Decision = iota
	Allowed
	// AllowByDefault is returned when the check is disabled or could not be
	// completed.
	AllowByDefault
)

// String returns the metric label of d.
func (d Decision) String() string {
	switch d {
	case Denied:
		return "denied"
	case Allowed:
		return "allowed"
	case AllowByDefault:
		return "allow_by_default"
	default:
		return "unknown"
	}
}

// Permits reports whether the action may proceed.
func (d Decision) Permits() bool {
	return d == Allowed || d == AllowByDefault
}

// DecisionRecorder observes every decision made.
type DecisionRecorder interface {
	RecordPermissionCheck(decision string)
}

// Option configures a Checker.
type Option func(*Checker)

// WithClock replaces time.Now for cache freshness checks.
func WithClock(clock Clock) Option {
	return func(c *Checker) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithTTL overrides CacheTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(c *Checker) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRecorder reports every decision to recorder.
func WithRecorder(recorder DecisionRecorder) Option {
	return func(c *Checker) {
		c.recorder = recorder
	}
}

// Checker evaluates permission codes for an actor.
//
// The order of evaluation is fixed:
//   - feature flags unavailable, or user_roles_management off: AllowByDefault
//   - no actor: Denied
//   - admin role: Allowed
//   - otherwise the actor's grants, reloaded when the cached snapshot is stale
//
// A failure to load grants also yields AllowByDefault.
//
// Example:
//
//	checker := NewChecker(source, WithRecorder(metrics))
//	store := NewCacheStore()
//
//	if !checker.Authorize(ctx, store, actor, ChangeStatus).Permits() {
//	    return errForbidden
//	}
type Checker struct {
	source   ports.PermissionSource
	clock    Clock
	ttl      time.Duration
	logger   *slog.Logger
	recorder DecisionRecorder
}

// NewChecker creates a checker reading flags and grants from source, with
// CacheTTL and time.Now unless overridden.
func NewChecker(source ports.PermissionSource, opts ...Option) *Checker {
	c := &Checker{
		source: source,
		clock:  time.Now,
		ttl:    CacheTTL,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "permissions")
	return c
}

// Check decides whether actor holds code. cache is the actor's previous
// snapshot; the returned Cache is the one to keep for the next call and equals
// cache unless it had to be reloaded.
func (c *Checker) Check(ctx context.Context, cache Cache, actor kernel.Actor, code string) (Decision, Cache) {
	decision, next := c.check(ctx, cache, actor, code)
	if c.recorder != nil {
		c.recorder.RecordPermissionCheck(decision.String())
	}
	return decision, next
}

func (c *Checker) check(ctx context.Context, cache Cache, actor kernel.Actor, code string) (Decision, Cache) {
	flags, err := c.source.FeatureFlags(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "feature flags unavailable, allowing by default",
			"permission", code, "error", err)
		return AllowByDefault, cache
	}
	if enabled, ok := flags[FlagUserRolesManagement]; ok && !enabled {
		return AllowByDefault, cache
	}

	if actor.IsZero() {
		return Denied, cache
	}
	if actor.IsAdmin() {
		return Allowed, cache
	}

	now := c.clock()
	if !cache.IsFresh(now, c.ttl) {
		entries, err := c.source.PermissionsForUser(ctx, actor.ID())
		if err != nil {
			c.logger.WarnContext(ctx, "permissions unavailable, allowing by default",
				"userId", actor.ID(), "permission", code, "error", err)
			return AllowByDefault, cache
		}
		cache = NewCache(entries, now)
	}

	if cache.Has(code) {
		return Allowed, cache
	}
	return Denied, cache
}

// Authorize runs Check against the actor's snapshot in store and saves the
// snapshot it returns.
func (c *Checker) Authorize(ctx context.Context, store *CacheStore, actor kernel.Actor, code string) Decision {
	decision, cache := c.Check(ctx, store.Get(actor.ID()), actor, code)
	if !actor.IsZero() {
		store.Put(actor.ID(), cache)
	}
	return decision
}
