package ports

import "context"

// PermissionSource reads role configuration owned by the shop settings.
type PermissionSource interface {
	// FeatureFlags returns the configured feature switches by name.
	FeatureFlags(ctx context.Context) (map[string]bool, error)

	// PermissionsForUser returns the permission codes granted to a user through
	// all of their roles.
	PermissionsForUser(ctx context.Context, userID string) ([]string, error)
}
