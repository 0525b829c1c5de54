// Package permissionrepo reads role grants and feature flags from the shop
// settings tables.
package permissionrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"

	"gorm.io/gorm"
)

const featureFlagsKey = "feature_flags"

// defaultFlags apply when the settings row is missing or omits a flag.
var defaultFlags = map[string]bool{
	"user_roles_management":    true,
	"dashboard_note_targeting": true,
}

type UserRoleDTO struct {
	UserID string `gorm:"size:128;primaryKey"`
	RoleID string `gorm:"size:128;primaryKey"`
}

func (UserRoleDTO) TableName() string {
	return "user_roles"
}

type RolePermissionDTO struct {
	RoleID         string `gorm:"size:128;primaryKey"`
	PermissionCode string `gorm:"size:128;primaryKey"`
}

func (RolePermissionDTO) TableName() string {
	return "role_permissions"
}

// SystemConfigDTO is a key/value settings row. Value holds JSON text.
type SystemConfigDTO struct {
	Key   string `gorm:"size:128;primaryKey"`
	Value string `gorm:"not null"`
}

func (SystemConfigDTO) TableName() string {
	return "system_config"
}

// GormPermissionSource implements ports.PermissionSource.
type GormPermissionSource struct {
	db *gorm.DB
}

func NewGormPermissionSource(db *gorm.DB) *GormPermissionSource {
	return &GormPermissionSource{db: db}
}

// FeatureFlags merges the stored flags over the defaults.
func (s *GormPermissionSource) FeatureFlags(ctx context.Context) (map[string]bool, error) {
	flags := maps.Clone(defaultFlags)

	var row SystemConfigDTO
	err := s.db.WithContext(ctx).First(&row, "key = ?", featureFlagsKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return flags, nil
	}
	if err != nil {
		return nil, err
	}

	var stored map[string]bool
	if err := json.Unmarshal([]byte(row.Value), &stored); err != nil {
		return nil, fmt.Errorf("decode %s: %w", featureFlagsKey, err)
	}
	maps.Copy(flags, stored)

	return flags, nil
}

// PermissionsForUser returns the distinct permission codes of every role the
// user holds, sorted.
func (s *GormPermissionSource) PermissionsForUser(ctx context.Context, userID string) ([]string, error) {
	var codes []string
	err := s.db.WithContext(ctx).
		Model(&RolePermissionDTO{}).
		Distinct("role_permissions.permission_code").
		Joins("JOIN user_roles ON user_roles.role_id = role_permissions.role_id").
		Where("user_roles.user_id = ?", userID).
		Order("role_permissions.permission_code").
		Pluck("role_permissions.permission_code", &codes).Error
	if err != nil {
		return nil, err
	}
	if codes == nil {
		codes = []string{}
	}
	return codes, nil
}
