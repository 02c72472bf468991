package models

import "time"

// RolePermission overrides the built-in role defaults when present.
type RolePermission struct {
	ID         uint     `gorm:"primaryKey"`
	Role       UserRole `gorm:"size:20;index;not null;uniqueIndex:uix_role_permission"`
	Permission string   `gorm:"size:64;index;not null;uniqueIndex:uix_role_permission"`
	Allowed    bool     `gorm:"default:false"`
	UpdatedAt  time.Time
}
