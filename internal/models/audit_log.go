package models

import "time"

// AuditLog is append-only: every permission denial and every successful
// mutation is mirrored here.
type AuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UserID     uint      `json:"user_id"`
	UserName   string    `gorm:"size:100" json:"user_name"` // denormalized
	Action     string    `gorm:"size:64;index" json:"action"`
	ObjectType string    `gorm:"size:64;index" json:"object_type"`
	ObjectID   *uint     `json:"object_id"`
	Details    string    `gorm:"size:500" json:"details"`
}
