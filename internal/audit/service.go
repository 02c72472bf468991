package audit

import (
	"fmt"

	"serveo-backend/internal/database"
	"serveo-backend/internal/models"

	"gorm.io/gorm"
)

// Record mirrors the append-only audit contract: who did what to which object.
type Record struct {
	UserID     uint
	UserName   string
	Action     string
	ObjectType string
	ObjectID   *uint
	Details    string
}

// Write appends an audit row using the shared connection. Permission denials
// and successful mutations both go through here.
func Write(rec Record) error {
	return WriteTx(database.DB, rec)
}

// WriteTx appends an audit row inside the caller's transaction so the audit
// record commits or rolls back together with the mutation it mirrors.
func WriteTx(tx *gorm.DB, rec Record) error {
	row := models.AuditLog{
		UserID:     rec.UserID,
		UserName:   rec.UserName,
		Action:     rec.Action,
		ObjectType: rec.ObjectType,
		ObjectID:   rec.ObjectID,
		Details:    rec.Details,
	}
	if err := tx.Create(&row).Error; err != nil {
		return fmt.Errorf("could not write audit log: %w", err)
	}
	return nil
}
