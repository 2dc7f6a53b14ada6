package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditRecord is an append-only entry describing one mutation.
type AuditRecord struct {
	ID        string         `gorm:"primaryKey;size:36"  json:"id"`
	Type      string         `gorm:"index;size:100"      json:"type"`
	Path      string         `gorm:"size:512"            json:"path"`
	Timestamp time.Time      `gorm:"index;not null"      json:"timestamp"`
	Actor     string         `gorm:"size:255"            json:"actor"`
	Before    datatypes.JSON `json:"before,omitempty"`
	After     datatypes.JSON `json:"after,omitempty"`
	Diff      datatypes.JSON `json:"diff,omitempty"`
}

// TableName specifies the database table name for the AuditRecord model.
func (AuditRecord) TableName() string {
	return "audit_records"
}

// All lists every model handled by AutoMigrate.
func All() []any {
	return []any{
		&Document{},
		&AuditRecord{},
	}
}
