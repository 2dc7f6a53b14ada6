// Package models contains database model definitions.
package models

import (
	"time"

	"gorm.io/datatypes"
)

// Document is one JSON document addressed by a slash separated path,
// scoped to a project.
type Document struct {
	// Project is the project identifier of the credentials that wrote the document.
	Project string `gorm:"primaryKey;size:128"`
	// Path is the full document path, e.g. "settings/general".
	Path string `gorm:"primaryKey;size:512"`
	// Collection is the parent collection path, e.g. "settings".
	Collection string `gorm:"index;size:512"`
	// Data is the document body.
	Data datatypes.JSON `gorm:"not null"`
	// CreatedAt is the timestamp of the first write (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp of the last write.
	UpdatedAt time.Time `gorm:"index"`
}

// TableName specifies the database table name for the Document model.
func (Document) TableName() string {
	return "documents"
}
