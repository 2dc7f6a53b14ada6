// Package audit appends and lists audit records of document mutations.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/digiflydk/studio-sub001/internal/db/controller/document"
	"github.com/digiflydk/studio-sub001/internal/db/models"
)

const (
	// DefaultLimit is used by Recent when no limit is given.
	DefaultLimit = 20
	// MaxLimit caps the number of records returned by Recent.
	MaxLimit = 100
	// Collection is the logical collection of audit record paths.
	Collection = "audit"
)

// Entry describes one mutation to record.
type Entry struct {
	Type   string
	Path   string
	Actor  string
	Before map[string]any
	After  map[string]any
}

// Log writes and reads audit records.
type Log struct {
	db  *gorm.DB
	now func() time.Time
}

// New creates an audit log over db.
func New(db *gorm.DB) (*Log, error) {
	if db == nil {
		return nil, document.ErrDBNil
	}

	return &Log{db: db, now: time.Now}, nil
}

// Append stores one record and returns it. Records are never updated.
func (l *Log) Append(ctx context.Context, e Entry) (*models.AuditRecord, error) {
	rec := &models.AuditRecord{
		ID:        uuid.NewString(),
		Type:      e.Type,
		Path:      e.Path,
		Timestamp: l.now().UTC(),
		Actor:     e.Actor,
	}

	var err error

	if rec.Before, err = encode(e.Before); err != nil {
		return nil, err
	}

	if rec.After, err = encode(e.After); err != nil {
		return nil, err
	}

	if e.Before != nil || e.After != nil {
		if rec.Diff, err = encode(document.Diff(e.Before, e.After)); err != nil {
			return nil, err
		}
	}

	if err := l.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, errors.Wrapf(err, "append audit %s", e.Type)
	}

	return rec, nil
}

// Record appends e and logs a failure instead of returning it. A mutation
// that already succeeded is never failed by its audit entry.
func (l *Log) Record(ctx context.Context, e Entry) {
	if l == nil {
		return
	}

	if _, err := l.Append(ctx, e); err != nil {
		log.Error().Err(err).Str("type", e.Type).Str("path", e.Path).Msg("audit append failed")
	}
}

// Recent returns the newest records first. limit <= 0 means DefaultLimit,
// anything above MaxLimit is capped.
func (l *Log) Recent(ctx context.Context, limit int) ([]models.AuditRecord, error) {
	limit = ClampLimit(limit)

	records := make([]models.AuditRecord, 0, limit)

	result := l.db.WithContext(ctx).Order("timestamp DESC").Order("id DESC").Limit(limit).Find(&records)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "list audit records")
	}

	return records, nil
}

// ClampLimit applies the default and the cap of Recent.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// Path returns the logical document path of a record.
func Path(rec *models.AuditRecord) string {
	return Collection + "/" + rec.ID
}

func encode[T any](v T) (datatypes.JSON, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encode audit payload")
	}

	if string(raw) == "null" {
		return nil, nil
	}

	return datatypes.JSON(raw), nil
}
