package document

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/digiflydk/studio-sub001/internal/db/models"
)

const pathQueryPattern = "project = ? AND path = ?"

// gormBackend keeps documents as JSON rows of the documents table.
type gormBackend struct {
	db *gorm.DB
}

func (b *gormBackend) get(ctx context.Context, project, path string) (*Snapshot, error) {
	var doc models.Document

	result := b.db.WithContext(ctx).Where(pathQueryPattern, project, path).First(&doc)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(ErrNotFound, path)
		}

		return nil, errors.Wrapf(result.Error, "read %s", path)
	}

	return toSnapshot(&doc)
}

func (b *gormBackend) update(
	ctx context.Context,
	project, path string,
	fn func(current []byte, exists bool) ([]byte, error),
) (*Snapshot, error) {
	var doc models.Document

	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Document

		exists := true

		result := tx.Where(pathQueryPattern, project, path).First(&current)
		if result.Error != nil {
			if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return errors.Wrapf(result.Error, "read %s", path)
			}

			exists = false
		}

		next, err := fn([]byte(current.Data), exists)
		if err != nil {
			return err
		}

		now := time.Now().UTC()

		doc = models.Document{
			Project:    project,
			Path:       path,
			Collection: Collection(path),
			Data:       datatypes.JSON(next),
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		if exists {
			doc.CreatedAt = current.CreatedAt
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project"}, {Name: "path"}},
			DoUpdates: clause.AssignmentColumns([]string{"collection", "data", "updated_at"}),
		}).Create(&doc).Error
	})
	if err != nil {
		return nil, err
	}

	return toSnapshot(&doc)
}

func (b *gormBackend) remove(ctx context.Context, project, path string) error {
	result := b.db.WithContext(ctx).Where(pathQueryPattern, project, path).Delete(&models.Document{})
	if result.Error != nil {
		return errors.Wrapf(result.Error, "delete %s", path)
	}

	if result.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, path)
	}

	return nil
}

func toSnapshot(doc *models.Document) (*Snapshot, error) {
	var body map[string]any

	if err := json.Unmarshal(doc.Data, &body); err != nil {
		return nil, errors.Wrapf(err, "decode %s", doc.Path)
	}

	return &Snapshot{
		Path:      doc.Path,
		Data:      body,
		Raw:       []byte(doc.Data),
		UpdatedAt: doc.UpdatedAt,
	}, nil
}
