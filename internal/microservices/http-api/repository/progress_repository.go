package repository

import (
	"context"
	"time"

	"coursehub/internal/microservices/http-api/models"
	"coursehub/internal/progress"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Revision identifies one stored state of a progress record. A record that
// is deleted and created again gets a new ID, so the pair never repeats.
type Revision struct {
	ID      string
	Version int64
}

type ProgressRepository interface {
	Create(ctx context.Context, rec *models.ProgressRecord) error
	Get(ctx context.Context, userID, courseID string) (*models.ProgressRecord, error)
	// Revision reads only the id and version, without the tree.
	Revision(ctx context.Context, userID, courseID string) (Revision, error)
	ListByUser(ctx context.Context, userID string) ([]models.ProgressRecord, error)
	// SaveSections replaces the tree of rec if its version is unchanged
	// in storage, and returns ErrVersionConflict otherwise.
	SaveSections(ctx context.Context, rec *models.ProgressRecord, sections progress.Sections) error
	Delete(ctx context.Context, userID, courseID string) error
}

type progressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Create(ctx context.Context, rec *models.ProgressRecord) error {
	return classify("create progress", r.db.WithContext(ctx).Create(rec).Error)
}

func (r *progressRepository) Get(ctx context.Context, userID, courseID string) (*models.ProgressRecord, error) {
	var rec models.ProgressRecord
	if err := r.db.WithContext(ctx).Where("user_id = ? AND course_id = ?", userID, courseID).First(&rec).Error; err != nil {
		return nil, classify("get progress", err)
	}
	return &rec, nil
}

func (r *progressRepository) Revision(ctx context.Context, userID, courseID string) (Revision, error) {
	var rec models.ProgressRecord
	err := r.db.WithContext(ctx).
		Select("id", "version").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&rec).Error
	if err != nil {
		return Revision{}, classify("get progress revision", err)
	}
	return Revision{ID: rec.ID, Version: rec.Version}, nil
}

func (r *progressRepository) ListByUser(ctx context.Context, userID string) ([]models.ProgressRecord, error) {
	var list []models.ProgressRecord
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&list).Error; err != nil {
		return nil, classify("list progress", err)
	}
	return list, nil
}

func (r *progressRepository) SaveSections(ctx context.Context, rec *models.ProgressRecord, sections progress.Sections) error {
	now := time.Now().UTC()
	doc := datatypes.NewJSONType(sections)

	result := r.db.WithContext(ctx).
		Model(&models.ProgressRecord{}).
		Where("id = ? AND version = ?", rec.ID, rec.Version).
		Updates(map[string]any{
			"sections":   doc,
			"version":    rec.Version + 1,
			"updated_at": now,
		})
	if result.Error != nil {
		return classify("save progress", result.Error)
	}
	if result.RowsAffected == 0 {
		return classify("save progress", ErrVersionConflict)
	}

	rec.Sections = doc
	rec.Version++
	rec.UpdatedAt = now
	return nil
}

func (r *progressRepository) Delete(ctx context.Context, userID, courseID string) error {
	result := r.db.WithContext(ctx).Where("user_id = ? AND course_id = ?", userID, courseID).Delete(&models.ProgressRecord{})
	if result.Error != nil {
		return classify("delete progress", result.Error)
	}
	if result.RowsAffected == 0 {
		return classify("delete progress", ErrNotFound)
	}
	return nil
}
