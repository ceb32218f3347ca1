package repository

import (
	"context"

	"coursehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository interface {
	// Enroll inserts the enrollment, bumps the course's student count and
	// stores rec in one transaction. An existing progress record for the
	// same pair is kept as is.
	Enroll(ctx context.Context, e *models.Enrollment, rec *models.ProgressRecord) error
	// Leave removes the enrollment and the progress record and decrements
	// the student count. ErrNotFound when the user is not enrolled.
	Leave(ctx context.Context, userID, courseID string) error
	Exists(ctx context.Context, userID, courseID string) (bool, error)
	OwnedAmong(ctx context.Context, userID string, courseIDs []string) (map[string]bool, error)
	ListByUser(ctx context.Context, userID string) ([]models.Enrollment, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Enroll(ctx context.Context, e *models.Enrollment, rec *models.ProgressRecord) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Course{}).
			Where("id = ?", e.CourseID).
			Update("total_students", gorm.Expr("total_students + 1")).Error; err != nil {
			return err
		}
		if rec == nil {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).Create(rec).Error
	})
	return classify("enroll", err)
}

func (r *enrollmentRepository) Leave(ctx context.Context, userID, courseID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND course_id = ?", userID, courseID).Delete(&models.Enrollment{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Model(&models.Course{}).
			Where("id = ? AND total_students > 0", courseID).
			Update("total_students", gorm.Expr("total_students - 1")).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND course_id = ?", userID, courseID).Delete(&models.ProgressRecord{}).Error
	})
	return classify("leave course", err)
}

func (r *enrollmentRepository) Exists(ctx context.Context, userID, courseID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error; err != nil {
		return false, classify("check enrollment", err)
	}
	return count > 0, nil
}

// OwnedAmong reports which of courseIDs the user is enrolled in.
func (r *enrollmentRepository) OwnedAmong(ctx context.Context, userID string, courseIDs []string) (map[string]bool, error) {
	owned := make(map[string]bool)
	courseIDs = validIDs(courseIDs)
	if len(courseIDs) == 0 {
		return owned, nil
	}
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id IN ?", userID, courseIDs).
		Pluck("course_id", &ids).Error; err != nil {
		return nil, classify("owned courses", err)
	}
	for _, id := range ids {
		owned[id] = true
	}
	return owned, nil
}

func (r *enrollmentRepository) ListByUser(ctx context.Context, userID string) ([]models.Enrollment, error) {
	var list []models.Enrollment
	if err := r.db.WithContext(ctx).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("enrolled_at DESC").
		Find(&list).Error; err != nil {
		return nil, classify("list enrollments", err)
	}
	return list, nil
}
