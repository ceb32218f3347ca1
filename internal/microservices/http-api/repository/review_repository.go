package repository

import (
	"context"

	"coursehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository interface {
	// Upsert creates the user's review of a course or replaces its rating
	// and comment, then refreshes the course's rating summary.
	Upsert(ctx context.Context, review *models.Review) error
	// Delete removes the user's review and refreshes the rating summary.
	Delete(ctx context.Context, userID, courseID string) error
	GetByUserAndCourse(ctx context.Context, userID, courseID string) (*models.Review, error)
	ListByCourse(ctx context.Context, courseID string, page, pageSize int) ([]models.Review, int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Upsert(ctx context.Context, review *models.Review) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
		}).Create(review).Error; err != nil {
			return err
		}
		return refreshRatingSummary(tx, review.CourseID)
	})
	return classify("upsert review", err)
}

func (r *reviewRepository) Delete(ctx context.Context, userID, courseID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND course_id = ?", userID, courseID).Delete(&models.Review{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return refreshRatingSummary(tx, courseID)
	})
	return classify("delete review", err)
}

func (r *reviewRepository) GetByUserAndCourse(ctx context.Context, userID, courseID string) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&review).Error
	if err != nil {
		return nil, classify("get review", err)
	}
	return &review, nil
}

// ListByCourse returns one page of reviews, newest first.
func (r *reviewRepository) ListByCourse(ctx context.Context, courseID string, page, pageSize int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Review{}).Where("course_id = ?", courseID).Count(&total).Error; err != nil {
		return nil, 0, classify("count reviews", err)
	}

	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Preload("User").
		Order("created_at DESC").
		Order("id DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, classify("list reviews", err)
	}
	return reviews, total, nil
}

// refreshRatingSummary recomputes average_rating and total_ratings from
// the reviews table.
func refreshRatingSummary(tx *gorm.DB, courseID string) error {
	var agg struct {
		Average float64
		Total   int64
	}
	if err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS total").
		Where("course_id = ?", courseID).
		Scan(&agg).Error; err != nil {
		return err
	}
	return tx.Model(&models.Course{}).Where("id = ?", courseID).Updates(map[string]any{
		"average_rating": agg.Average,
		"total_ratings":  agg.Total,
	}).Error
}
