package repository

import (
	"context"
	"errors"

	"coursehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type WishlistRepository interface {
	// Toggle removes the course from the user's wishlist when present and
	// adds it otherwise. It reports whether the course is now listed.
	Toggle(ctx context.Context, userID, courseID string) (bool, error)
	Contains(ctx context.Context, userID, courseID string) (bool, error)
	// ListCourses returns the user's wishlisted active courses, newest first.
	ListCourses(ctx context.Context, userID string) ([]models.Course, error)
}

type wishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) Toggle(ctx context.Context, userID, courseID string) (bool, error) {
	added := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND course_id = ?", userID, courseID).Delete(&models.WishlistItem{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}
		added = true
		return tx.Create(&models.WishlistItem{UserID: userID, CourseID: courseID}).Error
	})
	err = classify("toggle wishlist", err)
	if errors.Is(err, ErrDuplicate) {
		// a concurrent toggle added it first
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return added, nil
}

func (r *wishlistRepository) Contains(ctx context.Context, userID, courseID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error; err != nil {
		return false, classify("check wishlist", err)
	}
	return count > 0, nil
}

func (r *wishlistRepository) ListCourses(ctx context.Context, userID string) ([]models.Course, error) {
	var list []models.Course
	err := r.db.WithContext(ctx).
		Joins("JOIN wishlist_items ON wishlist_items.course_id = courses.id").
		Where("wishlist_items.user_id = ? AND courses.is_active = ?", userID, true).
		Order("wishlist_items.added_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, classify("list wishlist", err)
	}
	return list, nil
}
