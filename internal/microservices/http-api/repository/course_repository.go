package repository

import (
	"context"
	"fmt"
	"strings"

	"coursehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// Sort keys accepted by CourseFilter.Sort.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price"
	SortPriceDesc = "-price"
	SortRating    = "rating"
	SortPopular   = "popular"
)

// effectivePrice is what a buyer pays: the discount price when one is set.
const effectivePrice = "CASE WHEN discount_price > 0 THEN discount_price ELSE full_price END"

// RatingThresholds are the "N and up" buckets reported by RatingStats.
var RatingThresholds = []float64{4.5, 4, 3.5, 3}

// CourseFilter is the catalog query. Nil pointers mean "no bound".
type CourseFilter struct {
	Search    string
	Category  string
	Level     string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	Sort      string
	Page      int
	Limit     int
}

type RatingStat struct {
	Rating float64 `json:"rating"`
	Count  int64   `json:"count"`
}

type CourseRepository interface {
	Search(ctx context.Context, f CourseFilter) ([]models.Course, int64, error)
	GetByID(ctx context.Context, id string) (*models.Course, error)
	GetWithContent(ctx context.Context, id string) (*models.Course, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Course, error)
	Create(ctx context.Context, c *models.Course) error
	// UpdateDetails saves the editable metadata and content totals of c.
	UpdateDetails(ctx context.Context, c *models.Course) error
	SetActive(ctx context.Context, id string, active bool) error
	RatingStats(ctx context.Context, search string) ([]RatingStat, error)
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

// Search returns one page of active courses and the total match count.
func (r *courseRepository) Search(ctx context.Context, f CourseFilter) ([]models.Course, int64, error) {
	var list []models.Course
	var total int64

	q := r.filtered(r.db.WithContext(ctx).Model(&models.Course{}), f).Session(&gorm.Session{})

	// Count total records
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, classify("count courses", err)
	}

	offset := (f.Page - 1) * f.Limit
	if err := q.Order(orderFor(f.Sort)).
		Order("id").
		Limit(f.Limit).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, classify("search courses", err)
	}
	return list, total, nil
}

// filtered applies every CourseFilter bound except pagination and sort.
// Each search token must appear in title, subtitle or category.
func (r *courseRepository) filtered(db *gorm.DB, f CourseFilter) *gorm.DB {
	db = db.Where("is_active = ?", true)

	if tokens := strings.Fields(strings.ToLower(f.Search)); len(tokens) > 0 {
		clauses := make([]string, 0, len(tokens))
		args := make([]interface{}, 0, len(tokens)*3)
		for _, t := range tokens {
			p := "%" + t + "%"
			clauses = append(clauses, "(LOWER(title) LIKE ? OR LOWER(COALESCE(subtitle,'')) LIKE ? OR LOWER(COALESCE(category,'')) LIKE ?)")
			args = append(args, p, p, p)
		}
		db = db.Where(strings.Join(clauses, " AND "), args...)
	}
	if f.Category != "" {
		db = db.Where("LOWER(category) = ?", strings.ToLower(f.Category))
	}
	if f.Level != "" {
		db = db.Where("level = ?", strings.ToLower(f.Level))
	}
	if f.MinPrice != nil {
		db = db.Where(effectivePrice+" >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		db = db.Where(effectivePrice+" <= ?", *f.MaxPrice)
	}
	if f.MinRating != nil {
		db = db.Where("average_rating >= ?", *f.MinRating)
	}
	return db
}

func orderFor(sort string) string {
	switch sort {
	case SortPriceAsc:
		return effectivePrice + " ASC"
	case SortPriceDesc:
		return effectivePrice + " DESC"
	case SortRating:
		return "average_rating DESC"
	case SortPopular:
		return "total_students DESC"
	default:
		return "created_at DESC"
	}
}

// GetByID loads the course row only.
func (r *courseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	var c models.Course
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, classify("get course", err)
	}
	return &c, nil
}

// GetWithContent loads the course with its sections and lessons in position order.
func (r *courseRepository) GetWithContent(ctx context.Context, id string) (*models.Course, error) {
	var c models.Course
	err := r.db.WithContext(ctx).
		Preload("Sections", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Sections.Lessons", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, classify("get course content", err)
	}
	return &c, nil
}

func (r *courseRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Course, error) {
	var list []models.Course
	ids = validIDs(ids)
	if len(ids) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ? AND is_active = ?", ids, true).Find(&list).Error; err != nil {
		return nil, classify("get courses by ids", err)
	}
	return list, nil
}

// Create inserts the course with its sections and lessons in one transaction.
func (r *courseRepository) Create(ctx context.Context, c *models.Course) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(c).Error
	})
	return classify("create course", err)
}

func (r *courseRepository) UpdateDetails(ctx context.Context, c *models.Course) error {
	result := r.db.WithContext(ctx).Model(&models.Course{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"title":          c.Title,
		"subtitle":       c.Subtitle,
		"description":    c.Description,
		"category":       c.Category,
		"level":          c.Level,
		"language":       c.Language,
		"full_price":     c.FullPrice,
		"discount_price": c.DiscountPrice,
		"image_url":      c.ImageURL,
		"total_sections": c.TotalSections,
		"total_lessons":  c.TotalLessons,
		"total_duration": c.TotalDuration,
	})
	if result.Error != nil {
		return classify("update course", result.Error)
	}
	if result.RowsAffected == 0 {
		return classify("update course", ErrNotFound)
	}
	return nil
}

func (r *courseRepository) SetActive(ctx context.Context, id string, active bool) error {
	result := r.db.WithContext(ctx).Model(&models.Course{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return classify("set course active", result.Error)
	}
	if result.RowsAffected == 0 {
		return classify("set course active", ErrNotFound)
	}
	return nil
}

// RatingStats counts matching active courses whose average rating is at
// least each of RatingThresholds, highest threshold first.
func (r *courseRepository) RatingStats(ctx context.Context, search string) ([]RatingStat, error) {
	selects := make([]string, 0, len(RatingThresholds))
	args := make([]interface{}, 0, len(RatingThresholds))
	for i, th := range RatingThresholds {
		selects = append(selects, fmt.Sprintf("COALESCE(SUM(CASE WHEN average_rating >= ? THEN 1 ELSE 0 END), 0) AS b%d", i))
		args = append(args, th)
	}

	var row struct {
		B0, B1, B2, B3 int64
	}
	q := r.filtered(r.db.WithContext(ctx).Model(&models.Course{}), CourseFilter{Search: search})
	if err := q.Select(strings.Join(selects, ", "), args...).Scan(&row).Error; err != nil {
		return nil, classify("rating stats", err)
	}

	counts := []int64{row.B0, row.B1, row.B2, row.B3}
	stats := make([]RatingStat, 0, len(RatingThresholds))
	for i, th := range RatingThresholds {
		stats = append(stats, RatingStat{Rating: th, Count: counts[i]})
	}
	return stats, nil
}
