package dto

import (
	"coursehub/internal/microservices/http-api/models"
	"coursehub/internal/microservices/http-api/repository"
)

// CourseQuery binds GET /api/courses query parameters.
type CourseQuery struct {
	Search    string   `form:"search"`
	Category  string   `form:"category"`
	Level     string   `form:"level" binding:"omitempty,oneof=beginner intermediate advanced all"`
	MinPrice  *float64 `form:"minPrice" binding:"omitempty,min=0"`
	MaxPrice  *float64 `form:"maxPrice" binding:"omitempty,min=0"`
	MinRating *float64 `form:"minRating" binding:"omitempty,min=0,max=5"`
	Sort      string   `form:"sort" binding:"omitempty,oneof=newest price -price rating popular"`
	Page      int      `form:"page" binding:"omitempty,min=1"`
	Limit     int      `form:"limit" binding:"omitempty,min=1,max=100"`
}

const (
	DefaultPage  = 1
	DefaultLimit = 20
)

// ToFilter applies defaults and converts to a repository filter.
func (q CourseQuery) ToFilter() repository.CourseFilter {
	f := repository.CourseFilter{
		Search:    q.Search,
		Category:  q.Category,
		Level:     q.Level,
		MinPrice:  q.MinPrice,
		MaxPrice:  q.MaxPrice,
		MinRating: q.MinRating,
		Sort:      q.Sort,
		Page:      q.Page,
		Limit:     q.Limit,
	}
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	return f
}

// CourseListResponse mirrors the catalog page shape clients already consume.
type CourseListResponse struct {
	TotalCourses             int64           `json:"totalCourses"`
	TotalLeftCourses         int64           `json:"totalLeftCourses"`
	CurrentPage              int             `json:"currentPage"`
	TotalPages               int             `json:"totalPages"`
	CurrentPageCoursesAmount int             `json:"currentPageCoursesAmount"`
	Courses                  []models.Course `json:"courses"`
}

// NewCourseListResponse computes page metadata for one page of results.
func NewCourseListResponse(courses []models.Course, total int64, page, limit int) *CourseListResponse {
	passed := int64((page - 1) * limit)
	left := total - passed
	if left < 0 {
		left = 0
	}
	totalPages := int(total / int64(limit))
	if total%int64(limit) != 0 {
		totalPages++
	}
	return &CourseListResponse{
		TotalCourses:             total,
		TotalLeftCourses:         left,
		CurrentPage:              page,
		TotalPages:               totalPages,
		CurrentPageCoursesAmount: len(courses),
		Courses:                  courses,
	}
}

// CartInfoResponse is the slice of a course the cart needs.
type CartInfoResponse struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	ImageURL      string  `json:"imageUrl"`
	FullPrice     float64 `json:"fullPrice"`
	DiscountPrice float64 `json:"discountPrice"`
	AverageRating float64 `json:"averageRating"`
	TotalRatings  int     `json:"totalRatings"`
	TotalDuration int     `json:"totalDuration"`
	TotalLessons  int     `json:"totalLessons"`
	Level         string  `json:"level"`
}

func FromModelToCartInfo(c *models.Course) *CartInfoResponse {
	return &CartInfoResponse{
		ID:            c.ID,
		Title:         c.Title,
		ImageURL:      c.ImageURL,
		FullPrice:     c.FullPrice,
		DiscountPrice: c.DiscountPrice,
		AverageRating: c.AverageRating,
		TotalRatings:  c.TotalRatings,
		TotalDuration: c.TotalDuration,
		TotalLessons:  c.TotalLessons,
		Level:         c.Level,
	}
}

type RatingStatsResponse struct {
	SearchTerm      string                  `json:"searchTerm"`
	RatingBreakdown []repository.RatingStat `json:"ratingBreakdown"`
}

// CreateCourseRequest used for POST /api/courses
type CreateCourseRequest struct {
	Title         string                 `json:"title" binding:"required,max=200"`
	Subtitle      string                 `json:"subtitle"`
	Description   string                 `json:"description"`
	Category      string                 `json:"category" binding:"required"`
	Level         string                 `json:"level" binding:"omitempty,oneof=beginner intermediate advanced all"`
	Language      string                 `json:"language"`
	FullPrice     float64                `json:"fullPrice" binding:"min=0"`
	DiscountPrice float64                `json:"discountPrice" binding:"min=0"`
	ImageURL      string                 `json:"imageUrl"`
	Sections      []CreateSectionRequest `json:"sections" binding:"dive"`
}

type CreateSectionRequest struct {
	Title   string                `json:"title" binding:"required"`
	Lessons []CreateLessonRequest `json:"lessons" binding:"dive"`
}

type CreateLessonRequest struct {
	Title    string `json:"title" binding:"required"`
	Duration int    `json:"duration" binding:"min=0"`
	VideoURL string `json:"videoUrl"`
}

// ToModel builds the course tree; positions follow request order and the
// totals are derived from the content.
func (d CreateCourseRequest) ToModel(instructorID, slug string) *models.Course {
	c := &models.Course{
		Slug:          slug,
		Title:         d.Title,
		Subtitle:      d.Subtitle,
		Description:   d.Description,
		Category:      d.Category,
		Level:         d.Level,
		Language:      d.Language,
		InstructorID:  instructorID,
		FullPrice:     d.FullPrice,
		DiscountPrice: d.DiscountPrice,
		ImageURL:      d.ImageURL,
		IsActive:      true,
	}
	if c.Level == "" {
		c.Level = models.LevelAll
	}
	for si, s := range d.Sections {
		sec := models.Section{Title: s.Title, Position: si}
		for li, l := range s.Lessons {
			sec.Lessons = append(sec.Lessons, models.Lesson{
				Title:    l.Title,
				Duration: l.Duration,
				VideoURL: l.VideoURL,
				Position: li,
			})
		}
		c.Sections = append(c.Sections, sec)
	}
	c.Recount()
	return c
}

// UpdateCourseRequest used for PUT /api/courses/:courseId. Nil fields are
// left unchanged; the section tree is not editable here.
type UpdateCourseRequest struct {
	Title         *string  `json:"title" binding:"omitempty,max=200"`
	Subtitle      *string  `json:"subtitle"`
	Description   *string  `json:"description"`
	Category      *string  `json:"category"`
	Level         *string  `json:"level" binding:"omitempty,oneof=beginner intermediate advanced all"`
	Language      *string  `json:"language"`
	FullPrice     *float64 `json:"fullPrice" binding:"omitempty,min=0"`
	DiscountPrice *float64 `json:"discountPrice" binding:"omitempty,min=0"`
	ImageURL      *string  `json:"imageUrl"`
}

func (d UpdateCourseRequest) Empty() bool {
	return d.Title == nil && d.Subtitle == nil && d.Description == nil &&
		d.Category == nil && d.Level == nil && d.Language == nil &&
		d.FullPrice == nil && d.DiscountPrice == nil && d.ImageURL == nil
}

// Apply copies the set fields onto c.
func (d UpdateCourseRequest) Apply(c *models.Course) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&c.Title, d.Title)
	set(&c.Subtitle, d.Subtitle)
	set(&c.Description, d.Description)
	set(&c.Category, d.Category)
	set(&c.Level, d.Level)
	set(&c.Language, d.Language)
	set(&c.ImageURL, d.ImageURL)
	if d.FullPrice != nil {
		c.FullPrice = *d.FullPrice
	}
	if d.DiscountPrice != nil {
		c.DiscountPrice = *d.DiscountPrice
	}
}
