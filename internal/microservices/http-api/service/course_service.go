package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"coursehub/internal/microservices/http-api/dto"
	"coursehub/internal/microservices/http-api/models"
	"coursehub/internal/microservices/http-api/repository"

	"github.com/google/uuid"
)

type CourseService interface {
	List(ctx context.Context, q dto.CourseQuery) (*dto.CourseListResponse, error)
	Get(ctx context.Context, courseID string) (*models.Course, error)
	CartInfo(ctx context.Context, courseID string) (*dto.CartInfoResponse, error)
	RatingStats(ctx context.Context, search string) (*dto.RatingStatsResponse, error)
	Create(ctx context.Context, instructorID string, req dto.CreateCourseRequest) (*models.Course, error)
	// Deactivate hides a course from the catalog. Only its instructor or
	// an admin may do so.
	Deactivate(ctx context.Context, userID, role, courseID string) error
	Reactivate(ctx context.Context, userID, role, courseID string) (*models.Course, error)
	// Update edits course metadata. Totals are recounted from the stored
	// content; sections and lessons are not editable since progress trees
	// reference their ids.
	Update(ctx context.Context, userID, role, courseID string, req dto.UpdateCourseRequest) (*models.Course, error)
}

type courseService struct {
	courseRepo repository.CourseRepository
}

func NewCourseService(courseRepo repository.CourseRepository) CourseService {
	return &courseService{courseRepo: courseRepo}
}

func (s *courseService) List(ctx context.Context, q dto.CourseQuery) (*dto.CourseListResponse, error) {
	f := q.ToFilter()
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return nil, validationError("minPrice must not exceed maxPrice")
	}
	courses, total, err := s.courseRepo.Search(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, ErrNoCoursesMatch
	}
	return dto.NewCourseListResponse(courses, total, f.Page, f.Limit), nil
}

func (s *courseService) Get(ctx context.Context, courseID string) (*models.Course, error) {
	course, err := s.courseRepo.GetWithContent(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if !course.IsActive {
		return nil, ErrCourseNotFound
	}
	return course, nil
}

func (s *courseService) CartInfo(ctx context.Context, courseID string) (*dto.CartInfoResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if !course.IsActive {
		return nil, ErrCourseNotFound
	}
	return dto.FromModelToCartInfo(course), nil
}

func (s *courseService) RatingStats(ctx context.Context, search string) (*dto.RatingStatsResponse, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return nil, validationError("please provide a search term")
	}
	stats, err := s.courseRepo.RatingStats(ctx, search)
	if err != nil {
		return nil, err
	}
	return &dto.RatingStatsResponse{SearchTerm: search, RatingBreakdown: stats}, nil
}

func (s *courseService) Create(ctx context.Context, instructorID string, req dto.CreateCourseRequest) (*models.Course, error) {
	if req.DiscountPrice > req.FullPrice {
		return nil, validationError("discountPrice must not exceed fullPrice")
	}
	course := req.ToModel(instructorID, slugify(req.Title))
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *courseService) Deactivate(ctx context.Context, userID, role, courseID string) error {
	if _, err := s.managed(ctx, userID, role, courseID); err != nil {
		return err
	}
	return s.courseRepo.SetActive(ctx, courseID, false)
}

func (s *courseService) Reactivate(ctx context.Context, userID, role, courseID string) (*models.Course, error) {
	course, err := s.managed(ctx, userID, role, courseID)
	if err != nil {
		return nil, err
	}
	if err := s.courseRepo.SetActive(ctx, courseID, true); err != nil {
		return nil, err
	}
	course.IsActive = true
	return course, nil
}

func (s *courseService) Update(ctx context.Context, userID, role, courseID string, req dto.UpdateCourseRequest) (*models.Course, error) {
	if req.Empty() {
		return nil, validationError("no fields to update")
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, validationError("title must not be empty")
	}
	if req.Category != nil && strings.TrimSpace(*req.Category) == "" {
		return nil, validationError("category must not be empty")
	}
	course, err := s.managed(ctx, userID, role, courseID)
	if err != nil {
		return nil, err
	}
	req.Apply(course)
	if course.FullPrice < 0 || course.DiscountPrice < 0 {
		return nil, validationError("prices must not be negative")
	}
	if course.DiscountPrice > course.FullPrice {
		return nil, validationError("discountPrice must not exceed fullPrice")
	}
	course.Recount()
	if err := s.courseRepo.UpdateDetails(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// managed loads a course with its content for a caller who must be its
// instructor or an admin. Inactive courses are included.
func (s *courseService) managed(ctx context.Context, userID, role, courseID string) (*models.Course, error) {
	course, err := s.courseRepo.GetWithContent(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if course.InstructorID != userID && role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	return course, nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// slugify derives a URL slug from title with a short random suffix so two
// courses with the same title do not collide.
func slugify(title string) string {
	base := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if base == "" {
		base = "course"
	}
	if len(base) > 180 {
		base = strings.TrimRight(base[:180], "-")
	}
	return base + "-" + uuid.NewString()[:8]
}
