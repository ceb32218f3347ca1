package service

import (
	"context"
	"errors"

	"coursehub/internal/microservices/http-api/dto"
	"coursehub/internal/microservices/http-api/models"
	"coursehub/internal/microservices/http-api/repository"
)

type ReviewService interface {
	Upsert(ctx context.Context, userID, courseID string, req dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, userID, courseID string) error
	List(ctx context.Context, courseID string, page, pageSize int) (*dto.PaginatedReviewResponse, error)
}

type reviewService struct {
	reviewRepo     repository.ReviewRepository
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
) ReviewService {
	return &reviewService{
		reviewRepo:     reviewRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

// Upsert creates or replaces the caller's review. Only enrolled users may review.
func (s *reviewService) Upsert(ctx context.Context, userID, courseID string, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, validationError("rating must be between 1 and 5")
	}
	if err := s.ensureCourse(ctx, courseID); err != nil {
		return nil, err
	}
	enrolled, err := s.enrollmentRepo.Exists(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, ErrReviewNeedsEnroll
	}

	review := &models.Review{
		UserID:   userID,
		CourseID: courseID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}
	if err := s.reviewRepo.Upsert(ctx, review); err != nil {
		return nil, err
	}

	// reload with user data
	saved, err := s.reviewRepo.GetByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(saved), nil
}

func (s *reviewService) Delete(ctx context.Context, userID, courseID string) error {
	if err := s.reviewRepo.Delete(ctx, userID, courseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	return nil
}

func (s *reviewService) List(ctx context.Context, courseID string, page, pageSize int) (*dto.PaginatedReviewResponse, error) {
	if page < 1 {
		page = dto.DefaultPage
	}
	if pageSize < 1 {
		pageSize = dto.DefaultLimit
	}
	if err := s.ensureCourse(ctx, courseID); err != nil {
		return nil, err
	}
	reviews, total, err := s.reviewRepo.ListByCourse(ctx, courseID, page, pageSize)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		data = append(data, *dto.FromModelToReviewResponse(&reviews[i]))
	}
	return dto.NewPaginatedReviewResponse(data, total, page, pageSize), nil
}

func (s *reviewService) ensureCourse(ctx context.Context, courseID string) error {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCourseNotFound
		}
		return err
	}
	return nil
}
