package service

import (
	"context"
	"errors"

	"coursehub/internal/microservices/http-api/dto"
	"coursehub/internal/microservices/http-api/models"
	"coursehub/internal/microservices/http-api/repository"
)

type WishlistService interface {
	// Toggle adds or removes a course. Inactive courses can only be removed.
	Toggle(ctx context.Context, userID, courseID string) (*dto.WishlistToggleResponse, error)
	List(ctx context.Context, userID string) (*dto.WishlistResponse, error)
}

type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	courseRepo   repository.CourseRepository
}

func NewWishlistService(wishlistRepo repository.WishlistRepository, courseRepo repository.CourseRepository) WishlistService {
	return &wishlistService{wishlistRepo: wishlistRepo, courseRepo: courseRepo}
}

func (s *wishlistService) Toggle(ctx context.Context, userID, courseID string) (*dto.WishlistToggleResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if !course.IsActive {
		listed, err := s.wishlistRepo.Contains(ctx, userID, courseID)
		if err != nil {
			return nil, err
		}
		if !listed {
			return nil, ErrCourseNotFound
		}
	}

	added, err := s.wishlistRepo.Toggle(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	resp := &dto.WishlistToggleResponse{CourseID: courseID, InWishlist: added, Message: "course removed from wishlist"}
	if added {
		resp.Message = "course added to wishlist"
	}
	return resp, nil
}

func (s *wishlistService) List(ctx context.Context, userID string) (*dto.WishlistResponse, error) {
	courses, err := s.wishlistRepo.ListCourses(ctx, userID)
	if err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []models.Course{}
	}
	return &dto.WishlistResponse{Count: len(courses), Courses: courses}, nil
}
