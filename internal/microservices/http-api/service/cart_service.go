package service

import (
	"context"

	"coursehub/internal/microservices/http-api/repository"
	"coursehub/internal/pricing"
)

type CartService interface {
	// Quote prices courseIDs for userID. An empty userID skips the
	// ownership check.
	Quote(ctx context.Context, userID string, courseIDs []string) (*pricing.Quote, error)
}

type cartService struct {
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
}

func NewCartService(courseRepo repository.CourseRepository, enrollmentRepo repository.EnrollmentRepository) CartService {
	return &cartService{courseRepo: courseRepo, enrollmentRepo: enrollmentRepo}
}

func (s *cartService) Quote(ctx context.Context, userID string, courseIDs []string) (*pricing.Quote, error) {
	ids := dedupe(courseIDs)
	courses, err := s.courseRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	found := make(map[string]pricing.Item, len(courses))
	for _, c := range courses {
		found[c.ID] = pricing.Item{
			CourseID:      c.ID,
			Title:         c.Title,
			FullPrice:     c.FullPrice,
			DiscountPrice: c.DiscountPrice,
		}
	}

	owned := map[string]bool{}
	if userID != "" {
		owned, err = s.enrollmentRepo.OwnedAmong(ctx, userID, ids)
		if err != nil {
			return nil, err
		}
	}
	return pricing.Build(ids, found, owned), nil
}
