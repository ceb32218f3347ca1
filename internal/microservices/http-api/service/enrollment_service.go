package service

import (
	"context"
	"errors"

	"coursehub/internal/microservices/http-api/dto"
	"coursehub/internal/microservices/http-api/models"
	"coursehub/internal/microservices/http-api/repository"
	"coursehub/internal/progress"
)

type EnrollmentService interface {
	Enroll(ctx context.Context, userID, courseID string) (*models.Enrollment, error)
	EnrollMany(ctx context.Context, userID string, courseIDs []string) (*dto.BulkEnrollResponse, error)
	Leave(ctx context.Context, userID, courseID string) error
	MyCourses(ctx context.Context, userID string) ([]dto.EnrolledCourse, error)
}

type enrollmentService struct {
	enrollmentRepo repository.EnrollmentRepository
	courseRepo     repository.CourseRepository
	progressRepo   repository.ProgressRepository
	cache          repository.ProgressCache
}

func NewEnrollmentService(
	enrollmentRepo repository.EnrollmentRepository,
	courseRepo repository.CourseRepository,
	progressRepo repository.ProgressRepository,
	cache repository.ProgressCache,
) EnrollmentService {
	return &enrollmentService{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		progressRepo:   progressRepo,
		cache:          cache,
	}
}

// Enroll joins the user to the course and creates its progress record.
func (s *enrollmentService) Enroll(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
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
	if course.InstructorID == userID {
		return nil, ErrOwnCourse
	}

	enrolled, err := s.enrollmentRepo.Exists(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, ErrAlreadyEnrolled
	}

	return s.enroll(ctx, userID, course)
}

func (s *enrollmentService) enroll(ctx context.Context, userID string, course *models.Course) (*models.Enrollment, error) {
	e := &models.Enrollment{UserID: userID, CourseID: course.ID}
	if err := s.enrollmentRepo.Enroll(ctx, e, NewProgressRecord(userID, course)); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}
	s.cache.Invalidate(ctx, userID, course.ID)
	return e, nil
}

// EnrollMany enrolls in every requested course the user can join. Unknown
// ids, courses already owned and the user's own courses are reported, not
// treated as errors, unless nothing could be enrolled.
func (s *enrollmentService) EnrollMany(ctx context.Context, userID string, courseIDs []string) (*dto.BulkEnrollResponse, error) {
	ids := dedupe(courseIDs)
	courses, err := s.courseRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, ErrNoValidCourses
	}

	owned, err := s.enrollmentRepo.OwnedAmong(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	found := make(map[string]bool, len(courses))
	for _, c := range courses {
		found[c.ID] = true
	}

	resp := &dto.BulkEnrollResponse{Enrolled: []string{}, AlreadyEnrolled: []string{}, Missing: []string{}}
	for _, id := range ids {
		switch {
		case !found[id]:
			resp.Missing = append(resp.Missing, id)
			continue
		case owned[id]:
			resp.AlreadyEnrolled = append(resp.AlreadyEnrolled, id)
			continue
		}

		course, err := s.courseRepo.GetWithContent(ctx, id)
		if err != nil {
			return nil, err
		}
		if course.InstructorID == userID {
			resp.AlreadyEnrolled = append(resp.AlreadyEnrolled, id)
			continue
		}
		if _, err := s.enroll(ctx, userID, course); err != nil {
			if errors.Is(err, ErrAlreadyEnrolled) {
				resp.AlreadyEnrolled = append(resp.AlreadyEnrolled, id)
				continue
			}
			return nil, err
		}
		resp.Enrolled = append(resp.Enrolled, id)
	}

	if len(resp.Enrolled) == 0 {
		return nil, ErrAllCoursesOwned
	}
	return resp, nil
}

func (s *enrollmentService) Leave(ctx context.Context, userID, courseID string) error {
	if err := s.enrollmentRepo.Leave(ctx, userID, courseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotEnrolled
		}
		return err
	}
	s.cache.Invalidate(ctx, userID, courseID)
	return nil
}

// MyCourses lists enrollments with the completion summary of each.
func (s *enrollmentService) MyCourses(ctx context.Context, userID string) ([]dto.EnrolledCourse, error) {
	enrollments, err := s.enrollmentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	records, err := s.progressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make(map[string]progress.Summary, len(records))
	for _, rec := range records {
		summaries[rec.CourseID] = progress.Summarize(rec.Sections.Data())
	}

	out := make([]dto.EnrolledCourse, 0, len(enrollments))
	for _, e := range enrollments {
		if e.Course == nil {
			continue
		}
		sum := summaries[e.CourseID]
		out = append(out, dto.EnrolledCourse{
			Course:              *e.Course,
			EnrolledAt:          e.EnrolledAt,
			TotalLessons:        sum.TotalLessons,
			CompletedLessons:    sum.CompletedLessons,
			PercentageCompleted: sum.PercentageCompleted,
		})
	}
	return out, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
