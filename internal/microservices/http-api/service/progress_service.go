package service

import (
	"context"
	"errors"
	"time"

	"coursehub/internal/logger"
	"coursehub/internal/microservices/http-api/dto"
	"coursehub/internal/microservices/http-api/models"
	"coursehub/internal/microservices/http-api/repository"
	"coursehub/internal/progress"

	"gorm.io/datatypes"
)

// maxApplyAttempts bounds how often Apply reloads after losing a version race.
const maxApplyAttempts = 3

type ProgressService interface {
	Initialize(ctx context.Context, userID, courseID string) (*models.ProgressRecord, error)
	UpdateLesson(ctx context.Context, userID, courseID, lessonID string, req dto.UpdateLessonProgressRequest) (*models.ProgressRecord, error)
	GetCourseProgress(ctx context.Context, userID, courseID string) (*progress.Report, error)
	AddNote(ctx context.Context, userID, courseID, lessonID string, req dto.AddNoteRequest) (*progress.Note, error)
	EditNote(ctx context.Context, userID, courseID, lessonID, noteID string, req dto.EditNoteRequest) (*progress.Note, error)
	DeleteNote(ctx context.Context, userID, courseID, lessonID, noteID string) error
	ListNotes(ctx context.Context, userID, courseID string, order progress.NoteOrder) ([]progress.AnnotatedNote, error)
	// Apply loads the record, runs ops on it and saves it with a version
	// check, reloading and re-running ops when another writer got there first.
	Apply(ctx context.Context, userID, courseID string, ops ...progress.Operation) (*models.ProgressRecord, error)
}

type progressService struct {
	progressRepo repository.ProgressRepository
	courseRepo   repository.CourseRepository
	userRepo     repository.UserRepository
	cache        repository.ProgressCache
	log          *logger.Logger
	now          func() time.Time
}

func NewProgressService(
	progressRepo repository.ProgressRepository,
	courseRepo repository.CourseRepository,
	userRepo repository.UserRepository,
	cache repository.ProgressCache,
	log *logger.Logger,
) ProgressService {
	return &progressService{
		progressRepo: progressRepo,
		courseRepo:   courseRepo,
		userRepo:     userRepo,
		cache:        cache,
		log:          log,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *progressService) Initialize(ctx context.Context, userID, courseID string) (*models.ProgressRecord, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	course, err := s.courseRepo.GetWithContent(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	rec := NewProgressRecord(userID, course)
	if err := s.progressRepo.Create(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrProgressExists
		}
		return nil, err
	}
	s.cache.Invalidate(ctx, userID, courseID)
	return rec, nil
}

func (s *progressService) UpdateLesson(ctx context.Context, userID, courseID, lessonID string, req dto.UpdateLessonProgressRequest) (*models.ProgressRecord, error) {
	if req.Empty() {
		return nil, validationError("provide completed or lastWatched")
	}
	ops := make([]progress.Operation, 0, 2)
	if req.Completed != nil {
		ops = append(ops, progress.SetCompleted{LessonID: lessonID, Completed: *req.Completed})
	}
	if req.LastWatched != nil {
		ops = append(ops, progress.SetLastWatched{LessonID: lessonID, Seconds: *req.LastWatched})
	}
	return s.Apply(ctx, userID, courseID, ops...)
}

// GetCourseProgress serves a cached report only when it was built from the
// revision currently stored. A reader that loaded before a concurrent write
// may still store its older report, but it is never served afterwards.
func (s *progressService) GetCourseProgress(ctx context.Context, userID, courseID string) (*progress.Report, error) {
	rev, err := s.progressRepo.Revision(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}
	if report, ok := s.cache.Get(ctx, userID, courseID); ok {
		if report.Progress.ID == rev.ID && report.Progress.Version == rev.Version {
			return report, nil
		}
		s.log.Debug("progress_cache_stale", "user_id", userID, "course_id", courseID,
			"cached_version", report.Progress.Version, "version", rev.Version)
	}

	rec, err := s.load(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalog(ctx, courseID)
	if err != nil {
		return nil, err
	}

	meta := progress.Meta{ID: rec.ID, UserID: rec.UserID, CourseID: rec.CourseID, Version: rec.Version, UpdatedAt: rec.UpdatedAt}
	report := progress.BuildReport(meta, rec.Sections.Data(), catalog)
	s.cache.Set(ctx, userID, courseID, report)
	return report, nil
}

func (s *progressService) AddNote(ctx context.Context, userID, courseID, lessonID string, req dto.AddNoteRequest) (*progress.Note, error) {
	if req.Seconds == nil {
		return nil, validationError("seconds is required")
	}
	op := progress.NewAddNote(lessonID, *req.Seconds, req.Text)
	rec, err := s.Apply(ctx, userID, courseID, op)
	if err != nil {
		return nil, err
	}
	return progress.NewTree(rec.Sections.Data()).Note(lessonID, op.NoteID)
}

func (s *progressService) EditNote(ctx context.Context, userID, courseID, lessonID, noteID string, req dto.EditNoteRequest) (*progress.Note, error) {
	if req.Empty() {
		return nil, validationError("provide text or seconds")
	}
	ops := make([]progress.Operation, 0, 2)
	if req.Text != nil {
		ops = append(ops, progress.EditNoteText{LessonID: lessonID, NoteID: noteID, Text: *req.Text})
	}
	if req.Seconds != nil {
		ops = append(ops, progress.EditNoteSeconds{LessonID: lessonID, NoteID: noteID, Seconds: *req.Seconds})
	}
	rec, err := s.Apply(ctx, userID, courseID, ops...)
	if err != nil {
		return nil, err
	}
	return progress.NewTree(rec.Sections.Data()).Note(lessonID, noteID)
}

func (s *progressService) DeleteNote(ctx context.Context, userID, courseID, lessonID, noteID string) error {
	_, err := s.Apply(ctx, userID, courseID, progress.DeleteNote{LessonID: lessonID, NoteID: noteID})
	return err
}

func (s *progressService) ListNotes(ctx context.Context, userID, courseID string, order progress.NoteOrder) ([]progress.AnnotatedNote, error) {
	rec, err := s.load(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalog(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return progress.FlattenNotes(rec.Sections.Data(), catalog, order), nil
}

func (s *progressService) Apply(ctx context.Context, userID, courseID string, ops ...progress.Operation) (*models.ProgressRecord, error) {
	for attempt := 1; attempt <= maxApplyAttempts; attempt++ {
		rec, err := s.load(ctx, userID, courseID)
		if err != nil {
			return nil, err
		}

		tree := progress.NewTree(rec.Sections.Data())
		if err := progress.Apply(tree, s.now(), ops...); err != nil {
			return nil, err
		}

		err = s.progressRepo.SaveSections(ctx, rec, tree.Sections())
		if err == nil {
			s.cache.Invalidate(ctx, userID, courseID)
			return rec, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, err
		}
		s.log.Debug("progress_version_conflict", "user_id", userID, "course_id", courseID, "attempt", attempt)
	}
	return nil, ErrProgressConflict
}

func (s *progressService) load(ctx context.Context, userID, courseID string) (*models.ProgressRecord, error) {
	rec, err := s.progressRepo.Get(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}
	return rec, nil
}

// catalog returns display data for the course. A course that no longer
// exists yields an empty catalog rather than an error.
func (s *progressService) catalog(ctx context.Context, courseID string) (progress.Catalog, error) {
	course, err := s.courseRepo.GetWithContent(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return progress.Catalog{}, nil
		}
		return progress.Catalog{}, err
	}
	return CatalogOf(course), nil
}

// NewProgressRecord builds a zeroed record shaped like the course content.
func NewProgressRecord(userID string, course *models.Course) *models.ProgressRecord {
	shape := make([]progress.SectionShape, 0, len(course.Sections))
	for _, sec := range course.Sections {
		ids := make([]string, 0, len(sec.Lessons))
		for _, l := range sec.Lessons {
			ids = append(ids, l.ID)
		}
		shape = append(shape, progress.SectionShape{SectionID: sec.ID, LessonIDs: ids})
	}
	return &models.ProgressRecord{
		UserID:   userID,
		CourseID: course.ID,
		Sections: datatypes.NewJSONType(progress.NewSections(shape)),
		Version:  1,
	}
}

// CatalogOf indexes a loaded course's titles for report enrichment.
func CatalogOf(course *models.Course) progress.Catalog {
	cat := progress.Catalog{
		Sections: make(map[string]progress.SectionInfo, len(course.Sections)),
		Lessons:  make(map[string]progress.LessonInfo),
	}
	for _, sec := range course.Sections {
		cat.Sections[sec.ID] = progress.SectionInfo{Title: sec.Title}
		for _, l := range sec.Lessons {
			cat.Lessons[l.ID] = progress.LessonInfo{Title: l.Title, Duration: l.Duration, VideoURL: l.VideoURL}
		}
	}
	return cat
}
