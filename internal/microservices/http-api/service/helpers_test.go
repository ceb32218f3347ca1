package service

import (
	"context"
	"sync"

	"coursehub/internal/microservices/http-api/models"
	"coursehub/internal/microservices/http-api/repository"
	"coursehub/internal/progress"
)

// memCache is an in-process ProgressCache that records invalidations.
type memCache struct {
	mu          sync.Mutex
	entries     map[string]*progress.Report
	invalidated []string
}

func newMemCache() *memCache {
	return &memCache{entries: map[string]*progress.Report{}}
}

func (c *memCache) Get(_ context.Context, userID, courseID string) (*progress.Report, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[userID+"/"+courseID]
	return r, ok
}

func (c *memCache) Set(_ context.Context, userID, courseID string, report *progress.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID+"/"+courseID] = report
}

func (c *memCache) Invalidate(_ context.Context, userID, courseID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID+"/"+courseID)
	c.invalidated = append(c.invalidated, userID+"/"+courseID)
}

// racingProgressRepo loses the version race for the first `losses` saves.
// Before each lost save it lets a competing writer bump the stored version.
type racingProgressRepo struct {
	repository.ProgressRepository
	losses int
	saves  int
	rival  func(rec *models.ProgressRecord)
}

func (r *racingProgressRepo) SaveSections(ctx context.Context, rec *models.ProgressRecord, sections progress.Sections) error {
	r.saves++
	if r.saves <= r.losses {
		if r.rival != nil {
			r.rival(rec)
		}
		return repository.ErrVersionConflict
	}
	return r.ProgressRepository.SaveSections(ctx, rec, sections)
}

// hookedCourseRepo runs before once, on the next GetWithContent call.
type hookedCourseRepo struct {
	repository.CourseRepository
	before func()
}

func (r *hookedCourseRepo) GetWithContent(ctx context.Context, id string) (*models.Course, error) {
	if hook := r.before; hook != nil {
		r.before = nil
		hook()
	}
	return r.CourseRepository.GetWithContent(ctx, id)
}
