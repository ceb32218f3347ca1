package dto

import (
	"time"

	"coursehub/internal/microservices/http-api/models"
	"coursehub/internal/progress"
)

// DTOs for the course progress and notes endpoints

// UpdateLessonProgressRequest used for PATCH .../lessons/:lessonId.
// Omitted fields are left unchanged.
type UpdateLessonProgressRequest struct {
	Completed   *bool `json:"completed"`
	LastWatched *int  `json:"lastWatched"`
}

func (r UpdateLessonProgressRequest) Empty() bool {
	return r.Completed == nil && r.LastWatched == nil
}

type AddNoteRequest struct {
	Seconds *int   `json:"seconds" binding:"required"`
	Text    string `json:"text" binding:"required"`
}

// EditNoteRequest used for PUT .../notes/:noteId; omitted fields are kept.
type EditNoteRequest struct {
	Text    *string `json:"text"`
	Seconds *int    `json:"seconds"`
}

func (r EditNoteRequest) Empty() bool {
	return r.Text == nil && r.Seconds == nil
}

// ProgressRecordResponse is the stored record as returned by write endpoints.
type ProgressRecordResponse struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	CourseID  string            `json:"courseId"`
	Sections  progress.Sections `json:"sections"`
	Version   int64             `json:"version"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

func FromModelToProgressRecordResponse(rec *models.ProgressRecord) *ProgressRecordResponse {
	return &ProgressRecordResponse{
		ID:        rec.ID,
		UserID:    rec.UserID,
		CourseID:  rec.CourseID,
		Sections:  rec.Sections.Data(),
		Version:   rec.Version,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

type NotesResponse struct {
	Notes []progress.AnnotatedNote `json:"notes"`
}
