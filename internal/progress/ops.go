package progress

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Operation is one mutation of a progress tree. The set is closed:
// only the types in this file implement it.
type Operation interface {
	apply(t *Tree, now time.Time) error
}

// SetCompleted marks a lesson as completed or not completed.
type SetCompleted struct {
	LessonID  string
	Completed bool
}

// SetLastWatched records the playback position of a lesson.
type SetLastWatched struct {
	LessonID string
	Seconds  int
}

// AddNote appends a note to a lesson. Build it with NewAddNote so the
// note id is fixed before the first attempt and survives retries.
type AddNote struct {
	LessonID string
	NoteID   string
	Seconds  int
	Text     string
}

type EditNoteText struct {
	LessonID string
	NoteID   string
	Text     string
}

type EditNoteSeconds struct {
	LessonID string
	NoteID   string
	Seconds  int
}

// DeleteNote removes a note. There is no tombstone.
type DeleteNote struct {
	LessonID string
	NoteID   string
}

// NewAddNote returns an AddNote carrying a freshly generated note id.
func NewAddNote(lessonID string, seconds int, text string) AddNote {
	return AddNote{
		LessonID: lessonID,
		NoteID:   uuid.New().String(),
		Seconds:  seconds,
		Text:     text,
	}
}

// Apply runs ops against t in order and stops at the first error.
// A failed Apply may leave t partially modified; callers must discard
// t instead of persisting it.
func Apply(t *Tree, now time.Time, ops ...Operation) error {
	for _, op := range ops {
		if err := op.apply(t, now); err != nil {
			return err
		}
	}
	return nil
}

func (op SetCompleted) apply(t *Tree, _ time.Time) error {
	lesson, err := t.Lesson(op.LessonID)
	if err != nil {
		return err
	}
	lesson.Completed = op.Completed
	return nil
}

func (op SetLastWatched) apply(t *Tree, _ time.Time) error {
	if op.Seconds < 0 {
		return ErrInvalidSeconds
	}
	lesson, err := t.Lesson(op.LessonID)
	if err != nil {
		return err
	}
	lesson.LastWatched = op.Seconds
	return nil
}

func (op AddNote) apply(t *Tree, now time.Time) error {
	if op.Seconds < 0 {
		return ErrInvalidSeconds
	}
	if strings.TrimSpace(op.Text) == "" {
		return ErrEmptyNoteText
	}
	lesson, err := t.Lesson(op.LessonID)
	if err != nil {
		return err
	}
	lesson.Notes = append(lesson.Notes, Note{
		ID:        op.NoteID,
		Seconds:   op.Seconds,
		Text:      op.Text,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return nil
}

func (op EditNoteText) apply(t *Tree, now time.Time) error {
	if strings.TrimSpace(op.Text) == "" {
		return ErrEmptyNoteText
	}
	note, err := t.Note(op.LessonID, op.NoteID)
	if err != nil {
		return err
	}
	note.Text = op.Text
	note.UpdatedAt = now
	return nil
}

func (op EditNoteSeconds) apply(t *Tree, now time.Time) error {
	if op.Seconds < 0 {
		return ErrInvalidSeconds
	}
	note, err := t.Note(op.LessonID, op.NoteID)
	if err != nil {
		return err
	}
	note.Seconds = op.Seconds
	note.UpdatedAt = now
	return nil
}

func (op DeleteNote) apply(t *Tree, _ time.Time) error {
	lesson, err := t.Lesson(op.LessonID)
	if err != nil {
		return err
	}
	i := lesson.noteIndex(op.NoteID)
	if i < 0 {
		return ErrNoteNotFound
	}
	lesson.Notes = append(lesson.Notes[:i], lesson.Notes[i+1:]...)
	return nil
}
