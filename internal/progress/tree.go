// Package progress holds the per-user course progress tree: sections of
// lessons, each lesson carrying completion, playback position and notes.
//
// The tree is a plain value that is loaded, mutated through typed
// operations (see ops.go) and saved back as one document. Lookups go
// through an index built when the tree is wrapped, so finding a lesson
// does not walk every section.
package progress

import (
	"errors"
	"time"
)

var (
	ErrLessonNotFound = errors.New("lesson not found in progress data")
	ErrNoteNotFound   = errors.New("note not found")
	ErrInvalidSeconds = errors.New("seconds must not be negative")
	ErrEmptyNoteText  = errors.New("note text must not be empty")
)

// Note is a timestamped annotation on a lesson video.
type Note struct {
	ID        string    `json:"id"`
	Seconds   int       `json:"seconds"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LessonProgress is the leaf of the tree.
type LessonProgress struct {
	LessonID    string `json:"lessonId"`
	Completed   bool   `json:"completed"`
	LastWatched int    `json:"lastWatched"`
	Notes       []Note `json:"notes"`
}

type SectionProgress struct {
	SectionID string           `json:"sectionId"`
	Lessons   []LessonProgress `json:"lessons"`
}

// Sections is the persisted form of the tree.
type Sections []SectionProgress

// SectionShape describes one course section at enrollment time.
type SectionShape struct {
	SectionID string
	LessonIDs []string
}

// NewSections builds a zeroed tree with the given course shape.
func NewSections(shape []SectionShape) Sections {
	sections := make(Sections, 0, len(shape))
	for _, sec := range shape {
		lessons := make([]LessonProgress, 0, len(sec.LessonIDs))
		for _, id := range sec.LessonIDs {
			lessons = append(lessons, LessonProgress{
				LessonID: id,
				Notes:    []Note{},
			})
		}
		sections = append(sections, SectionProgress{
			SectionID: sec.SectionID,
			Lessons:   lessons,
		})
	}
	return sections
}

type leafRef struct {
	section int
	lesson  int
}

// Tree wraps Sections with a lessonID index. The section and lesson
// slices are fixed after initialization, so the index stays valid for
// the lifetime of the Tree; only notes and leaf fields change.
type Tree struct {
	sections Sections
	index    map[string]leafRef
}

// NewTree indexes s. If a lesson id appears twice, the first one wins.
func NewTree(s Sections) *Tree {
	t := &Tree{
		sections: s,
		index:    make(map[string]leafRef),
	}
	for si := range s {
		for li := range s[si].Lessons {
			id := s[si].Lessons[li].LessonID
			if _, dup := t.index[id]; dup {
				continue
			}
			t.index[id] = leafRef{section: si, lesson: li}
		}
	}
	return t
}

// Sections returns the underlying tree, in display order.
func (t *Tree) Sections() Sections {
	return t.sections
}

// Lesson returns the leaf for lessonID.
func (t *Tree) Lesson(lessonID string) (*LessonProgress, error) {
	ref, ok := t.index[lessonID]
	if !ok {
		return nil, ErrLessonNotFound
	}
	return &t.sections[ref.section].Lessons[ref.lesson], nil
}

// Note returns the note noteID on lessonID.
func (t *Tree) Note(lessonID, noteID string) (*Note, error) {
	lesson, err := t.Lesson(lessonID)
	if err != nil {
		return nil, err
	}
	i := lesson.noteIndex(noteID)
	if i < 0 {
		return nil, ErrNoteNotFound
	}
	return &lesson.Notes[i], nil
}

func (l *LessonProgress) noteIndex(noteID string) int {
	for i := range l.Notes {
		if l.Notes[i].ID == noteID {
			return i
		}
	}
	return -1
}
