package progress

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// NoteOrder selects how FlattenNotes sorts its output.
type NoteOrder string

const (
	// OrderLesson keeps course order: section, then lesson, then seconds.
	OrderLesson NoteOrder = "lesson"
	// OrderRecent puts the most recently updated note first.
	OrderRecent NoteOrder = "recent"
)

var ErrInvalidNoteOrder = errors.New("sort must be one of: lesson, recent")

// ParseNoteOrder maps a query value to a NoteOrder. Empty means OrderLesson.
func ParseNoteOrder(s string) (NoteOrder, error) {
	switch NoteOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", OrderLesson:
		return OrderLesson, nil
	case OrderRecent:
		return OrderRecent, nil
	default:
		return "", ErrInvalidNoteOrder
	}
}

// AnnotatedNote is a note together with where it lives in the course.
type AnnotatedNote struct {
	NoteID       string    `json:"noteId"`
	Seconds      int       `json:"seconds"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	LessonID     string    `json:"lessonId"`
	LessonTitle  string    `json:"lessonTitle"`
	LessonIndex  int       `json:"lessonIndex"`
	SectionID    string    `json:"sectionId"`
	SectionTitle string    `json:"sectionTitle"`
	SectionIndex int       `json:"sectionIndex"`
}

// FlattenNotes lists every note in s. LessonIndex is the lesson's position
// inside its section.
func FlattenNotes(s Sections, cat Catalog, order NoteOrder) []AnnotatedNote {
	out := []AnnotatedNote{}
	for si, sec := range s {
		sectionTitle := cat.Sections[sec.SectionID].Title
		for li, l := range sec.Lessons {
			lessonTitle := cat.Lessons[l.LessonID].Title
			for _, n := range l.Notes {
				out = append(out, AnnotatedNote{
					NoteID:       n.ID,
					Seconds:      n.Seconds,
					Text:         n.Text,
					CreatedAt:    n.CreatedAt,
					UpdatedAt:    n.UpdatedAt,
					LessonID:     l.LessonID,
					LessonTitle:  lessonTitle,
					LessonIndex:  li,
					SectionID:    sec.SectionID,
					SectionTitle: sectionTitle,
					SectionIndex: si,
				})
			}
		}
	}

	switch order {
	case OrderRecent:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i], out[j]
			if a.SectionIndex != b.SectionIndex {
				return a.SectionIndex < b.SectionIndex
			}
			if a.LessonIndex != b.LessonIndex {
				return a.LessonIndex < b.LessonIndex
			}
			return a.Seconds < b.Seconds
		})
	}
	return out
}
