package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Course levels accepted by the catalog.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
	LevelAll          = "all"
)

type Course struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid"`
	Slug          string    `json:"slug" gorm:"uniqueIndex;size:200;not null"`
	Title         string    `json:"title" gorm:"not null"`
	Subtitle      string    `json:"subtitle"`
	Description   string    `json:"description"`
	Category      string    `json:"category" gorm:"index"`
	Level         string    `json:"level" gorm:"default:'all'"`
	Language      string    `json:"language" gorm:"default:'English'"`
	InstructorID  string    `json:"instructorId" gorm:"type:uuid;not null;index"`
	FullPrice     float64   `json:"fullPrice" gorm:"not null;default:0"`
	DiscountPrice float64   `json:"discountPrice" gorm:"not null;default:0"`
	AverageRating float64   `json:"averageRating" gorm:"not null;default:0"`
	TotalRatings  int       `json:"totalRatings" gorm:"not null;default:0"`
	TotalDuration int       `json:"totalDuration" gorm:"not null;default:0"`
	TotalLessons  int       `json:"totalLessons" gorm:"not null;default:0"`
	TotalSections int       `json:"totalSections" gorm:"not null;default:0"`
	TotalStudents int       `json:"totalStudents" gorm:"not null;default:0"`
	ImageURL      string    `json:"imageUrl"`
	IsActive      bool      `json:"isActive" gorm:"not null;default:true;index"`
	CreatedAt     time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	// association
	Instructor *User     `json:"instructor,omitempty" gorm:"foreignKey:InstructorID"`
	Sections   []Section `json:"sections,omitempty" gorm:"constraint:OnDelete:CASCADE;"`
}

type Section struct {
	ID       string   `json:"id" gorm:"primaryKey;type:uuid"`
	CourseID string   `json:"courseId" gorm:"type:uuid;not null;index"`
	Title    string   `json:"title" gorm:"not null"`
	Position int      `json:"position" gorm:"not null;default:0"`
	Lessons  []Lesson `json:"lessons,omitempty" gorm:"constraint:OnDelete:CASCADE;"`
}

type Lesson struct {
	ID        string `json:"id" gorm:"primaryKey;type:uuid"`
	SectionID string `json:"sectionId" gorm:"type:uuid;not null;index"`
	Title     string `json:"title" gorm:"not null"`
	Duration  int    `json:"duration" gorm:"not null;default:0"`
	VideoURL  string `json:"videoUrl"`
	Position  int    `json:"position" gorm:"not null;default:0"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

func (s *Section) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return
}

func (l *Lesson) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return
}

// Recount derives the section, lesson and duration totals from the loaded
// content tree.
func (c *Course) Recount() {
	c.TotalSections = len(c.Sections)
	c.TotalLessons = 0
	c.TotalDuration = 0
	for _, s := range c.Sections {
		c.TotalLessons += len(s.Lessons)
		for _, l := range s.Lessons {
			c.TotalDuration += l.Duration
		}
	}
}

func (Course) TableName() string {
	return "courses"
}

func (Section) TableName() string {
	return "course_sections"
}

func (Lesson) TableName() string {
	return "course_lessons"
}
