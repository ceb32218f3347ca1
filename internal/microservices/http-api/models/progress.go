package models

import (
	"time"

	"coursehub/internal/progress"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProgressRecord stores one user's progress tree for one course as a
// single JSON document. Version is bumped on every successful save.
type ProgressRecord struct {
	ID        string                                `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string                                `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_course" json:"userId"`
	CourseID  string                                `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_course" json:"courseId"`
	Sections  datatypes.JSONType[progress.Sections] `gorm:"not null" json:"sections"`
	Version   int64                                 `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time                             `json:"createdAt"`
	UpdatedAt time.Time                             `json:"updatedAt"`
}

func (p *ProgressRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Version == 0 {
		p.Version = 1
	}
	return
}

func (ProgressRecord) TableName() string {
	return "course_progress"
}
