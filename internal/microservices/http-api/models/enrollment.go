package models

import "time"

// Enrollment is a user's ownership of a course.
type Enrollment struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_user_course" json:"userId"`
	CourseID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_user_course;index" json:"courseId"`
	EnrolledAt time.Time `gorm:"autoCreateTime" json:"enrolledAt"`

	// Associations
	Course *Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE;" json:"course,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
