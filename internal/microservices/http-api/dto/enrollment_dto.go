package dto

import (
	"time"

	"coursehub/internal/microservices/http-api/models"
)

// BulkEnrollRequest used for POST /api/courses/enroll
type BulkEnrollRequest struct {
	Courses []string `json:"courses" binding:"required,min=1"`
}

type BulkEnrollResponse struct {
	Enrolled        []string `json:"enrolled"`
	AlreadyEnrolled []string `json:"alreadyEnrolled"`
	Missing         []string `json:"missing"`
}

type EnrollmentResponse struct {
	CourseID   string    `json:"courseId"`
	EnrolledAt time.Time `json:"enrolledAt"`
}

func FromModelToEnrollmentResponse(e *models.Enrollment) *EnrollmentResponse {
	return &EnrollmentResponse{CourseID: e.CourseID, EnrolledAt: e.EnrolledAt}
}

// EnrolledCourse is one row of GET /api/users/me/courses.
type EnrolledCourse struct {
	Course              models.Course `json:"course"`
	EnrolledAt          time.Time     `json:"enrolledAt"`
	TotalLessons        int           `json:"totalLessons"`
	CompletedLessons    int           `json:"completedLessons"`
	PercentageCompleted float64       `json:"percentageCompleted"`
}
