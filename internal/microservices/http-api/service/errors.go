package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("invalid request")
	ErrForbidden  = errors.New("forbidden")

	ErrUserNotFound       = errors.New("user not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrNoCoursesMatch     = errors.New("no courses match the query")
	ErrProgressNotFound   = errors.New("course progress not found")
	ErrProgressExists     = errors.New("course progress already initialized")
	ErrProgressConflict   = errors.New("course progress was updated concurrently, retry")
	ErrAlreadyEnrolled    = errors.New("already enrolled in this course")
	ErrNotEnrolled        = errors.New("not enrolled in this course")
	ErrOwnCourse          = errors.New("instructors cannot enroll in their own course")
	ErrNoValidCourses     = errors.New("no valid course ids provided")
	ErrAllCoursesOwned    = errors.New("already enrolled in every requested course")
	ErrReviewNotFound     = errors.New("review not found")
	ErrReviewNeedsEnroll  = errors.New("only enrolled users can review a course")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
	ErrExpiredRefresh     = errors.New("refresh token expired")
	ErrNameInUse          = errors.New("username already in use")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
