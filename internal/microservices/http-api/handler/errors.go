package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"coursehub/internal/logger"
	"coursehub/internal/microservices/http-api/middleware"
	"coursehub/internal/microservices/http-api/repository"
	"coursehub/internal/microservices/http-api/service"
	"coursehub/internal/progress"

	"github.com/gin-gonic/gin"
)

const defaultTimeout = 5 * time.Second

var statusByError = []struct {
	status int
	errs   []error
}{
	{http.StatusNotFound, []error{
		service.ErrUserNotFound, service.ErrCourseNotFound, service.ErrNoCoursesMatch,
		service.ErrProgressNotFound, service.ErrNotEnrolled, service.ErrReviewNotFound,
		progress.ErrLessonNotFound, progress.ErrNoteNotFound, repository.ErrNotFound,
	}},
	{http.StatusConflict, []error{
		service.ErrProgressExists, service.ErrProgressConflict, service.ErrAlreadyEnrolled,
		service.ErrAllCoursesOwned, service.ErrNameInUse, service.ErrEmailInUse,
	}},
	{http.StatusBadRequest, []error{
		service.ErrValidation, service.ErrNoValidCourses,
		progress.ErrInvalidSeconds, progress.ErrEmptyNoteText, progress.ErrInvalidNoteOrder,
	}},
	{http.StatusForbidden, []error{
		service.ErrForbidden, service.ErrOwnCourse, service.ErrReviewNeedsEnroll,
	}},
	{http.StatusUnauthorized, []error{
		service.ErrInvalidCredentials, service.ErrInvalidRefresh, service.ErrExpiredRefresh,
		service.ErrInvalidToken,
	}},
}

func statusFor(err error) int {
	for _, group := range statusByError {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return group.status
			}
		}
	}
	return http.StatusInternalServerError
}

// respondError writes {"error": msg}. Unclassified errors are logged and
// answered with a generic message.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("request_failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"request_id", c.GetString(middleware.ContextRequestID),
			"error", err.Error(),
		)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// currentUserID reads the user set by AuthMiddleware and answers 401 when
// there is none.
func currentUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return "", false
	}
	return userID, true
}

func requestContext(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}
