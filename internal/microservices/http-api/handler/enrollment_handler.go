package handler

import (
	"net/http"
	"time"

	"coursehub/internal/logger"
	"coursehub/internal/microservices/http-api/dto"
	"coursehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type EnrollmentHandler struct {
	enrollmentService service.EnrollmentService
	log               *logger.Logger
	timeout           time.Duration
}

func NewEnrollmentHandler(enrollmentService service.EnrollmentService, log *logger.Logger, timeout time.Duration) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService, log: log, timeout: timeout}
}

func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	e, err := h.enrollmentService.Enroll(ctx, userID, c.Param("courseId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToEnrollmentResponse(e))
}

func (h *EnrollmentHandler) EnrollMany(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.BulkEnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	resp, err := h.enrollmentService.EnrollMany(ctx, userID, req.Courses)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *EnrollmentHandler) Leave(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.enrollmentService.Leave(ctx, userID, c.Param("courseId")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "left course"})
}

func (h *EnrollmentHandler) MyCourses(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	courses, err := h.enrollmentService.MyCourses(ctx, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}
