package handler

import (
	"net/http"
	"time"

	"coursehub/internal/logger"
	"coursehub/internal/microservices/http-api/dto"
	"coursehub/internal/microservices/http-api/middleware"
	"coursehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	courseService service.CourseService
	log           *logger.Logger
	timeout       time.Duration
}

func NewCourseHandler(courseService service.CourseService, log *logger.Logger, timeout time.Duration) *CourseHandler {
	return &CourseHandler{courseService: courseService, log: log, timeout: timeout}
}

// List is the catalog search: GET /api/courses
func (h *CourseHandler) List(c *gin.Context) {
	var q dto.CourseQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	page, err := h.courseService.List(ctx, q)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *CourseHandler) Get(c *gin.Context) {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	course, err := h.courseService.Get(ctx, c.Param("courseId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) CartInfo(c *gin.Context) {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	info, err := h.courseService.CartInfo(ctx, c.Param("courseId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *CourseHandler) RatingStats(c *gin.Context) {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	stats, err := h.courseService.RatingStats(ctx, c.Query("search"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *CourseHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	course, err := h.courseService.Create(ctx, userID, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

// Deactivate hides the course; only its instructor or an admin may do it.
func (h *CourseHandler) Deactivate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	role := c.GetString(middleware.ContextRole)
	if err := h.courseService.Deactivate(ctx, userID, role, c.Param("courseId")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "course deactivated"})
}

// Reactivate puts a deactivated course back in the catalog.
func (h *CourseHandler) Reactivate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	role := c.GetString(middleware.ContextRole)
	course, err := h.courseService.Reactivate(ctx, userID, role, c.Param("courseId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	role := c.GetString(middleware.ContextRole)
	course, err := h.courseService.Update(ctx, userID, role, c.Param("courseId"), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, course)
}
