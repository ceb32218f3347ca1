package handler

import (
	"net/http"
	"time"

	"coursehub/internal/logger"
	"coursehub/internal/microservices/http-api/dto"
	"coursehub/internal/microservices/http-api/service"
	"coursehub/internal/progress"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	progressService service.ProgressService
	log             *logger.Logger
	timeout         time.Duration
}

func NewProgressHandler(progressService service.ProgressService, log *logger.Logger, timeout time.Duration) *ProgressHandler {
	return &ProgressHandler{progressService: progressService, log: log, timeout: timeout}
}

// RegisterRoutes registers the progress and notes routes. rg must already
// require authentication.
func (h *ProgressHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/initialize/:courseId", h.Initialize)
	rg.GET("/:courseId", h.Get)
	rg.PATCH("/:courseId/lessons/:lessonId", h.UpdateLesson)
	rg.GET("/:courseId/notes", h.ListNotes)
	rg.POST("/:courseId/lessons/:lessonId/notes", h.AddNote)
	rg.PUT("/:courseId/lessons/:lessonId/notes/:noteId", h.EditNote)
	rg.DELETE("/:courseId/lessons/:lessonId/notes/:noteId", h.DeleteNote)
}

func (h *ProgressHandler) Initialize(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	rec, err := h.progressService.Initialize(ctx, userID, c.Param("courseId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToProgressRecordResponse(rec))
}

func (h *ProgressHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	report, err := h.progressService.GetCourseProgress(ctx, userID, c.Param("courseId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ProgressHandler) UpdateLesson(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateLessonProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	rec, err := h.progressService.UpdateLesson(ctx, userID, c.Param("courseId"), c.Param("lessonId"), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToProgressRecordResponse(rec))
}

func (h *ProgressHandler) ListNotes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	order, err := progress.ParseNoteOrder(c.Query("sort"))
	if err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	notes, err := h.progressService.ListNotes(ctx, userID, c.Param("courseId"), order)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NotesResponse{Notes: notes})
}

func (h *ProgressHandler) AddNote(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	note, err := h.progressService.AddNote(ctx, userID, c.Param("courseId"), c.Param("lessonId"), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (h *ProgressHandler) EditNote(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.EditNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	note, err := h.progressService.EditNote(ctx, userID, c.Param("courseId"), c.Param("lessonId"), c.Param("noteId"), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *ProgressHandler) DeleteNote(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.progressService.DeleteNote(ctx, userID, c.Param("courseId"), c.Param("lessonId"), c.Param("noteId")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}
