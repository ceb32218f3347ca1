package router

import (
	"net/http"

	"coursehub/internal/logger"
	"coursehub/internal/microservices/http-api/handler"
	"coursehub/internal/microservices/http-api/middleware"
	"coursehub/internal/microservices/http-api/models"

	"github.com/gin-gonic/gin"
)

type Config struct {
	Log            *logger.Logger
	CORSOrigins    []string
	RateLimiter    *middleware.RateLimiter
	TokenValidator middleware.TokenValidator

	AuthHandler       *handler.AuthHandler
	CourseHandler     *handler.CourseHandler
	EnrollmentHandler *handler.EnrollmentHandler
	ReviewHandler     *handler.ReviewHandler
	CartHandler       *handler.CartHandler
	ProgressHandler   *handler.ProgressHandler
	WishlistHandler   *handler.WishlistHandler
}

func New(cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(cfg.Log))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Middleware())
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	requireAuth := middleware.AuthMiddleware(cfg.TokenValidator)
	api := r.Group("/api")

	// ===============
	// || Public    ||
	// ===============
	cfg.AuthHandler.RegisterRoutes(api.Group("/auth"))

	courses := api.Group("/courses")
	courses.GET("", cfg.CourseHandler.List)
	courses.GET("/ratings-stats", cfg.CourseHandler.RatingStats)
	courses.GET("/:courseId", cfg.CourseHandler.Get)
	courses.GET("/:courseId/cart-info", cfg.CourseHandler.CartInfo)
	courses.GET("/:courseId/reviews", cfg.ReviewHandler.List)

	api.POST("/cart/quote", middleware.OptionalAuth(cfg.TokenValidator), cfg.CartHandler.Quote)

	// ===============
	// || Protected ||
	// ===============
	users := api.Group("/users", requireAuth)
	users.GET("/me", cfg.AuthHandler.Me)
	users.GET("/me/courses", cfg.EnrollmentHandler.MyCourses)
	users.GET("/me/wishlist", cfg.WishlistHandler.List)
	users.POST("/me/wishlist/:courseId", cfg.WishlistHandler.Toggle)

	authed := courses.Group("", requireAuth)
	authed.POST("", middleware.RequireRole(models.RoleInstructor, models.RoleAdmin), cfg.CourseHandler.Create)
	authed.PUT("/:courseId", cfg.CourseHandler.Update)
	authed.DELETE("/:courseId", cfg.CourseHandler.Deactivate)
	authed.POST("/:courseId/reactivate", cfg.CourseHandler.Reactivate)
	authed.POST("/enroll", cfg.EnrollmentHandler.EnrollMany)
	authed.POST("/:courseId/enroll", cfg.EnrollmentHandler.Enroll)
	authed.POST("/:courseId/leave", cfg.EnrollmentHandler.Leave)
	authed.POST("/:courseId/reviews", cfg.ReviewHandler.Upsert)
	authed.DELETE("/:courseId/reviews", cfg.ReviewHandler.Delete)

	cfg.ProgressHandler.RegisterRoutes(api.Group("/course-progress", requireAuth))

	return r
}
