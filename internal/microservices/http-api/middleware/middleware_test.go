package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coursehub/internal/logger"
	"coursehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockValidator struct {
	mock.Mock
}

func (m *MockValidator) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func whoami(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"userID":   c.GetString(ContextUserID),
		"username": c.GetString(ContextUsername),
		"role":     c.GetString(ContextRole),
	})
}

func get(router *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	v := new(MockValidator)
	v.On("ValidateToken", "good").Return(&service.Claims{UserID: "u1", Username: "alice", Role: "student"}, nil)
	v.On("ValidateToken", "bad").Return(nil, service.ErrInvalidToken)

	router := setupRouter()
	router.GET("/me", AuthMiddleware(v), whoami)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"no token", "Bearer", http.StatusUnauthorized},
		{"invalid token", "Bearer bad", http.StatusUnauthorized},
		{"valid", "Bearer good", http.StatusOK},
		{"lowercase scheme", "bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(router, "/me", tt.header)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.JSONEq(t, `{"userID":"u1","username":"alice","role":"student"}`, w.Body.String())
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	v := new(MockValidator)
	v.On("ValidateToken", "good").Return(&service.Claims{UserID: "u1", Role: "student"}, nil)
	v.On("ValidateToken", "bad").Return(nil, errors.New("expired"))

	router := setupRouter()
	router.GET("/quote", OptionalAuth(v), whoami)

	w := get(router, "/quote", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userID":""`)

	w = get(router, "/quote", "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userID":"u1"`)

	w = get(router, "/quote", "Bearer bad")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	router := setupRouter()
	withRole := func(role string) gin.HandlerFunc {
		return func(c *gin.Context) {
			if role != "" {
				c.Set(ContextRole, role)
			}
			c.Next()
		}
	}
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	router.GET("/student", withRole("student"), RequireRole("instructor", "admin"), ok)
	router.GET("/instructor", withRole("instructor"), RequireRole("instructor", "admin"), ok)
	router.GET("/none", withRole(""), RequireRole("instructor"), ok)
	router.GET("/admin", withRole("admin"), RequireAdmin(), ok)

	assert.Equal(t, http.StatusForbidden, get(router, "/student", "").Code)
	assert.Equal(t, http.StatusNoContent, get(router, "/instructor", "").Code)
	assert.Equal(t, http.StatusForbidden, get(router, "/none", "").Code)
	assert.Equal(t, http.StatusNoContent, get(router, "/admin", "").Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	router := setupRouter()
	router.GET("/", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, get(router, "/", "").Code)
	assert.Equal(t, http.StatusOK, get(router, "/", "").Code)
	w := get(router, "/", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestRateLimiter_SweepForgetsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	rl.limiter("10.0.0.1")
	clock = clock.Add(time.Minute)
	rl.limiter("10.0.0.2")

	clock = clock.Add(150 * time.Second)
	rl.Sweep()

	assert.NotContains(t, rl.visitors, "10.0.0.1")
	assert.Contains(t, rl.visitors, "10.0.0.2")
}

func TestRequestID(t *testing.T) {
	router := setupRouter()
	router.Use(RequestID(), RequestLogger(logger.Nop()))
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestID)) })

	w := get(router, "/", "")
	generated := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestCORS_Preflight(t *testing.T) {
	router := setupRouter()
	router.Use(CORS([]string{"http://localhost:5173"}))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req, _ = http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCORS_NoOriginsDeniesPreflight(t *testing.T) {
	for _, origins := range [][]string{nil, {""}, {"  "}} {
		var mw gin.HandlerFunc
		require.NotPanics(t, func() { mw = CORS(origins) })

		router := setupRouter()
		router.Use(mw)
		router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		req, _ := http.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", "GET")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

		req, _ = http.NewRequest(http.MethodGet, "/", nil)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
