package client

// http_client.go talks to the CourseHub HTTP API.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"coursehub/internal/microservices/http-api/dto"
	"coursehub/internal/microservices/http-api/models"
	"coursehub/internal/progress"
)

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("request failed: %d %s", e.StatusCode, e.Message)
}

func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// do sends body as JSON and decodes a 2xx response into out when out is
// not nil.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Auth

func (c *HTTPClient) Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	var out dto.RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Revoke(ctx context.Context, refreshToken string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/revoke", dto.RefreshTokenRequest{RefreshToken: refreshToken}, nil)
}

func (c *HTTPClient) Me(ctx context.Context) (*dto.UserResponse, error) {
	var out dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Courses

func (c *HTTPClient) ListCourses(ctx context.Context, query url.Values) (*dto.CourseListResponse, error) {
	path := "/api/courses"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	var out dto.CourseListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetCourse(ctx context.Context, courseID string) (*models.Course, error) {
	var out models.Course
	if err := c.do(ctx, http.MethodGet, "/api/courses/"+url.PathEscape(courseID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Enroll(ctx context.Context, courseID string) error {
	return c.do(ctx, http.MethodPost, "/api/courses/"+url.PathEscape(courseID)+"/enroll", nil, nil)
}

func (c *HTTPClient) Leave(ctx context.Context, courseID string) error {
	return c.do(ctx, http.MethodPost, "/api/courses/"+url.PathEscape(courseID)+"/leave", nil, nil)
}

// Progress and notes

func progressPath(courseID string, rest ...string) string {
	parts := []string{"/api/course-progress", url.PathEscape(courseID)}
	for _, r := range rest {
		parts = append(parts, url.PathEscape(r))
	}
	return strings.Join(parts, "/")
}

func (c *HTTPClient) InitProgress(ctx context.Context, courseID string) (*dto.ProgressRecordResponse, error) {
	var out dto.ProgressRecordResponse
	if err := c.do(ctx, http.MethodPost, "/api/course-progress/initialize/"+url.PathEscape(courseID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetProgress(ctx context.Context, courseID string) (*progress.Report, error) {
	var out progress.Report
	if err := c.do(ctx, http.MethodGet, progressPath(courseID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateLesson(ctx context.Context, courseID, lessonID string, req dto.UpdateLessonProgressRequest) (*dto.ProgressRecordResponse, error) {
	var out dto.ProgressRecordResponse
	if err := c.do(ctx, http.MethodPatch, progressPath(courseID, "lessons", lessonID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ListNotes(ctx context.Context, courseID, sort string) ([]progress.AnnotatedNote, error) {
	path := progressPath(courseID, "notes")
	if sort != "" {
		path += "?sort=" + url.QueryEscape(sort)
	}
	var out dto.NotesResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Notes, nil
}

func (c *HTTPClient) AddNote(ctx context.Context, courseID, lessonID string, req dto.AddNoteRequest) (*progress.Note, error) {
	var out progress.Note
	if err := c.do(ctx, http.MethodPost, progressPath(courseID, "lessons", lessonID, "notes"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) EditNote(ctx context.Context, courseID, lessonID, noteID string, req dto.EditNoteRequest) (*progress.Note, error) {
	var out progress.Note
	if err := c.do(ctx, http.MethodPut, progressPath(courseID, "lessons", lessonID, "notes", noteID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteNote(ctx context.Context, courseID, lessonID, noteID string) error {
	return c.do(ctx, http.MethodDelete, progressPath(courseID, "lessons", lessonID, "notes", noteID), nil, nil)
}
