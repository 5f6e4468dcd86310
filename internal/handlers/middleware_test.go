package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"task_tracker/internal/apperrors"
	"task_tracker/internal/models"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// minimal router wiring only the guards + a protected endpoint
func newMiddlewareOnlyRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(s, nil, Options{})
	r.GET("/secure", h.currentUser, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": userFrom(c).ID})
	})
	r.POST("/active", h.currentUser, h.currentActiveUser, func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/tasks/:id", h.currentUser, h.currentTask, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"task_id": taskFrom(c).ID})
	})
	return r
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var out errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal error envelope: %v (body=%s)", err, w.Body.String())
	}
	return out
}

func TestCurrentUser_Errors(t *testing.T) {
	cases := []struct {
		name      string
		header    string
		guardErr  error
		wantCode  int
		wantType  string
		challenge bool
	}{
		{
			name:      "missing header",
			wantCode:  http.StatusUnauthorized,
			wantType:  "InvalidCredentials",
			challenge: true,
		},
		{
			name:      "unknown scheme",
			header:    "Token abc",
			wantCode:  http.StatusUnauthorized,
			wantType:  "InvalidCredentials",
			challenge: true,
		},
		{
			name:      "bearer without token",
			header:    "Bearer ",
			wantCode:  http.StatusUnauthorized,
			wantType:  "InvalidCredentials",
			challenge: true,
		},
		{
			name:      "basic not base64",
			header:    "Basic %%%",
			wantCode:  http.StatusUnauthorized,
			wantType:  "InvalidCredentials",
			challenge: true,
		},
		{
			name:     "unknown user",
			header:   basicHeader("mallory", "pw").Get("Authorization"),
			guardErr: apperrors.New(apperrors.CodeUserNotFound, "User with username: `mallory` not found"),
			wantCode: http.StatusUnauthorized,
			wantType: "UserNotFound",
		},
		{
			name:     "wrong password",
			header:   basicHeader("alice", "nope").Get("Authorization"),
			guardErr: apperrors.New(apperrors.CodeInvalidCredentials, "Invalid credentials"),
			wantCode: http.StatusUnauthorized,
			wantType: "InvalidCredentials",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &service.Service{Guard: &mockGuard{userErr: tc.guardErr}}
			r := newMiddlewareOnlyRouter(s)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != tc.wantCode {
				t.Fatalf("status: got %d, want %d (body=%s)", w.Code, tc.wantCode, w.Body.String())
			}
			out := decodeError(t, w)
			if out.Success || out.Status != tc.wantCode || out.Type != tc.wantType {
				t.Fatalf("unexpected envelope: %+v", out)
			}
			if got := w.Header().Get("WWW-Authenticate") != ""; got != tc.challenge {
				t.Fatalf("WWW-Authenticate present=%v, want %v", got, tc.challenge)
			}
		})
	}
}

func TestCurrentUser_BasicAndBearer(t *testing.T) {
	guard := &mockGuard{user: &models.User{ID: 123, Username: "alice"}}
	r := newMiddlewareOnlyRouter(&service.Service{Guard: guard})

	for name, header := range map[string]http.Header{
		"basic":  basicHeader("alice", "s3cr3t"),
		"bearer": bearerHeader("good-token"),
	} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			req.Header = header
			r.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status: got %d; body=%s", w.Code, w.Body.String())
			}
			var resp struct {
				UserID int `json:"user_id"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if resp.UserID != 123 {
				t.Fatalf("unexpected user id %d", resp.UserID)
			}
		})
	}
	if guard.lastCreds != (service.Credentials{Username: "alice", Password: "s3cr3t"}) {
		t.Errorf("CurrentUser got %+v", guard.lastCreds)
	}
	if guard.lastToken != "good-token" {
		t.Errorf("CurrentUserFromToken got %q", guard.lastToken)
	}
}

func TestCurrentActiveUser_Inactive(t *testing.T) {
	guard := &mockGuard{
		user:      &models.User{ID: 1, Disabled: true},
		activeErr: apperrors.New(apperrors.CodeInactiveAccount, "Inactive user"),
	}
	r := newMiddlewareOnlyRouter(&service.Service{Guard: guard})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/active", nil)
	req.Header = basicHeader("bob", "pw")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", w.Code)
	}
	if out := decodeError(t, w); out.Type != "InactiveAccount" || out.Message != "Inactive user" {
		t.Fatalf("unexpected envelope: %+v", out)
	}
}

func TestCurrentTask(t *testing.T) {
	cases := []struct {
		name     string
		path     string
		taskErr  error
		wantCode int
		wantType string
	}{
		{"owned", "/tasks/7", nil, http.StatusOK, ""},
		{"not found", "/tasks/7", apperrors.New(apperrors.CodeTaskNotFound, "Task with id `7` not found"), http.StatusNotFound, "TaskNotFound"},
		{"forbidden", "/tasks/7", apperrors.New(apperrors.CodePermissionDenied, "Not enough permissions"), http.StatusForbidden, "PermissionDenied"},
		{"bad id", "/tasks/abc", nil, http.StatusUnprocessableEntity, "ValidationError"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			guard := &mockGuard{
				user:    &models.User{ID: 1},
				task:    &models.Task{ID: 7, OwnerID: 1},
				taskErr: tc.taskErr,
			}
			r := newMiddlewareOnlyRouter(&service.Service{Guard: guard})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			req.Header = basicHeader("alice", "pw")
			r.ServeHTTP(w, req)

			if w.Code != tc.wantCode {
				t.Fatalf("status: got %d, want %d (body=%s)", w.Code, tc.wantCode, w.Body.String())
			}
			if tc.wantType != "" {
				if out := decodeError(t, w); out.Type != tc.wantType {
					t.Fatalf("type: got %q, want %q", out.Type, tc.wantType)
				}
				return
			}
			if guard.lastTaskID != 7 {
				t.Fatalf("CurrentTask got id %d", guard.lastTaskID)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	r := newTestRouter(&service.Service{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
	if w.Header().Get(headerRequestID) == "" {
		t.Fatal("expected a generated request id")
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	req.Header.Set(headerRequestID, "abc-123")
	r.ServeHTTP(w, req)
	if got := w.Header().Get(headerRequestID); got != "abc-123" {
		t.Fatalf("expected caller request id to be echoed, got %q", got)
	}
}
