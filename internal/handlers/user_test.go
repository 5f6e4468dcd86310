package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"task_tracker/internal/apperrors"
	"task_tracker/internal/models"
	"task_tracker/internal/service"
)

func postJSON(r http.Handler, path, body string, header http.Header) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestUserHandlers_Register(t *testing.T) {
	auth := &mockAuth{registerUser: &models.User{ID: 1, Username: "alice", Email: "alice@example.com", FullName: "Alice", PasswordHash: "secret-hash"}}
	r := newTestRouter(&service.Service{Authorization: auth})

	w := postJSON(r, "/api/v1/user", `{"username":"alice","email":"alice@example.com","full_name":"Alice","password":"s3cr3t"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("register status=%d, body=%s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "secret-hash") || strings.Contains(w.Body.String(), "password") {
		t.Fatalf("password material leaked: %s", w.Body.String())
	}
	var resp struct {
		Success bool        `json:"success"`
		Data    models.User `json:"data"`
		Message string      `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Success || resp.Data.Username != "alice" || resp.Message != msgUserRegistered {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if auth.lastRegister.Password != "s3cr3t" {
		t.Errorf("service got %+v", auth.lastRegister)
	}
}

func TestUserHandlers_RegisterValidation(t *testing.T) {
	auth := &mockAuth{}
	r := newTestRouter(&service.Service{Authorization: auth})

	w := postJSON(r, "/api/v1/user", `{"username":"al","email":"nope","full_name":"Al"}`, nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d (body=%s)", w.Code, w.Body.String())
	}
	out := decodeError(t, w)
	if out.Type != "ValidationError" || out.Message != apperrors.ValidationMessage {
		t.Fatalf("unexpected envelope: %+v", out)
	}
	want := []string{
		"`username` must have at least 3 characters",
		"`email` value is not a valid email address",
		"`password` field required",
	}
	if len(out.Errors) != len(want) {
		t.Fatalf("errors: got %v, want %v", out.Errors, want)
	}
	for i := range want {
		if out.Errors[i] != want[i] {
			t.Errorf("errors[%d]: got %q, want %q", i, out.Errors[i], want[i])
		}
	}

	w = postJSON(r, "/api/v1/user", `{"username":`, nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for broken json, got %d", w.Code)
	}
	if out := decodeError(t, w); len(out.Errors) != 1 || out.Errors[0] != "`body` is not valid JSON" {
		t.Fatalf("unexpected errors: %v", out.Errors)
	}
}

func TestUserHandlers_RegisterRejectsColonInUsername(t *testing.T) {
	auth := &mockAuth{}
	r := newTestRouter(&service.Service{Authorization: auth})

	w := postJSON(r, "/api/v1/user", `{"username":"al:ice","email":"alice@example.com","full_name":"Alice","password":"s3cr3t"}`, nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d (body=%s)", w.Code, w.Body.String())
	}
	if out := decodeError(t, w); len(out.Errors) != 1 || out.Errors[0] != "`username` must not contain ':'" {
		t.Fatalf("unexpected errors: %v", out.Errors)
	}
	if auth.lastRegister.Username != "" {
		t.Fatal("service must not be called for an invalid username")
	}
}

func TestUserHandlers_RegisterDuplicate(t *testing.T) {
	auth := &mockAuth{registerErr: apperrors.New(apperrors.CodeUserAlreadyExists, "User with username: `alice` already exists")}
	r := newTestRouter(&service.Service{Authorization: auth})

	w := postJSON(r, "/api/v1/user", `{"username":"alice","email":"alice@example.com","full_name":"Alice","password":"s3cr3t"}`, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	if out := decodeError(t, w); out.Type != "UserAlreadyExists" {
		t.Fatalf("unexpected envelope: %+v", out)
	}
}

func TestUserHandlers_Login(t *testing.T) {
	auth := &mockAuth{token: "tok123"}
	r := newTestRouter(&service.Service{Authorization: auth})

	w := postJSON(r, "/api/v1/user/login", `{"username":"alice","password":"s3cr3t"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login status=%d, body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Data    models.UserToken `json:"data"`
		Message string           `json:"message"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.Token != "tok123" || resp.Message != msgUserAuthenticated {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}
	if auth.lastTokenUser != "alice" || auth.lastTokenPass != "s3cr3t" {
		t.Errorf("service got %q/%q", auth.lastTokenUser, auth.lastTokenPass)
	}

	auth.tokenErr = apperrors.New(apperrors.CodeInvalidCredentials, "Invalid credentials")
	w = postJSON(r, "/api/v1/user/login", `{"username":"alice","password":"nope"}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestUserHandlers_GetUser(t *testing.T) {
	guard := &mockGuard{user: &models.User{ID: 3, Username: "alice"}}
	r := newTestRouter(&service.Service{Guard: guard})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/user", nil)
	req.Header = basicHeader("alice", "s3cr3t")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Data models.User `json:"data"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.ID != 3 {
		t.Fatalf("unexpected user: %+v", resp.Data)
	}
}
