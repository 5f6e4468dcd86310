package handlers

import (
	"context"
	"encoding/base64"
	"net/http"

	"task_tracker/internal/models"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerUser *models.User
	registerErr  error
	token        string
	tokenErr     error
	parseID      int
	parseErr     error

	lastRegister   models.UserCreate
	lastTokenUser  string
	lastTokenPass  string
	lastParseToken string
}

func (m *mockAuth) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	return nil, nil
}
func (m *mockAuth) Register(ctx context.Context, in models.UserCreate) (*models.User, error) {
	m.lastRegister = in
	return m.registerUser, m.registerErr
}
func (m *mockAuth) IssueToken(ctx context.Context, username, password string) (string, error) {
	m.lastTokenUser = username
	m.lastTokenPass = password
	return m.token, m.tokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}
func (m *mockAuth) CheckActive(u models.User) bool {
	return u.IsActive()
}

type mockGuard struct {
	user      *models.User
	userErr   error
	activeErr error
	task      *models.Task
	taskErr   error

	lastCreds  service.Credentials
	lastToken  string
	lastTaskID int
}

func (m *mockGuard) CurrentUser(ctx context.Context, creds service.Credentials) (*models.User, error) {
	m.lastCreds = creds
	return m.user, m.userErr
}
func (m *mockGuard) CurrentUserFromToken(ctx context.Context, token string) (*models.User, error) {
	m.lastToken = token
	return m.user, m.userErr
}
func (m *mockGuard) CurrentActiveUser(u *models.User) (*models.User, error) {
	return u, m.activeErr
}
func (m *mockGuard) CurrentTask(ctx context.Context, taskID int, u *models.User) (*models.Task, error) {
	m.lastTaskID = taskID
	return m.task, m.taskErr
}

type mockTasks struct {
	list       []models.Task
	listErr    error
	task       *models.Task
	taskErr    error
	deleted    []int
	deletedErr error

	lastOwner  int
	lastSkip   int
	lastLimit  int
	lastCreate models.TaskCreate
	lastUpdate models.TaskUpdate
	lastIDs    []int
	listCalls  int
}

func (m *mockTasks) ListByOwner(ctx context.Context, ownerID, skip, limit int) ([]models.Task, error) {
	m.listCalls++
	m.lastOwner, m.lastSkip, m.lastLimit = ownerID, skip, limit
	return m.list, m.listErr
}
func (m *mockTasks) Create(ctx context.Context, in models.TaskCreate, ownerID int) (*models.Task, error) {
	m.lastCreate, m.lastOwner = in, ownerID
	return m.task, m.taskErr
}
func (m *mockTasks) Update(ctx context.Context, task models.Task, upd models.TaskUpdate) (*models.Task, error) {
	m.lastUpdate = upd
	return m.task, m.taskErr
}
func (m *mockTasks) Delete(ctx context.Context, taskID int) (*models.Task, error) {
	return m.task, m.taskErr
}
func (m *mockTasks) DeleteManyByOwner(ctx context.Context, ids []int, ownerID int) ([]int, error) {
	m.lastIDs, m.lastOwner = ids, ownerID
	return m.deleted, m.deletedErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, Options{Title: "Tasks API", Version: "1.0.0"})
	return h.InitRoutes()
}

func basicHeader(username, password string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(username+":"+password)))
	return h
}

func bearerHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
