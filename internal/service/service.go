package service

import (
	"context"
	"time"

	"task_tracker/internal/models"
	"task_tracker/internal/repository"
)

// Authorization covers credential checks, registration and tokens.
type Authorization interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	Register(ctx context.Context, in models.UserCreate) (*models.User, error)
	IssueToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
	CheckActive(u models.User) bool
}

// Guard resolves the current user and the current task of a request.
type Guard interface {
	CurrentUser(ctx context.Context, creds Credentials) (*models.User, error)
	CurrentUserFromToken(ctx context.Context, token string) (*models.User, error)
	CurrentActiveUser(u *models.User) (*models.User, error)
	CurrentTask(ctx context.Context, taskID int, u *models.User) (*models.Task, error)
}

// Tasks is owner-scoped task CRUD.
type Tasks interface {
	ListByOwner(ctx context.Context, ownerID, skip, limit int) ([]models.Task, error)
	Create(ctx context.Context, in models.TaskCreate, ownerID int) (*models.Task, error)
	Update(ctx context.Context, task models.Task, upd models.TaskUpdate) (*models.Task, error)
	Delete(ctx context.Context, taskID int) (*models.Task, error)
	DeleteManyByOwner(ctx context.Context, ids []int, ownerID int) ([]int, error)
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Guard
	Tasks
}

// Options carries the tunables the services read from configuration.
type Options struct {
	SecretKey       string
	TokenTTL        time.Duration
	BcryptCost      int
	DefaultPageSize int
	MaxPageSize     int
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, opts Options) *Service {
	auth := NewAuthService(repos.Users, NewBcryptHasher(opts.BcryptCost), opts.SecretKey, opts.TokenTTL)
	return &Service{
		Authorization: auth,
		Guard:         NewGuardService(auth, repos.Users, repos.Tasks),
		Tasks:         NewTaskService(repos.Tasks, opts.DefaultPageSize, opts.MaxPageSize),
	}
}
