package repository

import (
	"context"
	"database/sql"
	"errors"

	"task_tracker/internal/models"
)

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("duplicate key")

// Store is the generic CRUD contract shared by all entity stores.
// T is the record, C the create shape and U the partial update shape.
// Lookups of absent ids return (nil, nil).
type Store[T, C, U any] interface {
	Get(ctx context.Context, id int) (*T, error)
	List(ctx context.Context, skip, limit int) ([]T, error)
	Create(ctx context.Context, in C) (*T, error)
	Update(ctx context.Context, current T, upd U) (*T, error)
	Delete(ctx context.Context, id int) (*T, error)
}

// UserRepo is the credential store.
type UserRepo interface {
	Store[models.User, models.NewUser, models.UserUpdate]
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// TaskRepo is the task store. Owner scoping is always explicit.
type TaskRepo interface {
	Store[models.Task, models.NewTask, models.TaskUpdate]
	ListByOwner(ctx context.Context, ownerID, skip, limit int) ([]models.Task, error)
	DeleteManyByOwner(ctx context.Context, ids []int, ownerID int) ([]int, error)
}

type Repository struct {
	Users UserRepo
	Tasks TaskRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users: NewUserSQLite(db),
		Tasks: NewTaskSQLite(db),
	}
}
