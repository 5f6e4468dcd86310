package service

import (
	"context"
	"fmt"

	"task_tracker/internal/apperrors"
	"task_tracker/internal/models"
	"task_tracker/internal/repository"
)

// Credentials are the basic-auth username and password of one request.
type Credentials struct {
	Username string
	Password string
}

// GuardService resolves the caller and the task a request targets. It keeps
// no state between calls; every request is authenticated from scratch.
type GuardService struct {
	auth  Authorization
	users repository.UserRepo
	tasks repository.TaskRepo
}

func NewGuardService(auth Authorization, users repository.UserRepo, tasks repository.TaskRepo) *GuardService {
	return &GuardService{auth: auth, users: users, tasks: tasks}
}

// CurrentUser authenticates basic credentials.
func (g *GuardService) CurrentUser(ctx context.Context, creds Credentials) (*models.User, error) {
	return g.auth.Authenticate(ctx, creds.Username, creds.Password)
}

// CurrentUserFromToken resolves the user named by a bearer token.
func (g *GuardService) CurrentUserFromToken(ctx context.Context, token string) (*models.User, error) {
	id, err := g.auth.ParseToken(token)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidCredentials, "Invalid or expired token", err)
	}
	u, err := g.users.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load token user %d: %w", id, err)
	}
	if u == nil {
		return nil, apperrors.New(apperrors.CodeUserNotFound, fmt.Sprintf("User with id `%d` not found", id))
	}
	return u, nil
}

// CurrentActiveUser rejects disabled accounts.
func (g *GuardService) CurrentActiveUser(u *models.User) (*models.User, error) {
	if !g.auth.CheckActive(*u) {
		return nil, apperrors.New(apperrors.CodeInactiveAccount, "Inactive user")
	}
	return u, nil
}

// CurrentTask loads the task and checks that u owns it. Existence is checked
// first, so a missing task is reported as not found even to non-owners.
func (g *GuardService) CurrentTask(ctx context.Context, taskID int, u *models.User) (*models.Task, error) {
	task, err := g.tasks.Get(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("load task %d: %w", taskID, err)
	}
	if task == nil {
		return nil, apperrors.New(apperrors.CodeTaskNotFound, fmt.Sprintf("Task with id `%d` not found", taskID))
	}
	if task.OwnerID != u.ID {
		return nil, apperrors.New(apperrors.CodePermissionDenied, "Not enough permissions")
	}
	return task, nil
}
