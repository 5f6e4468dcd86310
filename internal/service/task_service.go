package service

import (
	"context"
	"fmt"
	"strings"

	"task_tracker/internal/apperrors"
	"task_tracker/internal/models"
	"task_tracker/internal/repository"
)

type TaskService struct {
	tasks        repository.TaskRepo
	defaultLimit int
	maxLimit     int
}

func NewTaskService(tasks repository.TaskRepo, defaultLimit, maxLimit int) *TaskService {
	return &TaskService{tasks: tasks, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// pageLimit applies the default for non-positive limits and caps the rest.
func (s *TaskService) pageLimit(limit int) int {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if s.maxLimit > 0 && limit > s.maxLimit {
		limit = s.maxLimit
	}
	return limit
}

// ListByOwner returns one page of the owner's tasks in id order.
func (s *TaskService) ListByOwner(ctx context.Context, ownerID, skip, limit int) ([]models.Task, error) {
	if skip < 0 {
		return nil, apperrors.Validation(apperrors.ValidationMessage, "`skip` must be greater than or equal to 0")
	}
	return s.tasks.ListByOwner(ctx, ownerID, skip, s.pageLimit(limit))
}

// Create stores a new, not yet done task for ownerID.
func (s *TaskService) Create(ctx context.Context, in models.TaskCreate, ownerID int) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperrors.Validation(apperrors.ValidationMessage, "`title` must not be blank")
	}
	return s.tasks.Create(ctx, models.NewTask{Title: title, OwnerID: ownerID})
}

// Update applies the fields present in upd to task.
func (s *TaskService) Update(ctx context.Context, task models.Task, upd models.TaskUpdate) (*models.Task, error) {
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return nil, apperrors.Validation(apperrors.ValidationMessage, "`title` must not be blank")
		}
		upd.Title = &title
	}
	updated, err := s.tasks.Update(ctx, task, upd)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, taskNotFound(task.ID)
	}
	return updated, nil
}

// Delete removes the task and returns it as it was.
func (s *TaskService) Delete(ctx context.Context, taskID int) (*models.Task, error) {
	deleted, err := s.tasks.Delete(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if deleted == nil {
		return nil, taskNotFound(taskID)
	}
	return deleted, nil
}

// DeleteManyByOwner removes the owner's tasks among ids and returns the ids
// that were actually deleted. Ids of other owners or of missing tasks are
// left out of the result rather than reported as errors.
func (s *TaskService) DeleteManyByOwner(ctx context.Context, ids []int, ownerID int) ([]int, error) {
	return s.tasks.DeleteManyByOwner(ctx, ids, ownerID)
}

func taskNotFound(id int) error {
	return apperrors.New(apperrors.CodeTaskNotFound, fmt.Sprintf("Task with id `%d` not found", id))
}
