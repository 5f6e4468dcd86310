package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"task_tracker/internal/models"
)

const (
	taskColumns = `id, title, done, owner_id`

	insertTaskSQL         = `INSERT INTO tasks (title, done, owner_id) VALUES (?, ?, ?)`
	selectTaskByIDSQL     = `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	listTasksSQL          = `SELECT ` + taskColumns + ` FROM tasks ORDER BY id LIMIT ? OFFSET ?`
	listTasksByOwnerSQL   = `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = ? ORDER BY id LIMIT ? OFFSET ?`
	updateTaskSQL         = `UPDATE tasks SET title = ?, done = ? WHERE id = ?`
	deleteTaskSQL         = `DELETE FROM tasks WHERE id = ? RETURNING ` + taskColumns
	deleteTasksByOwnerSQL = `DELETE FROM tasks WHERE owner_id = ? AND id IN (%s) RETURNING id`

	// maxIDsPerStatement keeps each bulk delete well under SQLite's bound
	// variable limit (999 on older builds).
	maxIDsPerStatement = 500
)

type TaskSQLite struct {
	db *sql.DB
	t  table[models.Task]
}

func NewTaskSQLite(db *sql.DB) *TaskSQLite {
	return &TaskSQLite{
		db: db,
		t: table[models.Task]{
			db:        db,
			name:      "task",
			getSQL:    selectTaskByIDSQL,
			listSQL:   listTasksSQL,
			deleteSQL: deleteTaskSQL,
			scan:      scanTask,
		},
	}
}

// Ensure implementation of TaskRepo interface at compile time.
var _ TaskRepo = (*TaskSQLite)(nil)

func scanTask(row rowScanner) (models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.Title, &t.Done, &t.OwnerID)
	return t, err
}

// Create inserts a task owned by in.OwnerID; new tasks are never done.
func (r *TaskSQLite) Create(ctx context.Context, in models.NewTask) (*models.Task, error) {
	res, err := r.db.ExecContext(ctx, insertTaskSQL, in.Title, false, in.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("insert task for owner %d: %w", in.OwnerID, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id for task: %w", err)
	}
	return &models.Task{ID: int(lastID), Title: in.Title, Done: false, OwnerID: in.OwnerID}, nil
}

func (r *TaskSQLite) Get(ctx context.Context, id int) (*models.Task, error) {
	return r.t.get(ctx, id)
}

// List returns tasks of every owner. Only meant for maintenance paths.
func (r *TaskSQLite) List(ctx context.Context, skip, limit int) ([]models.Task, error) {
	return r.t.list(ctx, skip, limit)
}

// ListByOwner pages through one owner's tasks in id order.
func (r *TaskSQLite) ListByOwner(ctx context.Context, ownerID, skip, limit int) ([]models.Task, error) {
	return r.t.query(ctx, listTasksByOwnerSQL, ownerID, limit, skip)
}

// Update persists current with the fields present in upd merged over it.
// Returns (nil, nil) if the task no longer exists.
func (r *TaskSQLite) Update(ctx context.Context, current models.Task, upd models.TaskUpdate) (*models.Task, error) {
	merged := upd.Apply(current)
	res, err := r.db.ExecContext(ctx, updateTaskSQL, merged.Title, merged.Done, merged.ID)
	if err != nil {
		return nil, fmt.Errorf("update task %d: %w", merged.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected for task %d: %w", merged.ID, err)
	}
	if n == 0 {
		return nil, nil
	}
	return &merged, nil
}

func (r *TaskSQLite) Delete(ctx context.Context, id int) (*models.Task, error) {
	return r.t.delete(ctx, id)
}

// DeleteManyByOwner deletes the requested ids that belong to ownerID and
// returns the ids actually deleted, ascending. Foreign or unknown ids are
// skipped silently. Ids are sent in batches of maxIDsPerStatement inside one
// transaction, so the request size is not bounded by SQLite's variable limit.
func (r *TaskSQLite) DeleteManyByOwner(ctx context.Context, ids []int, ownerID int) ([]int, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []int{}, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin delete tasks for owner %d: %w", ownerID, err)
	}
	defer func() { _ = tx.Rollback() }()

	deleted := make([]int, 0, len(ids))
	for start := 0; start < len(ids); start += maxIDsPerStatement {
		end := min(start+maxIDsPerStatement, len(ids))
		deleted, err = deleteBatch(ctx, tx, ids[start:end], ownerID, deleted)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit delete tasks for owner %d: %w", ownerID, err)
	}
	sort.Ints(deleted)
	return deleted, nil
}

// deleteBatch runs one DELETE ... IN (...) and appends the returned ids to dst.
func deleteBatch(ctx context.Context, tx *sql.Tx, ids []int, ownerID int, dst []int) ([]int, error) {
	args := make([]any, 0, len(ids)+1)
	args = append(args, ownerID)
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := tx.QueryContext(ctx, fmt.Sprintf(deleteTasksByOwnerSQL, placeholders(len(ids))), args...)
	if err != nil {
		return nil, fmt.Errorf("delete tasks for owner %d: %w", ownerID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan deleted task id: %w", err)
		}
		dst = append(dst, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deleted tasks: %w", err)
	}
	return dst, nil
}

// uniqueIDs drops duplicates while keeping first-seen order.
func uniqueIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
