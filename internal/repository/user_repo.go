package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"task_tracker/internal/models"
)

const (
	userColumns = `id, username, email, full_name, password_hash, disabled`

	insertUserSQL           = `INSERT INTO users (username, email, full_name, password_hash) VALUES (?, ?, ?, ?)`
	selectUserByIDSQL       = `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	selectUserByUsernameSQL = `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	listUsersSQL            = `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT ? OFFSET ?`
	updateUserSQL           = `UPDATE users SET email = ?, full_name = ? WHERE id = ?`
	deleteUserSQL           = `DELETE FROM users WHERE id = ? RETURNING ` + userColumns
)

type UserSQLite struct {
	db *sql.DB
	t  table[models.User]
}

func NewUserSQLite(db *sql.DB) *UserSQLite {
	return &UserSQLite{
		db: db,
		t: table[models.User]{
			db:        db,
			name:      "user",
			getSQL:    selectUserByIDSQL,
			listSQL:   listUsersSQL,
			deleteSQL: deleteUserSQL,
			scan:      scanUser,
		},
	}
}

// Ensure implementation of UserRepo interface at compile time.
var _ UserRepo = (*UserSQLite)(nil)

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.PasswordHash, &u.Disabled)
	return u, err
}

// Create inserts a new user. A taken username yields ErrDuplicate; the
// UNIQUE constraint makes the check atomic with the insert.
func (r *UserSQLite) Create(ctx context.Context, in models.NewUser) (*models.User, error) {
	res, err := r.db.ExecContext(ctx, insertUserSQL, in.Username, in.Email, in.FullName, in.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("insert user %q: %w", in.Username, ErrDuplicate)
		}
		return nil, fmt.Errorf("insert user %q: %w", in.Username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id for user %q: %w", in.Username, err)
	}
	return &models.User{
		ID:           int(lastID),
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: in.PasswordHash,
	}, nil
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByUsernameSQL, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return &u, nil
}

func (r *UserSQLite) Get(ctx context.Context, id int) (*models.User, error) {
	return r.t.get(ctx, id)
}

func (r *UserSQLite) List(ctx context.Context, skip, limit int) ([]models.User, error) {
	return r.t.list(ctx, skip, limit)
}

// Update writes the profile fields present in upd. Returns (nil, nil) if the
// user no longer exists.
func (r *UserSQLite) Update(ctx context.Context, current models.User, upd models.UserUpdate) (*models.User, error) {
	merged := upd.Apply(current)
	res, err := r.db.ExecContext(ctx, updateUserSQL, merged.Email, merged.FullName, merged.ID)
	if err != nil {
		return nil, fmt.Errorf("update user %d: %w", merged.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected for user %d: %w", merged.ID, err)
	}
	if n == 0 {
		return nil, nil
	}
	return &merged, nil
}

func (r *UserSQLite) Delete(ctx context.Context, id int) (*models.User, error) {
	return r.t.delete(ctx, id)
}
