package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// table holds the statements shared by every Store implementation and the
// scan function that turns one row into a T.
type table[T any] struct {
	db        *sql.DB
	name      string
	getSQL    string // one arg: id
	listSQL   string // two args: limit, offset
	deleteSQL string // one arg: id; must RETURN the full row
	scan      func(rowScanner) (T, error)
}

func (t table[T]) get(ctx context.Context, id int) (*T, error) {
	v, err := t.scan(t.db.QueryRowContext(ctx, t.getSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select %s %d: %w", t.name, id, err)
	}
	return &v, nil
}

func (t table[T]) list(ctx context.Context, skip, limit int) ([]T, error) {
	return t.query(ctx, t.listSQL, limit, skip)
}

// query runs q and scans all rows. The result is never nil.
func (t table[T]) query(ctx context.Context, q string, args ...any) ([]T, error) {
	rows, err := t.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		v, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.name, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", t.name, err)
	}
	return out, nil
}

// delete removes the row and returns it as it was, or (nil, nil) if absent.
func (t table[T]) delete(ctx context.Context, id int) (*T, error) {
	v, err := t.scan(t.db.QueryRowContext(ctx, t.deleteSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("delete %s %d: %w", t.name, id, err)
	}
	return &v, nil
}

// isUniqueViolation reports whether err comes from a UNIQUE or PRIMARY KEY
// constraint. The message check covers drivers other than modernc.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}
