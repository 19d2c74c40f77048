package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/sandeepkv93/calldesk/internal/model"
)

// Fixed width so that created_at comparisons work on the stored text.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

var _ Repository = (*SQLiteRepository)(nil)

type Option func(*SQLiteRepository)

// WithClock replaces time.Now for created_at and updated_at stamps.
func WithClock(now func() time.Time) Option {
	return func(r *SQLiteRepository) {
		if now != nil {
			r.now = now
		}
	}
}

// NewSQLiteRepository wraps db. The pool is pinned to one connection so the
// foreign_keys pragma holds for every statement.
func NewSQLiteRepository(db *sql.DB, opts ...Option) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	r := &SQLiteRepository{db: db, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// OpenSQLite opens path and applies pending migrations.
func OpenSQLite(path string, opts ...Option) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Ping reports whether the database answers.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *SQLiteRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepository) stamp() string {
	return formatTime(r.now())
}

func formatTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseTime(v string) (model.Timestamp, error) {
	tm, err := time.Parse(sqliteTimeLayout, v)
	if err != nil {
		return model.Timestamp{}, err
	}
	return model.NewTimestamp(tm), nil
}

func nullString(v *string) any {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	return *v
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func int64Args(ids []int64) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTag(s scanner) (model.Tag, error) {
	var out model.Tag
	var active int
	var created, updated string
	if err := s.Scan(&out.ID, &out.Name, &out.ColorID, &active, &created, &updated); err != nil {
		return model.Tag{}, err
	}
	var err error
	if out.CreatedAt, err = parseTime(created); err != nil {
		return model.Tag{}, err
	}
	if out.UpdatedAt, err = parseTime(updated); err != nil {
		return model.Tag{}, err
	}
	out.IsActive = active == 1
	return out, nil
}

func scanTask(s scanner, extra ...any) (model.Task, error) {
	var out model.Task
	var active int
	var created, updated string
	dest := append([]any{&out.ID, &out.Name, &out.Type, &active, &created, &updated}, extra...)
	if err := s.Scan(dest...); err != nil {
		return model.Task{}, err
	}
	var err error
	if out.CreatedAt, err = parseTime(created); err != nil {
		return model.Task{}, err
	}
	if out.UpdatedAt, err = parseTime(updated); err != nil {
		return model.Task{}, err
	}
	out.IsActive = active == 1
	return out, nil
}

func scanCall(s scanner) (model.Call, error) {
	var out model.Call
	var description sql.NullString
	var created, updated string
	if err := s.Scan(&out.ID, &out.Name, &description, &created, &updated); err != nil {
		return model.Call{}, err
	}
	var err error
	if out.CreatedAt, err = parseTime(created); err != nil {
		return model.Call{}, err
	}
	if out.UpdatedAt, err = parseTime(updated); err != nil {
		return model.Call{}, err
	}
	if description.Valid {
		out.Description = &description.String
	}
	return out, nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// constraintError maps unique and primary key violations to ErrConflict.
func constraintError(err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %s", ErrConflict, se.Error())
		}
	}
	return err
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
