package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/sandeepkv93/remindd/internal/model"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sqlx.DB
}

type taskRow struct {
	ID            string         `db:"id"`
	Name          string         `db:"name"`
	DueDate       string         `db:"due_date"`
	Completed     bool           `db:"completed"`
	FirstNotified bool           `db:"first_notified"`
	NextReminder  sql.NullString `db:"next_reminder"`
	Position      int            `db:"position"`
}

func NewSQLiteRepository(db *sqlx.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := MigrateUp(db.DB); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(path); path != ":memory:" && dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Load(ctx context.Context) ([]model.Task, error) {
	rows := make([]taskRow, 0)
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, name, due_date, completed, first_notified, next_reminder, position
		FROM tasks WHERE completed = 0 ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("select tasks: %w", err)
	}

	out := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		task, convErr := row.toTask()
		if convErr != nil {
			continue
		}
		out = append(out, task)
	}
	return out, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, tasks []model.Task) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	for i, t := range tasks {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (id, name, due_date, completed, first_notified, next_reminder, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Name, t.DueDate.Format(model.DateLayout), boolInt(t.Completed), boolInt(t.FirstNotified),
			nullTime(t.NextReminder), i,
		)
		if err != nil {
			return fmt.Errorf("insert task %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

func (row taskRow) toTask() (model.Task, error) {
	due, err := time.ParseInLocation(model.DateLayout, row.DueDate, time.Local)
	if err != nil {
		return model.Task{}, err
	}
	next, err := parseNullableTime(row.NextReminder)
	if err != nil {
		return model.Task{}, err
	}
	return model.Task{
		ID:            row.ID,
		Name:          row.Name,
		DueDate:       due,
		Completed:     row.Completed,
		FirstNotified: row.FirstNotified,
		NextReminder:  next,
	}, nil
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.Format(sqliteTimeLayout)
}

func parseNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	t, err := time.Parse(sqliteTimeLayout, v.String)
	if err != nil {
		return nil, err
	}
	local := t.In(time.Local)
	return &local, nil
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
