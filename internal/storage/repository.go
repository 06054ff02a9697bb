package storage

import (
	"context"
	"errors"

	"github.com/sandeepkv93/remindd/internal/model"
)

var ErrUnknownBackend = errors.New("storage: unknown backend")

// Repository persists the whole active task set. Save always rewrites
// everything; there are no partial updates.
type Repository interface {
	Load(ctx context.Context) ([]model.Task, error)
	Save(ctx context.Context, tasks []model.Task) error
	Close() error
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)
