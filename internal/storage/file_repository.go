package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sandeepkv93/remindd/internal/model"
)

type FileRepository struct {
	path string
	log  zerolog.Logger
}

func NewFileRepository(path string, log zerolog.Logger) (*FileRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage: file path is empty")
	}
	return &FileRepository{path: path, log: log}, nil
}

// Load reads every well-formed record. A missing file is an empty set and
// malformed lines are skipped. A record whose id was already loaded gets a
// fresh one.
func (r *FileRepository) Load(ctx context.Context) ([]model.Task, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Task{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	out := make([]model.Task, 0)
	seen := make(map[string]bool)
	for i, line := range strings.Split(string(raw), "\n") {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		task, decErr := DecodeRecord(line)
		if decErr != nil {
			r.log.Debug().Err(decErr).Int("line", i+1).Str("file", r.path).Msg("skipping malformed record")
			continue
		}
		if task.Completed {
			continue
		}
		if seen[task.ID] {
			fresh := uuid.NewString()
			r.log.Warn().Str("task_id", task.ID).Str("new_id", fresh).Int("line", i+1).Msg("duplicate task id reassigned")
			task.ID = fresh
		}
		seen[task.ID] = true
		out = append(out, task)
	}
	return out, nil
}

// Save rewrites the file through a temp file and rename.
func (r *FileRepository) Save(ctx context.Context, tasks []model.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(r.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}

	var buf bytes.Buffer
	for _, t := range tasks {
		buf.WriteString(EncodeRecord(t))
		buf.WriteByte('\n')
	}

	tmp := r.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open temp file: %w", err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", r.path, err)
	}
	return nil
}

func (r *FileRepository) Close() error { return nil }
