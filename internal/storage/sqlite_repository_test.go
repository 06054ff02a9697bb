package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/remindd/internal/model"
)

func setupSQLiteRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := OpenSQLite(filepath.Join(t.TempDir(), "remindd-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSQLiteRoundTripKeepsOrder(t *testing.T) {
	repo := setupSQLiteRepo(t)
	next := time.Date(2026, 2, 9, 18, 30, 0, 0, time.Local)
	in := []model.Task{
		model.NewTask("zeta", time.Date(2026, 2, 9, 0, 0, 0, 0, time.Local)),
		model.NewTask("alpha", time.Date(2026, 2, 8, 0, 0, 0, 0, time.Local)),
	}
	in[1].FirstNotified = true
	in[1].NextReminder = &next

	if err := repo.Save(t.Context(), in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := repo.Load(t.Context())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 2 || out[0].Name != "zeta" || out[1].Name != "alpha" {
		t.Fatalf("unexpected tasks: %+v", out)
	}
	if !out[1].FirstNotified || out[1].NextReminder == nil || !out[1].NextReminder.Equal(next) {
		t.Fatalf("unexpected reminder state: %+v", out[1])
	}
	if out[0].NextReminder != nil {
		t.Fatal("expected nil next reminder")
	}
}

func TestSQLiteSaveReplacesEverything(t *testing.T) {
	repo := setupSQLiteRepo(t)
	day := time.Date(2026, 2, 9, 0, 0, 0, 0, time.Local)
	if err := repo.Save(t.Context(), []model.Task{model.NewTask("a", day), model.NewTask("b", day)}); err != nil {
		t.Fatalf("save: %v", err)
	}
	keep := model.NewTask("c", day)
	if err := repo.Save(t.Context(), []model.Task{keep}); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := repo.Load(t.Context())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 1 || out[0].ID != keep.ID {
		t.Fatalf("expected only %s, got %+v", keep.ID, out)
	}
}
