package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/remindd/internal/model"
	"github.com/sandeepkv93/remindd/internal/notify"
)

func (l *Loop) Add(ctx context.Context, name string, due time.Time) (model.Task, error) {
	var created model.Task
	err := l.do(ctx, func(ctx context.Context) error {
		if err := model.ValidateInput(name, due, l.clock.Now()); err != nil {
			return err
		}
		created = model.NewTask(name, due)
		l.tasks.Add(created)
		l.log.Info().Str("task_id", created.ID).Str("task", created.Name).Msg("task added")
		l.commit(ctx)
		return nil
	})
	return created, err
}

// Edit renames and reschedules a task. Reminder state is kept.
func (l *Loop) Edit(ctx context.Context, id, name string, due time.Time) (model.Task, error) {
	var updated model.Task
	err := l.do(ctx, func(ctx context.Context) error {
		if err := model.ValidateInput(name, due, l.clock.Now()); err != nil {
			return err
		}
		t, ok := l.tasks.FindByID(id)
		if !ok {
			return fmt.Errorf("%w: %s", model.ErrTaskNotFound, id)
		}
		t.Name = strings.TrimSpace(name)
		t.DueDate = model.DateOf(due)
		l.tasks.Replace(t)
		updated = t
		l.commit(ctx)
		return nil
	})
	return updated, err
}

// Complete marks the task done, which removes it from the active set.
func (l *Loop) Complete(ctx context.Context, id string) error {
	return l.do(ctx, func(ctx context.Context) error {
		return l.complete(ctx, id)
	})
}

// CompleteByName completes the first task with that name.
func (l *Loop) CompleteByName(ctx context.Context, name string) error {
	return l.do(ctx, func(ctx context.Context) error {
		t, ok := l.tasks.FindByName(name)
		if !ok {
			return fmt.Errorf("%w: %q", model.ErrTaskNotFound, name)
		}
		return l.complete(ctx, t.ID)
	})
}

func (l *Loop) complete(ctx context.Context, id string) error {
	t, ok := l.tasks.FindByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrTaskNotFound, id)
	}
	t.Completed = true
	l.tasks.Remove(t.ID)
	l.log.Info().Str("task_id", t.ID).Str("task", t.Name).Msg("task completed")
	l.commit(ctx)
	return nil
}

func (l *Loop) Remove(ctx context.Context, id string) error {
	return l.do(ctx, func(ctx context.Context) error {
		if !l.tasks.Remove(id) {
			return fmt.Errorf("%w: %s", model.ErrTaskNotFound, id)
		}
		l.log.Info().Str("task_id", id).Msg("task removed")
		l.commit(ctx)
		return nil
	})
}

// List returns the active tasks in display order.
func (l *Loop) List(ctx context.Context) ([]model.Task, error) {
	var out []model.Task
	err := l.do(ctx, func(context.Context) error {
		out = l.tasks.Sorted()
		return nil
	})
	return out, err
}

// HandleAction is the alert accept callback. It may be called from any
// goroutine and blocks until the loop has run the completion, however long
// the current tick takes.
func (l *Loop) HandleAction(ev notify.ActionEvent) {
	if ev.Action != notify.ActionComplete {
		return
	}
	err := l.Complete(context.Background(), ev.TaskID)
	switch {
	case err == nil:
	case errors.Is(err, model.ErrTaskNotFound):
		l.log.Debug().Err(err).Str("task_id", ev.TaskID).Msg("alert completion for unknown task")
	default:
		l.log.Warn().Err(err).Str("task_id", ev.TaskID).Msg("alert completion not applied")
	}
}
