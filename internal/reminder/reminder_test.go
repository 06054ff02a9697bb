package reminder

import (
	"testing"
	"time"

	"github.com/sandeepkv93/remindd/internal/model"
)

func TestFirstFireIsIdempotent(t *testing.T) {
	now := time.Date(2026, 2, 9, 9, 0, 0, 0, time.Local)
	task := model.NewTask("Pay rent", now)

	d := Evaluate(task, now)
	if d != DecisionFireFirst {
		t.Fatalf("expected FireFirst, got %s", d)
	}
	if Evaluate(task, now) != DecisionFireFirst {
		t.Fatal("evaluate must not mutate the task")
	}
	if !Apply(&task, d, now) {
		t.Fatal("expected apply to change task")
	}
	if !task.FirstNotified {
		t.Fatal("expected first notified")
	}
	if task.NextReminder == nil || !task.NextReminder.Equal(now.Add(6*time.Hour)) {
		t.Fatalf("unexpected next reminder: %v", task.NextReminder)
	}
	if got := Evaluate(task, now); got != DecisionNone {
		t.Fatalf("expected None on second evaluation, got %s", got)
	}
}

func TestRepeatFireTiming(t *testing.T) {
	now := time.Date(2026, 2, 9, 9, 0, 0, 0, time.Local)
	next := now.Add(2 * time.Hour)
	task := model.NewTask("Pay rent", now)
	task.FirstNotified = true
	task.NextReminder = &next

	if got := Evaluate(task, next.Add(-time.Second)); got != DecisionNone {
		t.Fatalf("expected None before next reminder, got %s", got)
	}
	if got := Evaluate(task, next); got != DecisionFireRepeat {
		t.Fatalf("expected FireRepeat at next reminder, got %s", got)
	}

	later := next.Add(30 * time.Minute)
	d := Evaluate(task, later)
	if d != DecisionFireRepeat {
		t.Fatalf("expected FireRepeat after next reminder, got %s", d)
	}
	Apply(&task, d, later)
	if !task.NextReminder.Equal(later.Add(Cooldown)) {
		t.Fatalf("expected next reminder advanced from now, got %v", task.NextReminder)
	}
	if !task.FirstNotified {
		t.Fatal("first notified must stay true")
	}
}

func TestFutureTaskSuppressed(t *testing.T) {
	now := time.Date(2026, 2, 9, 23, 59, 59, 0, time.Local)
	task := model.NewTask("Tomorrow", now.AddDate(0, 0, 1))
	for _, at := range []time.Time{now, now.Add(-12 * time.Hour), now.Add(-time.Minute)} {
		if got := Evaluate(task, at); got != DecisionNone {
			t.Fatalf("expected None for future task at %v, got %s", at, got)
		}
	}
}

func TestOverdueTaskFiresFirst(t *testing.T) {
	now := time.Date(2026, 2, 9, 9, 0, 0, 0, time.Local)
	task := model.NewTask("Overdue", now.AddDate(0, 0, -3))
	if got := Evaluate(task, now); got != DecisionFireFirst {
		t.Fatalf("expected FireFirst for overdue task, got %s", got)
	}
}

func TestCompletedAndNoNextReminder(t *testing.T) {
	now := time.Date(2026, 2, 9, 9, 0, 0, 0, time.Local)
	done := model.NewTask("Done", now)
	done.Completed = true
	if got := Evaluate(done, now); got != DecisionNone {
		t.Fatalf("expected None for completed task, got %s", got)
	}

	notified := model.NewTask("Notified", now)
	notified.FirstNotified = true
	if got := Evaluate(notified, now); got != DecisionNone {
		t.Fatalf("expected None without next reminder, got %s", got)
	}
}

func TestApplyIgnoresNone(t *testing.T) {
	now := time.Date(2026, 2, 9, 9, 0, 0, 0, time.Local)
	task := model.NewTask("a", now)
	if Apply(&task, DecisionNone, now) {
		t.Fatal("expected no change for None")
	}
	if task.FirstNotified || task.NextReminder != nil {
		t.Fatalf("unexpected mutation: %+v", task)
	}
}
