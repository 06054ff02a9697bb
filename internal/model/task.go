package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

var (
	ErrEmptyName    = errors.New("model: task name is required")
	ErrInvalidName  = errors.New("model: task name contains a reserved character")
	ErrMissingDate  = errors.New("model: task due date is required")
	ErrDateInPast   = errors.New("model: task due date cannot be before today")
	ErrTaskNotFound = errors.New("model: task not found")
)

type Task struct {
	ID            string
	Name          string
	DueDate       time.Time
	Completed     bool
	FirstNotified bool
	NextReminder  *time.Time
}

func NewTask(name string, due time.Time) Task {
	return Task{
		ID:      uuid.NewString(),
		Name:    strings.TrimSpace(name),
		DueDate: DateOf(due),
	}
}

// DateOf truncates t to local midnight of its calendar day.
func DateOf(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	local := t.In(time.Local)
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func (t Task) IsDue(now time.Time) bool {
	return !t.DueDate.After(DateOf(now))
}

func (t Task) NextReminderDisplay() string {
	if t.NextReminder == nil {
		return "-"
	}
	return t.NextReminder.In(time.Local).Format("02/01 15:04")
}

func (t Task) DueDisplay() string {
	return t.DueDate.Format("02/01/2006")
}

// Clone returns a copy that shares no pointers with t.
func (t Task) Clone() Task {
	out := t
	if t.NextReminder != nil {
		next := *t.NextReminder
		out.NextReminder = &next
	}
	return out
}

func ValidateInput(name string, due time.Time, now time.Time) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrEmptyName
	}
	if strings.ContainsAny(trimmed, "|\r\n") {
		return fmt.Errorf("%w: %q", ErrInvalidName, trimmed)
	}
	if due.IsZero() {
		return ErrMissingDate
	}
	if DateOf(due).Before(DateOf(now)) {
		return fmt.Errorf("%w: %s", ErrDateInPast, DateOf(due).Format(DateLayout))
	}
	return nil
}

// Validate checks a stored task. Unlike ValidateInput it accepts past dates.
func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if strings.ContainsAny(t.Name, "|\r\n") {
		return fmt.Errorf("%w: %q", ErrInvalidName, t.Name)
	}
	if t.DueDate.IsZero() {
		return ErrMissingDate
	}
	return nil
}

func ParseDate(raw string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(raw), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("model: invalid date %q, want yyyy-mm-dd", raw)
	}
	return d, nil
}
