package reminder

import (
	"time"

	"github.com/sandeepkv93/remindd/internal/model"
)

// Cooldown is the fixed gap between repeat notifications.
const Cooldown = 6 * time.Hour

type Decision string

const (
	DecisionNone       Decision = "None"
	DecisionFireFirst  Decision = "FireFirst"
	DecisionFireRepeat Decision = "FireRepeat"
)

func (d Decision) Fires() bool {
	return d == DecisionFireFirst || d == DecisionFireRepeat
}

// Evaluate decides whether task must notify at now. It never mutates task.
func Evaluate(task model.Task, now time.Time) Decision {
	if task.Completed {
		return DecisionNone
	}
	if !task.IsDue(now) {
		return DecisionNone
	}
	if !task.FirstNotified {
		return DecisionFireFirst
	}
	if task.NextReminder != nil && !now.Before(*task.NextReminder) {
		return DecisionFireRepeat
	}
	return DecisionNone
}

// Apply records a fire decision on task and reports whether it changed.
func Apply(task *model.Task, d Decision, now time.Time) bool {
	if task == nil || !d.Fires() {
		return false
	}
	next := now.Add(Cooldown)
	task.FirstNotified = true
	task.NextReminder = &next
	return true
}
