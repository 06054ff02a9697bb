package model

import "sort"

// TaskList is the in-memory active task set. It is not safe for concurrent
// use; the scheduler loop is its only owner.
type TaskList struct {
	tasks []Task
}

func NewTaskList(tasks []Task) *TaskList {
	l := &TaskList{tasks: make([]Task, 0, len(tasks))}
	for _, t := range tasks {
		l.tasks = append(l.tasks, t.Clone())
	}
	return l
}

func (l *TaskList) Len() int { return len(l.tasks) }

func (l *TaskList) Add(t Task) {
	l.tasks = append(l.tasks, t.Clone())
}

func (l *TaskList) Remove(id string) bool {
	for i := range l.tasks {
		if l.tasks[i].ID == id {
			l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
			return true
		}
	}
	return false
}

func (l *TaskList) FindByID(id string) (Task, bool) {
	for _, t := range l.tasks {
		if t.ID == id {
			return t.Clone(), true
		}
	}
	return Task{}, false
}

// FindByName returns the first task with the given name in insertion order.
func (l *TaskList) FindByName(name string) (Task, bool) {
	for _, t := range l.tasks {
		if t.Name == name {
			return t.Clone(), true
		}
	}
	return Task{}, false
}

func (l *TaskList) Replace(t Task) bool {
	for i := range l.tasks {
		if l.tasks[i].ID == t.ID {
			l.tasks[i] = t.Clone()
			return true
		}
	}
	return false
}

func (l *TaskList) Snapshot() []Task {
	out := make([]Task, 0, len(l.tasks))
	for _, t := range l.tasks {
		out = append(out, t.Clone())
	}
	return out
}

func (l *TaskList) Sorted() []Task {
	out := l.Snapshot()
	SortTasks(out)
	return out
}

// SortTasks orders by due date, then name, then id.
func SortTasks(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
}
