package update

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	domainmodel "github.com/sandeepkv93/remindd/internal/model"
)

// opDoneMsg reports a finished task mutation and the task set after it.
type opDoneMsg struct {
	Status    string
	Err       error
	Tasks     []domainmodel.Task
	ReloadErr error
	SelectID  string
	FromForm  bool
}

type opFunc func(ctx context.Context) (status, selectID string, err error)

// runOp performs fn off the update loop. Mutations carry no deadline; the
// scheduler applies them as soon as its current tick is done.
func runOp(service TaskService, fromForm bool, fn opFunc) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		status, selectID, err := fn(ctx)
		msg := opDoneMsg{Status: status, Err: err, SelectID: selectID, FromForm: fromForm}
		if err != nil {
			return msg
		}
		msg.Tasks, msg.ReloadErr = service.List(ctx)
		if msg.Status == "" {
			msg.Status = fmt.Sprintf("%d active task(s)", len(msg.Tasks))
		}
		return msg
	}
}

func (m Model) applyOpDone(msg opDoneMsg) Model {
	if msg.FromForm {
		m.Form.Pending = false
		if msg.Err != nil && m.Mode == ModeForm {
			m.Form.Err = msg.Err.Error()
			return m
		}
		if msg.Err == nil && m.Mode == ModeForm {
			m = m.closeForm()
		}
	}
	if msg.Err != nil {
		return m.fail(msg.Err)
	}
	if msg.ReloadErr != nil {
		return m.fail(msg.ReloadErr)
	}
	m.setTasks(msg.Tasks)
	m.Status = StatusBar{Text: msg.Status}
	if msg.SelectID != "" {
		m.selectTask(msg.SelectID)
	}
	return m
}
