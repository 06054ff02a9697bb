package update

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	domainmodel "github.com/sandeepkv93/remindd/internal/model"
	"github.com/sandeepkv93/remindd/internal/scheduler"
	"github.com/sandeepkv93/remindd/internal/views"
)

const headerDateLayout = "Monday, 02 January 2006"

func (m Model) Init() tea.Cmd {
	if m.service == nil {
		return nil
	}
	return tea.Batch(loadTasksCmd(m.service), waitForEventCmd(m.service.Events()))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		switch m.Mode {
		case ModeForm:
			next, cmd := m.handleFormKey(typed)
			return next, cmd
		case ModePalette:
			next, cmd := m.handlePaletteKey(typed)
			return next, cmd
		}
		return m.handleListKey(typed)
	case opDoneMsg:
		return m.applyOpDone(typed), nil
	case tea.WindowSizeMsg:
		m.taskList.SetSize(min(typed.Width/2, 80), max(typed.Height-8, 6))
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	case TasksLoadedMsg:
		m.setTasks(typed.Tasks)
		return m, nil
	case EventMsg:
		switch typed.Event.Kind {
		case scheduler.EventTasksChanged:
			m.setTasks(typed.Event.Tasks)
		case scheduler.EventWarning:
			if typed.Event.Err != nil {
				m.LastError = typed.Event.Err
				m.Status = StatusBar{Text: typed.Event.Err.Error(), IsError: true}
			}
		}
		if m.service != nil {
			return m, waitForEventCmd(m.service.Events())
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Help):
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case key.Matches(msg, m.Keys.Detail):
		m.DetailVisible = !m.DetailVisible
		return m, nil
	case key.Matches(msg, m.Keys.Palette):
		m.Mode = ModePalette
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.Status = StatusBar{Text: "command palette active"}
		return m, nil
	case key.Matches(msg, m.Keys.Add):
		return m.openForm(domainmodel.Task{}), nil
	case key.Matches(msg, m.Keys.Edit):
		t, ok := m.selectedTask()
		if !ok {
			m.Status = StatusBar{Text: "no task selected", IsError: true}
			return m, nil
		}
		return m.openForm(t), nil
	case key.Matches(msg, m.Keys.Done):
		return m.completeSelected()
	case key.Matches(msg, m.Keys.Remove):
		return m.removeSelected()
	}
	var cmd tea.Cmd
	m.taskList, cmd = m.taskList.Update(msg)
	return m, cmd
}

func (m Model) completeSelected() (tea.Model, tea.Cmd) {
	t, ok := m.selectedTask()
	if !ok {
		m.Status = StatusBar{Text: "no task selected", IsError: true}
		return m, nil
	}
	service := m.service
	return m, runOp(service, false, func(ctx context.Context) (string, string, error) {
		if err := service.Complete(ctx, t.ID); err != nil {
			return "", "", err
		}
		return fmt.Sprintf("completed: %s", t.Name), "", nil
	})
}

func (m Model) removeSelected() (tea.Model, tea.Cmd) {
	t, ok := m.selectedTask()
	if !ok {
		m.Status = StatusBar{Text: "no task selected", IsError: true}
		return m, nil
	}
	service := m.service
	return m, runOp(service, false, func(ctx context.Context) (string, string, error) {
		if err := service.Remove(ctx, t.ID); err != nil {
			return "", "", err
		}
		return fmt.Sprintf("removed: %s", t.Name), "", nil
	})
}

func (m Model) fail(err error) Model {
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
	return m
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	left := views.RenderTaskPanel(views.TaskPanelData{ListView: m.taskList.View(), Count: len(m.Tasks)})
	right := ""
	switch m.Mode {
	case ModeForm:
		right = m.renderForm()
	case ModePalette:
		right = views.RenderCommandPalette(true, m.commandInput.View())
	default:
		if m.DetailVisible {
			right = m.renderDetail()
		}
	}
	if m.HelpVisible {
		right = joinPanes(right, m.renderHelpView())
	}

	return views.RenderApp(views.AppData{
		Header:        fmt.Sprintf("remindd | %s | active: %d", m.now().Format(headerDateLayout), len(m.Tasks)),
		LeftPane:      left,
		RightPane:     right,
		StatusLine:    status,
		StatusIsError: m.Status.IsError,
		Footer:        m.helpModel.ShortHelpView(m.Keys.ShortHelp()),
	})
}

func (m Model) renderDetail() string {
	t, ok := m.selectedTask()
	if !ok {
		return "detail:\n(no selection)"
	}
	return views.RenderTaskDetail(views.TaskDetailData{
		Name:         t.Name,
		Due:          t.DueDisplay(),
		NextReminder: t.NextReminderDisplay(),
		Notified:     t.FirstNotified,
		Overdue:      isOverdue(t, m.now()),
	})
}

func (m Model) renderHelpView() string {
	var plain []string
	for _, group := range m.Keys.FullHelp() {
		for _, b := range group {
			plain = append(plain, fmt.Sprintf("- %s: %s", b.Help().Key, b.Help().Desc))
		}
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		Bindings: plain,
		HelpView: m.helpModel.FullHelpView(m.Keys.FullHelp()),
	})
}

func rowDescription(t domainmodel.Task, now time.Time) string {
	return views.TaskRowDescription(views.TaskRowData{
		Name:         t.Name,
		Due:          t.DueDisplay(),
		NextReminder: t.NextReminderDisplay(),
		Overdue:      isOverdue(t, now),
		Notified:     t.FirstNotified,
	})
}

func isOverdue(t domainmodel.Task, now time.Time) bool {
	return t.DueDate.Before(domainmodel.DateOf(now))
}

func joinPanes(a, b string) string {
	if a == "" {
		return b
	}
	return a + "\n\n" + b
}

func waitForEventCmd(ch <-chan scheduler.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return EventMsg{Event: ev}
	}
}

func loadTasksCmd(service TaskService) tea.Cmd {
	return func() tea.Msg {
		tasks, err := service.List(context.Background())
		if err != nil {
			if errors.Is(err, scheduler.ErrNotRunning) {
				err = fmt.Errorf("reminder loop not started: %w", err)
			}
			return AppErrorMsg{Err: err}
		}
		return TasksLoadedMsg{Tasks: tasks}
	}
}
