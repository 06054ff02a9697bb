package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	domainmodel "github.com/sandeepkv93/remindd/internal/model"
	"github.com/sandeepkv93/remindd/internal/views"
)

// openForm starts the add form for a zero task and the edit form otherwise.
func (m Model) openForm(t domainmodel.Task) Model {
	m.Mode = ModeForm
	m.Form = FormState{EditingID: t.ID, Field: fieldName}
	if t.ID == "" {
		m.nameInput.SetValue("")
		m.dateInput.SetValue(defaultDueDate(m.now()))
	} else {
		m.nameInput.SetValue(t.Name)
		m.dateInput.SetValue(t.DueDate.Format(domainmodel.DateLayout))
	}
	m.nameInput.Focus()
	m.dateInput.Blur()
	return m
}

func (m Model) closeForm() Model {
	m.Mode = ModeList
	m.Form = FormState{}
	m.nameInput.Blur()
	m.dateInput.Blur()
	return m
}

func (m Model) handleFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m = m.closeForm()
		m.Status = StatusBar{Text: "edit cancelled"}
		return m, nil
	case "tab", "shift+tab":
		if m.Form.Field == fieldName {
			m.Form.Field = fieldDate
			m.nameInput.Blur()
			m.dateInput.Focus()
		} else {
			m.Form.Field = fieldName
			m.dateInput.Blur()
			m.nameInput.Focus()
		}
		return m, nil
	case "enter":
		if m.Form.Pending {
			return m, nil
		}
		return m.submitForm()
	}

	input := &m.nameInput
	if m.Form.Field == fieldDate {
		input = &m.dateInput
	}
	if msg.Type == tea.KeyRunes {
		input.SetValue(input.Value() + string(msg.Runes))
		return m, nil
	}
	updated, _ := input.Update(msg)
	*input = updated
	return m, nil
}

// submitForm checks the date locally and hands the save to the scheduler.
// The form stays open until the result arrives so validation errors can be
// shown in place.
func (m Model) submitForm() (Model, tea.Cmd) {
	name := strings.TrimSpace(m.nameInput.Value())
	rawDate := strings.TrimSpace(m.dateInput.Value())
	if rawDate == "" {
		m.Form.Err = domainmodel.ErrMissingDate.Error()
		return m, nil
	}
	due, err := domainmodel.ParseDate(rawDate)
	if err != nil {
		m.Form.Err = err.Error()
		return m, nil
	}

	m.Form.Err = ""
	m.Form.Pending = true
	service, editingID := m.service, m.Form.EditingID
	return m, runOp(service, true, func(ctx context.Context) (string, string, error) {
		var saved domainmodel.Task
		var err error
		verb := "added"
		if editingID == "" {
			saved, err = service.Add(ctx, name, due)
		} else {
			verb = "updated"
			saved, err = service.Edit(ctx, editingID, name, due)
		}
		if err != nil {
			return "", "", err
		}
		return fmt.Sprintf("%s: %s (due %s)", verb, saved.Name, saved.DueDisplay()), saved.ID, nil
	})
}

func (m *Model) selectTask(id string) {
	for i, t := range m.Tasks {
		if t.ID == id {
			m.taskList.Select(i)
			return
		}
	}
}

func (m Model) renderForm() string {
	title := "Add task"
	if m.Form.EditingID != "" {
		title = "Edit task"
	}
	return views.RenderFormPanel(views.FormPanelData{
		Title:    title,
		NameView: m.nameInput.View(),
		DateView: m.dateInput.View(),
		Err:      m.Form.Err,
		Pending:  m.Form.Pending,
	})
}

func defaultDueDate(now time.Time) string {
	return domainmodel.DateOf(now).Format(domainmodel.DateLayout)
}
