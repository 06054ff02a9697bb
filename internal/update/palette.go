package update

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/remindd/internal/commands"
	domainmodel "github.com/sandeepkv93/remindd/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		m.commandInput, _ = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
	}
	return m, nil
}

func (m Model) closePalette() Model {
	m.Mode = ModeList
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

// executePaletteCommand parses the input now and runs it on the scheduler
// in the background. References resolve against the list as displayed when
// enter was pressed.
func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw, m.now())
	m = m.closePalette()
	if err != nil {
		return m.fail(err), nil
	}

	service, tasks := m.service, m.Tasks
	return m, runOp(service, false, func(ctx context.Context) (string, string, error) {
		var selectID string
		res, err := commands.Execute(cmd, commands.Handlers{
			Add: func(a commands.AddArgs) (commands.Result, error) {
				t, err := service.Add(ctx, a.Name, a.Due)
				if err != nil {
					return commands.Result{}, err
				}
				selectID = t.ID
				return commands.Result{Message: fmt.Sprintf("added: %s (due %s)", t.Name, t.DueDisplay())}, nil
			},
			Edit: func(e commands.EditArgs) (commands.Result, error) {
				target, err := resolveRef(tasks, e.Target)
				if err != nil {
					return commands.Result{}, err
				}
				t, err := service.Edit(ctx, target.ID, e.Name, e.Due)
				if err != nil {
					return commands.Result{}, err
				}
				selectID = t.ID
				return commands.Result{Message: fmt.Sprintf("updated: %s (due %s)", t.Name, t.DueDisplay())}, nil
			},
			Done: func(d commands.TargetArgs) (commands.Result, error) {
				if d.Target.Index == 0 {
					if err := service.CompleteByName(ctx, d.Target.Name); err != nil {
						return commands.Result{}, err
					}
					return commands.Result{Message: fmt.Sprintf("completed: %s", d.Target.Name)}, nil
				}
				target, err := resolveRef(tasks, d.Target)
				if err != nil {
					return commands.Result{}, err
				}
				if err := service.Complete(ctx, target.ID); err != nil {
					return commands.Result{}, err
				}
				return commands.Result{Message: fmt.Sprintf("completed: %s", target.Name)}, nil
			},
			Remove: func(r commands.TargetArgs) (commands.Result, error) {
				target, err := resolveRef(tasks, r.Target)
				if err != nil {
					return commands.Result{}, err
				}
				if err := service.Remove(ctx, target.ID); err != nil {
					return commands.Result{}, err
				}
				return commands.Result{Message: fmt.Sprintf("removed: %s", target.Name)}, nil
			},
			List: func() (commands.Result, error) {
				return commands.Result{}, nil
			},
		})
		return res.Message, selectID, err
	})
}

// resolveRef maps a palette reference onto the displayed list. Names match
// the first task shown with that exact name.
func resolveRef(tasks []domainmodel.Task, ref commands.Ref) (domainmodel.Task, error) {
	if ref.Index > 0 {
		if ref.Index > len(tasks) {
			return domainmodel.Task{}, &commands.CommandError{
				Code:    commands.ErrCodeInvalidArgument,
				Message: fmt.Sprintf("no task #%d, list has %d", ref.Index, len(tasks)),
			}
		}
		return tasks[ref.Index-1], nil
	}
	for _, t := range tasks {
		if t.Name == ref.Name {
			return t, nil
		}
	}
	return domainmodel.Task{}, fmt.Errorf("%w: %q", domainmodel.ErrTaskNotFound, ref.Name)
}
