package views

import (
	"fmt"
	"strings"
)

type TaskRowData struct {
	Name         string
	Due          string
	NextReminder string
	Overdue      bool
	Notified     bool
}

type TaskPanelData struct {
	ListView string
	Count    int
}

type FormPanelData struct {
	Title    string
	NameView string
	DateView string
	Err      string
	Pending  bool
}

type HelpPanelData struct {
	Bindings []string
	HelpView string
}

type TaskDetailData struct {
	Name         string
	Due          string
	NextReminder string
	Notified     bool
	Overdue      bool
}

func RenderTaskPanel(data TaskPanelData) string {
	if data.Count == 0 {
		return "tasks:\n(no active tasks, press [a] to add one)"
	}
	return strings.TrimSpace(data.ListView)
}

// TaskRowDescription is the second line of a task row in the list.
func TaskRowDescription(row TaskRowData) string {
	return fmt.Sprintf("%s due %s | next %s", urgencyBadge(row), row.Due, row.NextReminder)
}

func RenderFormPanel(data FormPanelData) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(data.Title) + ":\n")
	b.WriteString("keys: [tab] field [enter] save [esc] cancel\n")
	b.WriteString(data.NameView + "\n")
	b.WriteString(data.DateView)
	if data.Pending {
		b.WriteString("\nsaving...")
	}
	if data.Err != "" {
		b.WriteString("\nerror: " + data.Err)
	}
	return b.String()
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s\nadd <name> <date> | edit <n> <name> <date> | done <n|name> | rm <n|name> | list", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s\n%s", strings.Join(data.Bindings, "\n"), data.HelpView)
}

// TaskDetailMarkdown describes one task for the detail pane.
func TaskDetailMarkdown(data TaskDetailData) string {
	var b strings.Builder
	b.WriteString("## " + data.Name + "\n\n")
	b.WriteString(fmt.Sprintf("- **Due:** %s\n", data.Due))
	if data.Overdue {
		b.WriteString("- **State:** overdue\n")
	}
	if data.Notified {
		b.WriteString(fmt.Sprintf("- **Next reminder:** %s\n", data.NextReminder))
	} else {
		b.WriteString("- **Next reminder:** not notified yet\n")
	}
	return b.String()
}

func RenderTaskDetail(data TaskDetailData) string {
	return RenderMarkdown(TaskDetailMarkdown(data))
}

func urgencyBadge(row TaskRowData) string {
	if row.Overdue {
		return "[RED]"
	}
	if row.Notified {
		return "[YELLOW]"
	}
	return "[GREEN]"
}
