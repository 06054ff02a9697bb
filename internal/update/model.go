package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"

	domainmodel "github.com/sandeepkv93/remindd/internal/model"
	"github.com/sandeepkv93/remindd/internal/scheduler"
)

// TaskService is the subset of the scheduler loop the UI drives.
type TaskService interface {
	Add(ctx context.Context, name string, due time.Time) (domainmodel.Task, error)
	Edit(ctx context.Context, id, name string, due time.Time) (domainmodel.Task, error)
	Complete(ctx context.Context, id string) error
	CompleteByName(ctx context.Context, name string) error
	Remove(ctx context.Context, id string) error
	List(ctx context.Context) ([]domainmodel.Task, error)
	Events() <-chan scheduler.Event
}

type Mode string

const (
	ModeList    Mode = "list"
	ModeForm    Mode = "form"
	ModePalette Mode = "palette"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type formField int

const (
	fieldName formField = iota
	fieldDate
)

type FormState struct {
	// EditingID is empty when the form adds a new task.
	EditingID string
	Field     formField
	Err       string
	// Pending is set while a submit is waiting on the scheduler.
	Pending bool
}

type CommandPaletteState struct {
	Input string
}

type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Add     key.Binding
	Edit    key.Binding
	Done    key.Binding
	Remove  key.Binding
	Detail  key.Binding
	Palette key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "move up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "move down")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit task")),
		Done:    key.NewBinding(key.WithKeys("d", "enter"), key.WithHelp("d", "mark done")),
		Remove:  key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove task")),
		Detail:  key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "toggle detail")),
		Palette: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "command palette")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Done, k.Remove, k.Palette, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Detail},
		{k.Add, k.Edit, k.Done, k.Remove},
		{k.Palette, k.Help, k.Quit},
	}
}

type Model struct {
	Tasks         []domainmodel.Task
	Mode          Mode
	Form          FormState
	Palette       CommandPaletteState
	HelpVisible   bool
	DetailVisible bool
	Status        StatusBar
	Keys          KeyMap
	Quitting      bool
	LastError     error

	service TaskService
	now     func() time.Time

	taskList     list.Model
	nameInput    textinput.Model
	dateInput    textinput.Model
	commandInput textinput.Model
	helpModel    help.Model
}

type taskItem struct {
	title       string
	description string
}

func (i taskItem) FilterValue() string { return i.title }
func (i taskItem) Title() string       { return i.title }
func (i taskItem) Description() string { return i.description }

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type TasksLoadedMsg struct {
	Tasks []domainmodel.Task
}

// EventMsg carries one scheduler event into the update loop.
type EventMsg struct {
	Event scheduler.Event
}

func NewModel(service TaskService) Model {
	m := Model{
		Mode:    ModeList,
		Keys:    DefaultKeyMap(),
		service: service,
		now:     time.Now,
	}
	m.initBubbleComponents()
	return m
}

// WithClock replaces the wall clock used for the header and date defaults.
func (m Model) WithClock(now func() time.Time) Model {
	if now != nil {
		m.now = now
	}
	return m
}

func (m *Model) initBubbleComponents() {
	m.taskList = list.New([]list.Item{}, list.NewDefaultDelegate(), 62, 16)
	m.taskList.Title = "Tasks"
	m.taskList.SetShowHelp(false)
	m.taskList.SetFilteringEnabled(false)
	m.taskList.SetShowStatusBar(false)

	m.nameInput = textinput.New()
	m.nameInput.Prompt = "name> "
	m.nameInput.Placeholder = "what needs doing"
	m.nameInput.CharLimit = 256
	m.nameInput.Width = 40

	m.dateInput = textinput.New()
	m.dateInput.Prompt = "date> "
	m.dateInput.Placeholder = domainmodel.DateLayout
	m.dateInput.CharLimit = 16
	m.dateInput.Width = 12

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.helpModel = help.New()
}

func (m *Model) setTasks(tasks []domainmodel.Task) {
	m.Tasks = tasks
	now := m.now()
	items := make([]list.Item, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, taskItem{title: t.Name, description: rowDescription(t, now)})
	}
	idx := m.taskList.Index()
	m.taskList.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		m.taskList.Select(idx)
	}
}

func (m Model) selectedTask() (domainmodel.Task, bool) {
	idx := m.taskList.Index()
	if idx < 0 || idx >= len(m.Tasks) {
		return domainmodel.Task{}, false
	}
	return m.Tasks[idx], true
}
