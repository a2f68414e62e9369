// Package update holds the bubbletea model for the panel: three views over
// tasks, GitHub issues, and Gmail, plus the command palette and the reminder
// editor. All mutation goes through the injected collaborators; the model
// itself only keeps display state.
package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/paneld/internal/model"
	"github.com/sandeepkv93/paneld/internal/poll"
	"github.com/sandeepkv93/paneld/internal/reminder"
	"github.com/sandeepkv93/paneld/internal/scheduler"
	"github.com/sandeepkv93/paneld/internal/storage"
)

type View string

const (
	ViewTasks  View = "Tasks"
	ViewIssues View = "Issues"
	ViewMail   View = "Mail"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Tasks  string
	Issues string
	Mail   string
	Help   string
	Quit   string
}

// Poller is the slice of the orchestrator the TUI drives.
type Poller interface {
	Trigger(ctx context.Context) bool
	Results() <-chan poll.Result
}

// MailActions are the two message operations the Mail view offers.
type MailActions interface {
	MarkRead(ctx context.Context, messageID string) error
	Archive(ctx context.Context, messageID string) error
}

type SourceState struct {
	Items    []model.ExternalItem
	NewCount int
	LastPoll time.Time
	Cursor   int
}

type PaletteState struct {
	Active bool
	Input  string
}

type ReminderEditorState struct {
	Active    bool
	TaskID    string
	TaskTitle string
	Field     string // "start" or "leads"
	StartText string
	LeadsText string
	Err       string
}

type Deps struct {
	Repo      storage.Repository
	Reminders *reminder.Scheduler
	Poller    Poller
	Timers    <-chan scheduler.Timer
	Mail      MailActions
}

type Model struct {
	CurrentView    View
	SelectedTaskID string
	Tasks          []storage.Task
	TasksCursor    int
	Issues         SourceState
	Mail           SourceState
	Palette        PaletteState
	Editor         ReminderEditorState
	Status         StatusBar
	HelpVisible    bool
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error
	CaptureMode    bool

	repo        storage.Repository
	reminders   *reminder.Scheduler
	poller      Poller
	timerEvents <-chan scheduler.Timer
	mailActions MailActions

	tasksList      list.Model
	issuesTable    table.Model
	mailTable      table.Model
	quickAddInput  textinput.Model
	commandInput   textinput.Model
	syncSpinner    spinner.Model
	helpModel      help.Model
	detailViewport viewport.Model
	spinnerActive  bool
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type AppErrorMsg struct {
	Err error
}

type TasksLoadedMsg struct {
	Tasks []storage.Task
}

type PollResultMsg struct {
	Result poll.Result
}

type ReminderFiredMsg struct {
	Timer scheduler.Timer
}

type pollTriggeredMsg struct {
	Ran bool
}

func NewModel(deps Deps) Model {
	m := Model{
		CurrentView: ViewTasks,
		Keys: GlobalKeyMap{
			Tasks:  "1",
			Issues: "2",
			Mail:   "3",
			Help:   "?",
			Quit:   "q",
		},
		repo:        deps.Repo,
		reminders:   deps.Reminders,
		poller:      deps.Poller,
		timerEvents: deps.Timers,
		mailActions: deps.Mail,
	}
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}

func (m *Model) initBubbleComponents() {
	m.tasksList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 12)
	m.tasksList.Title = "Tasks"
	m.tasksList.SetShowHelp(false)
	m.tasksList.SetFilteringEnabled(false)

	issueCols := []table.Column{
		{Title: "ID", Width: 22},
		{Title: "Title", Width: 30},
	}
	m.issuesTable = table.New(table.WithColumns(issueCols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(10))

	mailCols := []table.Column{
		{Title: "From", Width: 24},
		{Title: "Subject", Width: 28},
	}
	m.mailTable = table.New(table.WithColumns(mailCols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(10))

	m.quickAddInput = textinput.New()
	m.quickAddInput.Prompt = "add> "
	m.quickAddInput.CharLimit = 256
	m.quickAddInput.Width = 42

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.syncSpinner = spinner.New()
	m.syncSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.detailViewport = viewport.New(52, 10)
}

func (m *Model) syncBubbleData() {
	taskItems := make([]list.Item, 0, len(m.Tasks))
	for _, task := range m.Tasks {
		desc := ""
		if task.StartAt != nil {
			desc = "starts " + task.StartAt.Format("2006-01-02 15:04")
			if len(task.LeadMinutes) > 0 {
				desc += fmt.Sprintf(" | reminders %v", task.LeadMinutes)
			}
		}
		taskItems = append(taskItems, listItem{title: task.Title, description: desc})
	}
	m.tasksList.SetItems(taskItems)
	if len(taskItems) > 0 && m.TasksCursor < len(taskItems) {
		m.tasksList.Select(m.TasksCursor)
	}

	issueRows := make([]table.Row, 0, len(m.Issues.Items))
	for _, item := range m.Issues.Items {
		issueRows = append(issueRows, table.Row{item.ID, item.Title})
	}
	m.issuesTable.SetRows(issueRows)
	if len(issueRows) > 0 && m.Issues.Cursor < len(issueRows) {
		m.issuesTable.SetCursor(m.Issues.Cursor)
	}

	mailRows := make([]table.Row, 0, len(m.Mail.Items))
	for _, item := range m.Mail.Items {
		mailRows = append(mailRows, table.Row{item.Detail, item.Title})
	}
	m.mailTable.SetRows(mailRows)
	if len(mailRows) > 0 && m.Mail.Cursor < len(mailRows) {
		m.mailTable.SetCursor(m.Mail.Cursor)
	}

	m.detailViewport.SetContent(m.detailMarkdown())
}

// detailMarkdown is the source text for the right-hand detail pane.
func (m Model) detailMarkdown() string {
	switch m.CurrentView {
	case ViewTasks:
		if task, ok := m.currentTask(); ok {
			if strings.TrimSpace(task.Notes) != "" {
				return task.Notes
			}
			return "_No notes_"
		}
	case ViewIssues:
		if item, ok := currentItem(m.Issues); ok {
			return fmt.Sprintf("**%s**\n\n%s", item.Title, item.Detail)
		}
	case ViewMail:
		if item, ok := currentItem(m.Mail); ok {
			return fmt.Sprintf("**%s**\n\nFrom: %s", item.Title, item.Detail)
		}
	}
	return ""
}

func (m Model) currentTask() (storage.Task, bool) {
	if m.TasksCursor < 0 || m.TasksCursor >= len(m.Tasks) {
		return storage.Task{}, false
	}
	return m.Tasks[m.TasksCursor], true
}

func currentItem(s SourceState) (model.ExternalItem, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Items) {
		return model.ExternalItem{}, false
	}
	return s.Items[s.Cursor], true
}

func newTaskID(now time.Time) string {
	return fmt.Sprintf("task-%d", now.UnixNano())
}

func waitForPollCmd(ch <-chan poll.Result) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		res, ok := <-ch
		if !ok {
			return nil
		}
		return PollResultMsg{Result: res}
	}
}

func waitForTimerCmd(ch <-chan scheduler.Timer) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		timer, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderFiredMsg{Timer: timer}
	}
}

func (m Model) loadTasksCmd() tea.Cmd {
	repo := m.repo
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		tasks, err := repo.ListTasks(context.Background(), storage.TaskListFilter{})
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return TasksLoadedMsg{Tasks: tasks}
	}
}

func (m Model) triggerPollCmd() tea.Cmd {
	poller := m.poller
	if poller == nil {
		return nil
	}
	return func() tea.Msg {
		return pollTriggeredMsg{Ran: poller.Trigger(context.Background())}
	}
}
