package update

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/paneld/internal/model"
	"github.com/sandeepkv93/paneld/internal/poll"
	"github.com/sandeepkv93/paneld/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.loadTasksCmd(),
		waitForPollCmd(m.pollResults()),
		waitForTimerCmd(m.timerEvents),
	}
	return tea.Batch(cmds...)
}

func (m Model) pollResults() <-chan poll.Result {
	if m.poller == nil {
		return nil
	}
	return m.poller.Results()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer m.syncBubbleData()

	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case spinner.TickMsg:
		if m.spinnerActive {
			var cmd tea.Cmd
			m.syncSpinner, cmd = m.syncSpinner.Update(typed)
			return m, cmd
		}
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	case TasksLoadedMsg:
		m.Tasks = typed.Tasks
		if m.TasksCursor >= len(m.Tasks) {
			m.TasksCursor = len(m.Tasks) - 1
		}
		if m.TasksCursor < 0 {
			m.TasksCursor = 0
		}
		m.syncSelectedTask()
		return m, nil
	case PollResultMsg:
		m = m.applyPollResult(typed.Result)
		return m, waitForPollCmd(m.pollResults())
	case ReminderFiredMsg:
		if m.reminders != nil {
			if err := m.reminders.HandleFired(context.Background(), typed.Timer.Key); err != nil {
				m.Status = StatusBar{Text: err.Error(), IsError: true}
			} else {
				m.Status = StatusBar{Text: "reminder fired: " + typed.Timer.Key, IsError: false}
			}
		}
		return m, waitForTimerCmd(m.timerEvents)
	case pollTriggeredMsg:
		m.spinnerActive = false
		if typed.Ran {
			m.Status = StatusBar{Text: "poll cycle finished", IsError: false}
		} else {
			m.Status = StatusBar{Text: "poll already running, request skipped", IsError: false}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Palette.Active {
		return m.handlePaletteKey(msg)
	}
	if m.Editor.Active {
		return m.handleEditorKey(msg)
	}
	if m.CaptureMode && m.CurrentView == ViewTasks {
		return m.handleCaptureKey(msg)
	}

	switch msg.String() {
	case "/":
		m.Palette.Active = true
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.Status = StatusBar{Text: "command palette active", IsError: false}
		return m, nil
	case m.Keys.Tasks:
		m.CurrentView = ViewTasks
		return m, nil
	case m.Keys.Issues:
		m.CurrentView = ViewIssues
		return m, nil
	case m.Keys.Mail:
		m.CurrentView = ViewMail
		return m, nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case "S":
		if !m.spinnerActive {
			m.spinnerActive = true
			m.Status = StatusBar{Text: "poll started", IsError: false}
			return m, tea.Batch(m.syncSpinner.Tick, m.triggerPollCmd())
		}
		return m, nil
	case "ctrl+c", m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	}

	switch m.CurrentView {
	case ViewTasks:
		return m.handleTasksKey(msg)
	case ViewIssues:
		m.Issues.Cursor = moveCursor(msg.String(), m.Issues.Cursor, len(m.Issues.Items))
		return m, nil
	case ViewMail:
		return m.handleMailKey(msg)
	}
	return m, nil
}

func moveCursor(key string, cursor, length int) int {
	switch key {
	case "j", "down":
		cursor++
	case "k", "up":
		cursor--
	}
	if cursor < 0 {
		cursor = 0
	}
	if cursor >= length && length > 0 {
		cursor = length - 1
	}
	return cursor
}

func (m Model) applyPollResult(res poll.Result) Model {
	state := SourceState{
		Items:    res.Items,
		NewCount: len(res.NewItems),
		LastPoll: res.At,
	}
	switch res.Source {
	case model.SourceGitHub:
		state.Cursor = m.Issues.Cursor
		m.Issues = state
	case model.SourceGmail:
		state.Cursor = m.Mail.Cursor
		m.Mail = state
	}
	if res.Err != nil {
		m.Status = StatusBar{Text: fmt.Sprintf("poll %s failed: %v", res.Source, res.Err), IsError: true}
		return m
	}
	if len(res.NewItems) > 0 {
		m.Status = StatusBar{Text: fmt.Sprintf("%d new from %s", len(res.NewItems), res.Source), IsError: false}
	}
	return m
}

func (m Model) View() string {
	m.syncBubbleData()
	status := m.Status.Text
	if m.Status.IsError {
		status = "error: " + status
	}

	leftPane := ""
	switch m.CurrentView {
	case ViewTasks:
		leftPane = views.RenderTasksPanel(views.TasksPanelData{
			QuickAddView: m.quickAddInput.View(),
			ListView:     m.tasksList.View(),
			CaptureMode:  m.CaptureMode,
		})
	case ViewIssues:
		leftPane = views.RenderIssuesPanel(views.IssuesPanelData{
			TableView: m.issuesTable.View(),
			Count:     len(m.Issues.Items),
			NewCount:  m.Issues.NewCount,
			LastPoll:  formatPollTime(m.Issues.LastPoll),
		})
	case ViewMail:
		leftPane = views.RenderMailPanel(views.MailPanelData{
			TableView: m.mailTable.View(),
			Count:     len(m.Mail.Items),
			NewCount:  m.Mail.NewCount,
			LastPoll:  formatPollTime(m.Mail.LastPoll),
		})
	}

	rightPane := views.RenderDetailPane(views.DetailPaneData{
		Heading:      m.detailHeading(),
		ViewportView: views.RenderMarkdown(m.detailMarkdown()),
	})
	rightPane += views.RenderReminderEditor(views.ReminderEditorData{
		Active:      m.Editor.Active,
		TaskTitle:   m.Editor.TaskTitle,
		StartField:  m.Editor.StartText,
		LeadsField:  m.Editor.LeadsText,
		ActiveField: m.Editor.Field,
		ErrorText:   m.Editor.Err,
	})
	rightPane += views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
	rightPane += m.renderHelpIfVisible()

	notification := ""
	if m.spinnerActive {
		notification = "poll: " + m.syncSpinner.View() + " running"
	}

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("paneld | view: %s | selected: %s", m.CurrentView, m.SelectedTaskID),
		LeftPane:     leftPane,
		RightPane:    rightPane,
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: notification,
		Footer: fmt.Sprintf("keys: %s tasks | %s issues | %s mail | S poll | / cmd | %s help | %s quit",
			m.Keys.Tasks, m.Keys.Issues, m.Keys.Mail, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) detailHeading() string {
	switch m.CurrentView {
	case ViewTasks:
		if task, ok := m.currentTask(); ok {
			return task.Title
		}
	case ViewIssues:
		if item, ok := currentItem(m.Issues); ok {
			return item.ID
		}
	case ViewMail:
		if item, ok := currentItem(m.Mail); ok {
			return item.ID
		}
	}
	return "(no selection)"
}

func formatPollTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("15:04:05")
}

func (m *Model) syncSelectedTask() {
	if task, ok := m.currentTask(); ok {
		m.SelectedTaskID = task.ID
	} else {
		m.SelectedTaskID = ""
	}
}
