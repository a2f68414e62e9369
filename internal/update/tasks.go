package update

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/paneld/internal/model"
	"github.com/sandeepkv93/paneld/internal/storage"
)

func (m Model) handleTasksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a":
		m.CaptureMode = true
		m.quickAddInput.SetValue("")
		m.quickAddInput.Focus()
		return m, nil
	case "j", "down", "k", "up":
		m.TasksCursor = moveCursor(msg.String(), m.TasksCursor, len(m.Tasks))
		m.syncSelectedTask()
		return m, nil
	case "c":
		return m.completeSelectedTask()
	case "x":
		return m.deleteSelectedTask()
	case "r":
		return m.openReminderEditor()
	}
	return m, nil
}

func (m Model) handleCaptureKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.CaptureMode = false
		m.quickAddInput.Blur()
		return m, nil
	case "enter":
		title := strings.TrimSpace(m.quickAddInput.Value())
		m.CaptureMode = false
		m.quickAddInput.SetValue("")
		m.quickAddInput.Blur()
		if title == "" {
			return m, nil
		}
		return m.createTask(title)
	default:
		var cmd tea.Cmd
		m.quickAddInput, cmd = m.quickAddInput.Update(msg)
		return m, cmd
	}
}

func (m Model) createTask(title string) (tea.Model, tea.Cmd) {
	if m.repo == nil {
		return m, nil
	}
	now := time.Now().UTC()
	task := storage.Task{
		ID:        newTaskID(now),
		Title:     title,
		CreatedAt: now,
	}
	if err := m.repo.CreateTask(context.Background(), task); err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: "added task: " + title, IsError: false}
	return m, m.loadTasksCmd()
}

// completeSelectedTask marks the task done and drops its reminder timers;
// stale timers that already fired are caught by the liveness check.
func (m Model) completeSelectedTask() (tea.Model, tea.Cmd) {
	task, ok := m.currentTask()
	if !ok || m.repo == nil {
		return m, nil
	}
	now := time.Now().UTC()
	task.Completed = true
	task.CompletedAt = &now
	if err := m.repo.UpdateTask(context.Background(), task); err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	if m.reminders != nil {
		m.reminders.CancelAll(task.ID)
	}
	m.Status = StatusBar{Text: "completed: " + task.Title, IsError: false}
	return m, m.loadTasksCmd()
}

func (m Model) deleteSelectedTask() (tea.Model, tea.Cmd) {
	task, ok := m.currentTask()
	if !ok || m.repo == nil {
		return m, nil
	}
	if err := m.repo.DeleteTask(context.Background(), task.ID); err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	if m.reminders != nil {
		m.reminders.CancelAll(task.ID)
	}
	m.Status = StatusBar{Text: "deleted: " + task.Title, IsError: false}
	return m, m.loadTasksCmd()
}

func (m Model) openReminderEditor() (tea.Model, tea.Cmd) {
	task, ok := m.currentTask()
	if !ok {
		return m, nil
	}
	m.Editor = ReminderEditorState{
		Active:    true,
		TaskID:    task.ID,
		TaskTitle: task.Title,
		Field:     "start",
		LeadsText: leadsToText(task.LeadMinutes),
	}
	if task.StartAt != nil {
		m.Editor.StartText = task.StartAt.Format(startTimeLayout)
	}
	return m, nil
}

const startTimeLayout = "2006-01-02 15:04"

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Editor = ReminderEditorState{}
		return m, nil
	case "tab":
		if m.Editor.Field == "start" {
			m.Editor.Field = "leads"
		} else {
			m.Editor.Field = "start"
		}
		return m, nil
	case "enter":
		return m.applyReminderEditor()
	case "backspace":
		m.editorFieldDelete()
		return m, nil
	default:
		if msg.Type == tea.KeyRunes {
			m.editorFieldAppend(string(msg.Runes))
		}
		if msg.Type == tea.KeySpace {
			m.editorFieldAppend(" ")
		}
		return m, nil
	}
}

func (m *Model) editorFieldAppend(s string) {
	if m.Editor.Field == "leads" {
		m.Editor.LeadsText += s
		return
	}
	m.Editor.StartText += s
}

func (m *Model) editorFieldDelete() {
	if m.Editor.Field == "leads" {
		if len(m.Editor.LeadsText) > 0 {
			m.Editor.LeadsText = m.Editor.LeadsText[:len(m.Editor.LeadsText)-1]
		}
		return
	}
	if len(m.Editor.StartText) > 0 {
		m.Editor.StartText = m.Editor.StartText[:len(m.Editor.StartText)-1]
	}
}

// applyReminderEditor persists the new schedule and fully replaces the
// task's reminder timers.
func (m Model) applyReminderEditor() (tea.Model, tea.Cmd) {
	startAt, err := parseStartTime(m.Editor.StartText)
	if err != nil {
		m.Editor.Err = err.Error()
		return m, nil
	}
	leads, err := parseLeadList(m.Editor.LeadsText)
	if err != nil {
		m.Editor.Err = err.Error()
		return m, nil
	}

	if m.repo != nil {
		task, err := m.repo.GetTask(context.Background(), m.Editor.TaskID)
		if err != nil {
			m.Editor.Err = err.Error()
			return m, nil
		}
		task.StartAt = &startAt
		task.LeadMinutes = model.NormalizeLeads(leads)
		if err := m.repo.UpdateTask(context.Background(), task); err != nil {
			m.Editor.Err = err.Error()
			return m, nil
		}
	}
	if m.reminders != nil {
		if err := m.reminders.Reschedule(m.Editor.TaskID, startAt, leads); err != nil {
			m.Editor.Err = err.Error()
			return m, nil
		}
	}

	m.Status = StatusBar{Text: "reminders updated: " + m.Editor.TaskTitle, IsError: false}
	m.Editor = ReminderEditorState{}
	return m, m.loadTasksCmd()
}

func parseStartTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("start time is required")
	}
	for _, layout := range []string{startTimeLayout, time.RFC3339, "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized start time: %s", raw)
}

func parseLeadList(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	leads := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("invalid lead minutes: %s", part)
		}
		leads = append(leads, v)
	}
	if len(leads) == 0 {
		return nil, fmt.Errorf("at least one lead time is required")
	}
	return leads, nil
}

func leadsToText(leads []int) string {
	parts := make([]string, 0, len(leads))
	for _, lead := range leads {
		parts = append(parts, strconv.Itoa(lead))
	}
	return strings.Join(parts, ",")
}

func (m Model) handleMailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down", "k", "up":
		m.Mail.Cursor = moveCursor(msg.String(), m.Mail.Cursor, len(m.Mail.Items))
		return m, nil
	case "m":
		return m.mailAction("marked read", func(ctx context.Context, id string) error {
			return m.mailActions.MarkRead(ctx, id)
		})
	case "e":
		return m.mailAction("archived", func(ctx context.Context, id string) error {
			return m.mailActions.Archive(ctx, id)
		})
	}
	return m, nil
}

func (m Model) mailAction(verb string, action func(context.Context, string) error) (tea.Model, tea.Cmd) {
	item, ok := currentItem(m.Mail)
	if !ok || m.mailActions == nil {
		return m, nil
	}
	if err := action(context.Background(), item.ID); err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.Mail.Items = removeItem(m.Mail.Items, item.ID)
	m.Mail.Cursor = moveCursor("", m.Mail.Cursor, len(m.Mail.Items))
	m.Status = StatusBar{Text: verb + ": " + item.Summary(), IsError: false}
	return m, nil
}

func removeItem(items []model.ExternalItem, id string) []model.ExternalItem {
	out := items[:0]
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}
