package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/paneld/internal/commands"
	"github.com/sandeepkv93/paneld/internal/model"
	"github.com/sandeepkv93/paneld/internal/storage"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette = PaletteState{}
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
		return m, cmd
	}
}

func (m Model) executePaletteCommand() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.Palette = PaletteState{}
	m.commandInput.SetValue("")
	m.commandInput.Blur()

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var followUp tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			if m.repo == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeHandlerMissing, Message: "no task store"}
			}
			now := time.Now().UTC()
			task := storage.Task{ID: newTaskID(now), Title: a.Title, CreatedAt: now}
			if err := m.repo.CreateTask(context.Background(), task); err != nil {
				return commands.Result{}, err
			}
			m.CurrentView = ViewTasks
			followUp = m.loadTasksCmd()
			return commands.Result{Message: "added task: " + a.Title}, nil
		},
		Done: func(d commands.DoneArgs) (commands.Result, error) {
			if m.repo == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeHandlerMissing, Message: "no task store"}
			}
			task, err := m.repo.GetTask(context.Background(), d.TaskID)
			if err != nil {
				return commands.Result{}, err
			}
			now := time.Now().UTC()
			task.Completed = true
			task.CompletedAt = &now
			if err := m.repo.UpdateTask(context.Background(), task); err != nil {
				return commands.Result{}, err
			}
			if m.reminders != nil {
				m.reminders.CancelAll(task.ID)
			}
			followUp = m.loadTasksCmd()
			return commands.Result{Message: "completed: " + task.Title}, nil
		},
		Remind: func(r commands.RemindArgs) (commands.Result, error) {
			startAt, err := parseStartTime(r.When)
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			if m.repo != nil {
				task, err := m.repo.GetTask(context.Background(), r.TaskID)
				if err != nil {
					return commands.Result{}, err
				}
				task.StartAt = &startAt
				task.LeadMinutes = model.NormalizeLeads(r.LeadMinutes)
				if err := m.repo.UpdateTask(context.Background(), task); err != nil {
					return commands.Result{}, err
				}
			}
			if m.reminders != nil {
				if err := m.reminders.Reschedule(r.TaskID, startAt, r.LeadMinutes); err != nil {
					return commands.Result{}, err
				}
			}
			followUp = m.loadTasksCmd()
			return commands.Result{Message: fmt.Sprintf("reminders set for %s at %s", r.TaskID, startAt.Format(startTimeLayout))}, nil
		},
		Poll: func() (commands.Result, error) {
			followUp = m.triggerPollCmd()
			return commands.Result{Message: "poll requested"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message, IsError: false}
	return m, followUp
}
