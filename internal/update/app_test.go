package update

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/paneld/internal/model"
	"github.com/sandeepkv93/paneld/internal/poll"
	"github.com/sandeepkv93/paneld/internal/reminder"
	"github.com/sandeepkv93/paneld/internal/scheduler"
	"github.com/sandeepkv93/paneld/internal/storage"
)

type memRepo struct {
	tasks map[string]storage.Task
	kv    map[string][]byte
}

func newMemRepo() *memRepo {
	return &memRepo{tasks: make(map[string]storage.Task), kv: make(map[string][]byte)}
}

func (r *memRepo) CreateTask(_ context.Context, in storage.Task) error {
	r.tasks[in.ID] = in
	return nil
}

func (r *memRepo) GetTask(_ context.Context, id string) (storage.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return storage.Task{}, storage.ErrNotFound
	}
	return task, nil
}

func (r *memRepo) UpdateTask(_ context.Context, in storage.Task) error {
	if _, ok := r.tasks[in.ID]; !ok {
		return storage.ErrNotFound
	}
	r.tasks[in.ID] = in
	return nil
}

func (r *memRepo) DeleteTask(_ context.Context, id string) error {
	if _, ok := r.tasks[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *memRepo) ListTasks(_ context.Context, _ storage.TaskListFilter) ([]storage.Task, error) {
	out := make([]storage.Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		out = append(out, task)
	}
	return out, nil
}

func (r *memRepo) GetValue(_ context.Context, key string) ([]byte, error) {
	raw, ok := r.kv[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return raw, nil
}

func (r *memRepo) SetValue(_ context.Context, key string, value []byte) error {
	r.kv[key] = value
	return nil
}

type noopNotifier struct{}

func (noopNotifier) Send(string, string, string) error { return nil }

func newTestModel(t *testing.T) (Model, *memRepo, *scheduler.Service) {
	t.Helper()
	repo := newMemRepo()
	svc := scheduler.NewService(8)
	reminders := reminder.NewScheduler(svc, repoTaskReader{repo}, noopNotifier{})
	m := NewModel(Deps{Repo: repo, Reminders: reminders})
	return m, repo, svc
}

type repoTaskReader struct {
	repo *memRepo
}

func (r repoTaskReader) GetTask(ctx context.Context, id string) (storage.Task, error) {
	return r.repo.GetTask(ctx, id)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func apply(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	typed, ok := next.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return typed, cmd
}

func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return m
		}
		m, cmd = apply(t, m, msg)
	}
	return m
}

func TestViewSwitchKeys(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = apply(t, m, keyMsg("2"))
	if m.CurrentView != ViewIssues {
		t.Fatalf("expected Issues view, got %s", m.CurrentView)
	}
	m, _ = apply(t, m, keyMsg("3"))
	if m.CurrentView != ViewMail {
		t.Fatalf("expected Mail view, got %s", m.CurrentView)
	}
	m, _ = apply(t, m, keyMsg("1"))
	if m.CurrentView != ViewTasks {
		t.Fatalf("expected Tasks view, got %s", m.CurrentView)
	}
}

func TestQuickAddCreatesTask(t *testing.T) {
	m, repo, _ := newTestModel(t)

	m, _ = apply(t, m, keyMsg("a"))
	if !m.CaptureMode {
		t.Fatal("expected capture mode")
	}
	for _, r := range "Buy milk" {
		m, _ = apply(t, m, keyMsg(string(r)))
	}
	var cmd tea.Cmd
	m, cmd = apply(t, m, keyMsg("enter"))
	m = drain(t, m, cmd)

	if len(repo.tasks) != 1 {
		t.Fatalf("expected one stored task, got %d", len(repo.tasks))
	}
	if len(m.Tasks) != 1 || m.Tasks[0].Title != "Buy milk" {
		t.Fatalf("unexpected tasks: %#v", m.Tasks)
	}
}

func TestPollResultUpdatesIssuesState(t *testing.T) {
	m, _, _ := newTestModel(t)
	res := poll.Result{
		Source: model.SourceGitHub,
		Items: []model.ExternalItem{
			{ID: "acme/widgets#1", Title: "Fix the build"},
		},
		NewItems: []model.ExternalItem{
			{ID: "acme/widgets#1", Title: "Fix the build"},
		},
		At: time.Now().UTC(),
	}
	m, _ = apply(t, m, PollResultMsg{Result: res})

	if len(m.Issues.Items) != 1 || m.Issues.NewCount != 1 {
		t.Fatalf("unexpected issues state: %#v", m.Issues)
	}
	if m.Status.Text != "1 new from github" {
		t.Fatalf("unexpected status: %q", m.Status.Text)
	}
}

func TestPaletteDoneCompletesTaskAndCancelsTimers(t *testing.T) {
	m, repo, svc := newTestModel(t)
	start := time.Now().UTC().Add(2 * time.Hour)
	repo.tasks["task-1"] = storage.Task{ID: "task-1", Title: "Standup", StartAt: &start, LeadMinutes: []int{15}}
	if err := m.reminders.Reschedule("task-1", start, []int{15}); err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if len(svc.List()) != 1 {
		t.Fatalf("expected one live timer, got %d", len(svc.List()))
	}

	m, _ = apply(t, m, keyMsg("/"))
	for _, r := range "done task-1" {
		m, _ = apply(t, m, keyMsg(string(r)))
	}
	var cmd tea.Cmd
	m, cmd = apply(t, m, keyMsg("enter"))
	m = drain(t, m, cmd)

	if !repo.tasks["task-1"].Completed {
		t.Fatal("expected task completed")
	}
	if len(svc.List()) != 0 {
		t.Fatalf("expected timers cancelled, got %#v", svc.List())
	}
	if m.Status.IsError {
		t.Fatalf("unexpected error status: %q", m.Status.Text)
	}
}

func TestReminderEditorAppliesSchedule(t *testing.T) {
	m, repo, svc := newTestModel(t)
	repo.tasks["task-1"] = storage.Task{ID: "task-1", Title: "Standup"}
	m.Tasks = []storage.Task{repo.tasks["task-1"]}

	m, _ = apply(t, m, keyMsg("r"))
	if !m.Editor.Active {
		t.Fatal("expected editor active")
	}
	start := time.Now().UTC().Add(3 * time.Hour).Truncate(time.Minute)
	m.Editor.StartText = start.Format(startTimeLayout)
	m.Editor.LeadsText = "15,60"

	var cmd tea.Cmd
	m, cmd = apply(t, m, keyMsg("enter"))
	m = drain(t, m, cmd)

	if m.Editor.Active {
		t.Fatalf("expected editor closed, err=%q", m.Editor.Err)
	}
	stored := repo.tasks["task-1"]
	if stored.StartAt == nil || !stored.StartAt.Equal(start) {
		t.Fatalf("unexpected start: %#v", stored.StartAt)
	}
	if len(stored.LeadMinutes) != 2 {
		t.Fatalf("unexpected leads: %v", stored.LeadMinutes)
	}
	if len(svc.List()) != 2 {
		t.Fatalf("expected two timers, got %#v", svc.List())
	}
}

func TestUnknownPaletteCommandSetsErrorStatus(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = apply(t, m, keyMsg("/"))
	for _, r := range "launch" {
		m, _ = apply(t, m, keyMsg(string(r)))
	}
	m, _ = apply(t, m, keyMsg("enter"))

	if !m.Status.IsError {
		t.Fatalf("expected error status, got %q", m.Status.Text)
	}
	if m.Palette.Active {
		t.Fatal("expected palette closed")
	}
}
