package reminder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/paneld/internal/model"
	"github.com/sandeepkv93/paneld/internal/notify"
	"github.com/sandeepkv93/paneld/internal/scheduler"
	"github.com/sandeepkv93/paneld/internal/storage"
)

// Timers is the slice of the wake-timer service the reminder scheduler uses.
type Timers interface {
	Create(key string, fireAt time.Time) error
	Cancel(key string)
	List() []scheduler.Timer
}

// TaskReader re-reads a task when its timer fires, so stale timers can be
// discarded against current state instead of the state at scheduling time.
type TaskReader interface {
	GetTask(ctx context.Context, id string) (storage.Task, error)
}

// TaskLister enumerates persisted tasks for Restore.
type TaskLister interface {
	ListTasks(ctx context.Context, filter storage.TaskListFilter) ([]storage.Task, error)
}

// Scheduler maps (task, lead-time) pairs to keyed one-shot wake timers.
type Scheduler struct {
	timers   Timers
	tasks    TaskReader
	notifier notify.Notifier
	now      func() time.Time
}

func NewScheduler(timers Timers, tasks TaskReader, notifier notify.Notifier) *Scheduler {
	return &Scheduler{
		timers:   timers,
		tasks:    tasks,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Schedule registers one reminder timer. A fire time at or before now is a
// silent no-op: past reminders are dropped, not fired immediately.
func (s *Scheduler) Schedule(taskID string, startAt time.Time, leadMinutes int) error {
	if leadMinutes <= 0 {
		return fmt.Errorf("%w: %d", model.ErrInvalidLeadTime, leadMinutes)
	}
	fireAt := startAt.Add(-time.Duration(leadMinutes) * time.Minute)
	if !fireAt.After(s.now()) {
		return nil
	}
	key := Key{TaskID: taskID, LeadMinutes: leadMinutes}
	return s.timers.Create(key.String(), fireAt)
}

// CancelAll cancels every live reminder timer of a task. Used on completion
// and deletion, and as the first half of Reschedule. Best-effort: a timer
// that fired concurrently is caught by HandleFired's liveness check.
func (s *Scheduler) CancelAll(taskID string) {
	prefix := TaskPrefix(taskID)
	for _, timer := range s.timers.List() {
		if strings.HasPrefix(timer.Key, prefix) {
			s.timers.Cancel(timer.Key)
		}
	}
}

// Reschedule replaces a task's reminder set wholesale: cancel everything,
// then schedule one timer per lead time. There is no partial diffing of old
// versus new lead times.
func (s *Scheduler) Reschedule(taskID string, startAt time.Time, leadMinutes []int) error {
	s.CancelAll(taskID)
	for _, lead := range model.NormalizeLeads(leadMinutes) {
		if err := s.Schedule(taskID, startAt, lead); err != nil {
			return err
		}
	}
	return nil
}

// Restore rebuilds the timer set from persisted tasks. The wake-timer
// service is in-memory, so every reminder scheduled before a restart must be
// re-registered here; Schedule drops fire times already in the past.
func (s *Scheduler) Restore(ctx context.Context, tasks TaskLister) error {
	open := false
	list, err := tasks.ListTasks(ctx, storage.TaskListFilter{Completed: &open})
	if err != nil {
		return fmt.Errorf("restore reminders: %w", err)
	}
	for _, task := range list {
		if task.StartAt == nil || len(task.LeadMinutes) == 0 {
			continue
		}
		if err := s.Reschedule(task.ID, *task.StartAt, task.LeadMinutes); err != nil {
			return fmt.Errorf("restore reminders for %s: %w", task.ID, err)
		}
	}
	return nil
}

// HandleFired resolves a fired timer key back to its task and notifies only
// if the task still exists and is not completed. Malformed keys and stale
// timers are silently discarded; this path must never take down the alarm
// dispatch loop.
func (s *Scheduler) HandleFired(ctx context.Context, rawKey string) error {
	key, ok := ParseKey(rawKey)
	if !ok {
		return nil
	}
	task, err := s.tasks.GetTask(ctx, key.TaskID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("reminder lookup %s: %w", key.TaskID, err)
	}
	if task.Completed {
		return nil
	}
	body := fmt.Sprintf("%s starts in %d minutes", task.Title, key.LeadMinutes)
	if key.LeadMinutes == 1 {
		body = fmt.Sprintf("%s starts in 1 minute", task.Title)
	}
	return s.notifier.Send(rawKey, "Task reminder", body)
}
