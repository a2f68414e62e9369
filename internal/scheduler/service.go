package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrEmptyKey        = errors.New("scheduler: empty timer key")
	ErrInvalidFireTime = errors.New("scheduler: invalid fire time")
	ErrStopped         = errors.New("scheduler: service stopped")
)

// Timer is one keyed one-shot wake request. At most one live timer exists
// per key; creating a timer under an existing key replaces it.
type Timer struct {
	Key    string
	FireAt time.Time
}

type entry struct {
	timer   Timer
	removed bool
}

type timerQueue []*entry

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	return q[i].timer.FireAt.Before(q[j].timer.FireAt)
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *timerQueue) Push(x any) {
	*q = append(*q, x.(*entry))
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[0 : n-1]
	return item
}

// Service is the process-wide wake-timer facility. A single loop goroutine
// waits on the earliest live timer and emits fired timers on the out channel.
// Cancellation is lazy: cancelled entries stay in the heap until they surface
// and are skipped.
type Service struct {
	mu      sync.Mutex
	queue   timerQueue
	byKey   map[string]*entry
	out     chan Timer
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewService(bufferSize int) *Service {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Service{
		queue:  make(timerQueue, 0),
		byKey:  make(map[string]*entry),
		out:    make(chan Timer, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (s *Service) C() <-chan Timer {
	return s.out
}

func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	heap.Init(&s.queue)
	go s.loop()
}

func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.stopCh)
	s.mu.Unlock()
	<-s.doneCh
}

// Create registers a one-shot timer under key, replacing any live timer with
// the same key.
func (s *Service) Create(key string, fireAt time.Time) error {
	if key == "" {
		return ErrEmptyKey
	}
	if fireAt.IsZero() {
		return ErrInvalidFireTime
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrStopped
	}

	if prev, ok := s.byKey[key]; ok {
		prev.removed = true
	}
	e := &entry{timer: Timer{Key: key, FireAt: fireAt}}
	heap.Push(&s.queue, e)
	s.byKey[key] = e
	s.signalWakeup()
	return nil
}

// Cancel is best-effort: a timer that already fired is simply gone.
func (s *Service) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.byKey[key]; ok {
		e.removed = true
		delete(s.byKey, key)
	}
	s.signalWakeup()
}

// List returns all live timers in no particular order.
func (s *Service) List() []Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Timer, 0, len(s.byKey))
	for _, e := range s.queue {
		if e.removed {
			continue
		}
		out = append(out, e.timer)
	}
	return out
}

func (s *Service) Dropped() uint64 {
	return atomic.LoadUint64(&s.dropped)
}

func (s *Service) loop() {
	defer close(s.doneCh)
	defer close(s.out)

	var timer *time.Timer
	for {
		next, hasNext := s.peek()
		if !hasNext {
			select {
			case <-s.wakeup:
				continue
			case <-s.stopCh:
				return
			}
		}

		wait := time.Until(next.FireAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := s.popDue(time.Now().UTC())
			for _, fired := range due {
				select {
				case s.out <- fired:
				default:
					atomic.AddUint64(&s.dropped, 1)
				}
			}
		case <-s.wakeup:
			continue
		case <-s.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (s *Service) signalWakeup() {
	select {
	case s.wakeup <- struct{}{}:
	default:
	}
}

func (s *Service) peek() (Timer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.queue) > 0 && s.queue[0].removed {
		heap.Pop(&s.queue)
	}
	if len(s.queue) == 0 {
		return Timer{}, false
	}
	return s.queue[0].timer, true
}

func (s *Service) popDue(now time.Time) []Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Timer, 0)
	for len(s.queue) > 0 {
		head := s.queue[0]
		if head.removed {
			heap.Pop(&s.queue)
			continue
		}
		if head.timer.FireAt.After(now) {
			break
		}
		heap.Pop(&s.queue)
		if s.byKey[head.timer.Key] == head {
			delete(s.byKey, head.timer.Key)
		}
		out = append(out, head.timer)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
