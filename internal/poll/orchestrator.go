// Package poll drives the fixed-interval check of the external sources. One
// cycle fetches each configured source in turn, diffs against the stored
// snapshot, raises at most one notification per source, and commits the
// fresh ID set.
package poll

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/sandeepkv93/paneld/internal/detector"
	"github.com/sandeepkv93/paneld/internal/model"
	"github.com/sandeepkv93/paneld/internal/notify"
	"github.com/sandeepkv93/paneld/internal/snapshot"
	"github.com/sandeepkv93/paneld/internal/source"
)

// Result reports one source's outcome in a cycle, published for the UI.
type Result struct {
	Source   model.Source
	Items    []model.ExternalItem
	NewItems []model.ExternalItem
	Err      error
	At       time.Time
}

type Orchestrator struct {
	sources  []source.Source
	store    *snapshot.Store
	notifier notify.Notifier
	interval time.Duration

	// busy guards against a tick overlapping a still-running cycle: the
	// tick is skipped, not queued.
	busy sync.Mutex

	results chan Result
	now     func() time.Time
}

func NewOrchestrator(sources []source.Source, store *snapshot.Store, notifier notify.Notifier, interval time.Duration, resultsBuffer int) *Orchestrator {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if resultsBuffer <= 0 {
		resultsBuffer = 16
	}
	return &Orchestrator{
		sources:  sources,
		store:    store,
		notifier: notifier,
		interval: interval,
		results:  make(chan Result, resultsBuffer),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Results delivers per-source outcomes of each cycle. Sends never block: if
// the reader falls behind, results are dropped.
func (o *Orchestrator) Results() <-chan Result { return o.results }

// Run polls once immediately, then on every interval tick until ctx ends.
func (o *Orchestrator) Run(ctx context.Context) {
	o.Trigger(ctx)

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !o.Trigger(ctx) {
				log.Printf("poll: previous cycle still running, tick skipped")
			}
		}
	}
}

// Trigger runs one full cycle unless a cycle is already in flight. It
// reports whether the cycle ran.
func (o *Orchestrator) Trigger(ctx context.Context) bool {
	if !o.busy.TryLock() {
		return false
	}
	defer o.busy.Unlock()

	for _, src := range o.sources {
		if !src.Configured() {
			continue
		}
		o.pollSource(ctx, src)
	}
	return true
}

// pollSource runs one source's cycle. A fetch failure is logged and leaves
// the stored snapshot untouched, so the stale set is still compared against
// on the next successful poll.
func (o *Orchestrator) pollSource(ctx context.Context, src source.Source) {
	name := src.Name()

	items, err := src.Fetch(ctx)
	if err != nil {
		log.Printf("poll: fetch %s: %v", name, err)
		o.publish(Result{Source: name, Err: err, At: o.now()})
		return
	}

	previous := o.store.Load(ctx, name)
	fresh := detector.DetectNew(items, previous)

	if len(fresh) > 0 {
		title, body := Summarize(name, fresh)
		id := fmt.Sprintf("%s_%d", name, o.now().UnixMilli())
		if err := o.notifier.Send(id, title, body); err != nil {
			log.Printf("poll: notify %s: %v", name, err)
		}
	}

	if err := o.store.Commit(ctx, name, model.CollectIDs(items)); err != nil {
		log.Printf("poll: commit snapshot %s: %v", name, err)
	}

	o.publish(Result{Source: name, Items: items, NewItems: fresh, At: o.now()})
}

func (o *Orchestrator) publish(res Result) {
	select {
	case o.results <- res:
	default:
	}
}

// Summarize collapses a batch of new items into one notification: the count
// in the title, the first item's summary in the body, and a "+N others"
// suffix when the batch holds more than one.
func Summarize(src model.Source, fresh []model.ExternalItem) (title, body string) {
	noun := "item"
	switch src {
	case model.SourceGitHub:
		noun = "GitHub issue"
	case model.SourceGmail:
		noun = "email"
	}

	if len(fresh) == 1 {
		title = fmt.Sprintf("1 new %s", noun)
		body = fresh[0].Summary()
		return title, body
	}
	title = fmt.Sprintf("%d new %ss", len(fresh), noun)
	body = fmt.Sprintf("%s +%d others", fresh[0].Summary(), len(fresh)-1)
	return title, body
}
