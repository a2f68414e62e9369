package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sandeepkv93/paneld/internal/model"
)

// KV is the slice of the storage repository the snapshot store needs.
type KV interface {
	GetValue(ctx context.Context, key string) ([]byte, error)
	SetValue(ctx context.Context, key string, value []byte) error
}

// Store persists the last-seen item IDs per source. Every commit is a full
// replace; there is no merge path.
type Store struct {
	kv  KV
	now func() time.Time
}

type document struct {
	IDs  []string  `json:"ids"`
	AsOf time.Time `json:"as_of"`
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv, now: func() time.Time { return time.Now().UTC() }}
}

func storageKey(source model.Source) string {
	return "snapshot_" + string(source)
}

// Load returns the known ID set for source. Absent or malformed persisted
// state yields an empty set, never an error: the next poll simply treats
// everything as new and rewrites the snapshot.
func (s *Store) Load(ctx context.Context, source model.Source) model.IDSet {
	raw, err := s.kv.GetValue(ctx, storageKey(source))
	if err != nil {
		return model.IDSet{}
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err == nil && doc.IDs != nil {
		return model.NewIDSet(doc.IDs...)
	}

	// Older snapshots were a bare JSON array of IDs.
	var ids []string
	if err := json.Unmarshal(raw, &ids); err == nil {
		return model.NewIDSet(ids...)
	}
	return model.IDSet{}
}

// Commit replaces the stored snapshot for source with ids.
func (s *Store) Commit(ctx context.Context, source model.Source, ids model.IDSet) error {
	doc := document{IDs: ids.Sorted(), AsOf: s.now()}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal snapshot for %s: %w", source, err)
	}
	if err := s.kv.SetValue(ctx, storageKey(source), raw); err != nil {
		return fmt.Errorf("commit snapshot for %s: %w", source, err)
	}
	return nil
}
