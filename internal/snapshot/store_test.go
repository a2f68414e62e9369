package snapshot

import (
	"context"
	"errors"
	"testing"

	"github.com/sandeepkv93/paneld/internal/model"
)

type memKV struct {
	values map[string][]byte
}

func newMemKV() *memKV {
	return &memKV{values: make(map[string][]byte)}
}

func (m *memKV) GetValue(_ context.Context, key string) ([]byte, error) {
	v, ok := m.values[key]
	if !ok {
		return nil, errors.New("storage: not found")
	}
	return v, nil
}

func (m *memKV) SetValue(_ context.Context, key string, value []byte) error {
	m.values[key] = value
	return nil
}

func TestCommitThenLoadRoundTrip(t *testing.T) {
	store := NewStore(newMemKV())
	ctx := context.Background()

	ids := model.NewIDSet("issue-2", "issue-1", "issue-3")
	if err := store.Commit(ctx, model.SourceGitHub, ids); err != nil {
		t.Fatalf("commit: %v", err)
	}

	got := store.Load(ctx, model.SourceGitHub)
	if len(got) != 3 {
		t.Fatalf("unexpected set size: %d", len(got))
	}
	for id := range ids {
		if !got.Has(id) {
			t.Fatalf("missing id %q in loaded snapshot", id)
		}
	}
}

func TestLoadAbsentReturnsEmptySet(t *testing.T) {
	store := NewStore(newMemKV())
	got := store.Load(context.Background(), model.SourceGmail)
	if len(got) != 0 {
		t.Fatalf("expected empty set, got %#v", got)
	}
}

func TestLoadMalformedReturnsEmptySet(t *testing.T) {
	kv := newMemKV()
	store := NewStore(kv)
	ctx := context.Background()

	for _, raw := range []string{`{"ids":"nope"}`, `42`, `not json`, `{"other":true}`} {
		kv.values["snapshot_github"] = []byte(raw)
		got := store.Load(ctx, model.SourceGitHub)
		if len(got) != 0 {
			t.Fatalf("expected empty set for %q, got %#v", raw, got)
		}
	}
}

func TestLoadLegacyBareArray(t *testing.T) {
	kv := newMemKV()
	kv.values["snapshot_gmail"] = []byte(`["m1","m2"]`)
	store := NewStore(kv)

	got := store.Load(context.Background(), model.SourceGmail)
	if !got.Has("m1") || !got.Has("m2") || len(got) != 2 {
		t.Fatalf("unexpected legacy load: %#v", got)
	}
}

func TestCommitReplacesFully(t *testing.T) {
	store := NewStore(newMemKV())
	ctx := context.Background()

	if err := store.Commit(ctx, model.SourceGitHub, model.NewIDSet("a", "b")); err != nil {
		t.Fatalf("first commit: %v", err)
	}
	if err := store.Commit(ctx, model.SourceGitHub, model.NewIDSet("c", "a")); err != nil {
		t.Fatalf("second commit: %v", err)
	}

	got := store.Load(ctx, model.SourceGitHub)
	if got.Has("b") {
		t.Fatal("expected dropped id to be gone after replace")
	}
	if !got.Has("a") || !got.Has("c") || len(got) != 2 {
		t.Fatalf("unexpected snapshot after replace: %#v", got)
	}
}
