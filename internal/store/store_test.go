package store

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type testDoc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestStore_CreateReadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	want := testDoc{Name: "alpha", Count: 3}
	if err := s.Create(ctx, "things", "k1", want); err != nil {
		t.Fatalf("Create: %v", err)
	}

	var got testDoc
	if err := s.Read(ctx, "things", "k1", &got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: want=%+v got=%+v", want, got)
	}
}

func TestStore_CreateIsExclusive(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	if err := s.Create(ctx, "things", "k1", testDoc{Name: "a"}); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	err := s.Create(ctx, "things", "k1", testDoc{Name: "b"})
	if !errors.Is(err, ErrExists) {
		t.Fatalf("want ErrExists, got %v", err)
	}

	// The losing create must not have clobbered the original.
	var got testDoc
	if err := s.Read(ctx, "things", "k1", &got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Name != "a" {
		t.Fatalf("original overwritten: %+v", got)
	}
}

func TestStore_ReadMissing(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	var got testDoc
	err := s.Read(ctx, "things", "nope", &got)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestStore_ReadCorrupt(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.EnsureCollection("things"); err != nil {
		t.Fatalf("EnsureCollection: %v", err)
	}
	// Damage a record out from under the store.
	if err := os.WriteFile(filepath.Join(dir, "things", "bad.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write garbage: %v", err)
	}

	var got testDoc
	err = s.Read(ctx, "things", "bad", &got)
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("want ErrCorrupt, got %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("corrupt record must not look like a miss")
	}
}

func TestStore_UpdateReplacesAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := s.Create(ctx, "things", "k1", testDoc{Name: "v1", Count: 1}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	doc := testDoc{Name: "v2", Count: 2}
	if err := s.Update(ctx, "things", "k1", doc); err != nil {
		t.Fatalf("Update: %v", err)
	}
	once, err := os.ReadFile(filepath.Join(dir, "things", "k1.json"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if err := s.Update(ctx, "things", "k1", doc); err != nil {
		t.Fatalf("second Update: %v", err)
	}
	twice, err := os.ReadFile(filepath.Join(dir, "things", "k1.json"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !bytes.Equal(once, twice) {
		t.Fatalf("update not idempotent:\nonce =%s\ntwice=%s", once, twice)
	}

	var got testDoc
	if err := s.Read(ctx, "things", "k1", &got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != doc {
		t.Fatalf("want %+v, got %+v", doc, got)
	}
}

func TestStore_UpdateMissing(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	err := s.Update(ctx, "things", "nope", testDoc{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	if err := s.Create(ctx, "things", "k1", testDoc{Name: "a"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Delete(ctx, "things", "k1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "things", "k1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound on double delete, got %v", err)
	}
	var got testDoc
	if err := s.Read(ctx, "things", "k1", &got); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	// Missing collection is a distinct condition, not an empty result.
	if _, err := s.List(ctx, "things"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound for missing collection, got %v", err)
	}

	if err := s.EnsureCollection("things"); err != nil {
		t.Fatalf("EnsureCollection: %v", err)
	}
	keys, err := s.List(ctx, "things")
	if err != nil {
		t.Fatalf("List empty: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("want empty list, got %v", keys)
	}

	for _, k := range []string{"a", "b", "c"} {
		if err := s.Create(ctx, "things", k, testDoc{Name: k}); err != nil {
			t.Fatalf("Create %s: %v", k, err)
		}
	}
	keys, err = s.List(ctx, "things")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 3 {
		t.Fatalf("want 3 keys, got %v", keys)
	}
	seen := map[string]bool{}
	for _, k := range keys {
		seen[k] = true
	}
	for _, k := range []string{"a", "b", "c"} {
		if !seen[k] {
			t.Fatalf("key %q missing from %v", k, keys)
		}
	}
}
