package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNotFound means the record (or its collection directory) does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrExists means Create was asked to write a key that is already taken.
	ErrExists = errors.New("store: already exists")
	// ErrCorrupt means the record exists but its bytes do not decode.
	ErrCorrupt = errors.New("store: corrupt record")
)

const fileExt = ".json"

// Store persists documents as one JSON file per record, grouped in one
// directory per collection. It knows nothing about what the documents mean.
type Store struct {
	baseDir string
}

func New(baseDir string) (*Store, error) {
	if baseDir == "" {
		return nil, errors.New("store: empty base dir")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("store: mkdir base: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

// EnsureCollection creates the collection directory if it is missing.
func (s *Store) EnsureCollection(name string) error {
	return os.MkdirAll(filepath.Join(s.baseDir, name), 0o755)
}

func (s *Store) path(collection, key string) string {
	return filepath.Join(s.baseDir, collection, key+fileExt)
}

// Create writes a new record. The file is opened with O_EXCL so two
// concurrent writers cannot both observe "does not exist" for the same key.
func (s *Store) Create(ctx context.Context, collection, key string, doc any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("store: encode %s/%s: %w", collection, key, err)
	}
	if err := s.EnsureCollection(collection); err != nil {
		return fmt.Errorf("store: mkdir %s: %w", collection, err)
	}
	f, err := os.OpenFile(s.path(collection, key), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s/%s", ErrExists, collection, key)
		}
		return fmt.Errorf("store: create %s/%s: %w", collection, key, err)
	}
	if _, err := f.Write(b); err != nil {
		f.Close()
		return fmt.Errorf("store: write %s/%s: %w", collection, key, err)
	}
	return f.Close()
}

// Read decodes the record into out. A missing file is ErrNotFound; bytes
// that do not decode are ErrCorrupt, so damage is never mistaken for a miss.
func (s *Store) Read(ctx context.Context, collection, key string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := os.ReadFile(s.path(collection, key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, key)
		}
		return fmt.Errorf("store: read %s/%s: %w", collection, key, err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("%w: %s/%s: %v", ErrCorrupt, collection, key, err)
	}
	return nil
}

// Update replaces an existing record in full. The new contents go to a
// temp file in the same directory and are renamed over the target, so a
// crash mid-write never leaves a record that parses as valid-but-wrong.
func (s *Store) Update(ctx context.Context, collection, key string, doc any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := s.path(collection, key)
	if _, err := os.Stat(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, key)
		}
		return fmt.Errorf("store: stat %s/%s: %w", collection, key, err)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("store: encode %s/%s: %w", collection, key, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), key+".tmp-*")
	if err != nil {
		return fmt.Errorf("store: temp %s/%s: %w", collection, key, err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("store: write %s/%s: %w", collection, key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: close %s/%s: %w", collection, key, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: rename %s/%s: %w", collection, key, err)
	}
	return nil
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, collection, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(s.path(collection, key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, key)
		}
		return fmt.Errorf("store: delete %s/%s: %w", collection, key, err)
	}
	return nil
}

// List returns the keys of every record in the collection, in no
// particular order. A missing collection directory is ErrNotFound; an
// existing-but-empty directory is an empty slice.
func (s *Store) List(ctx context.Context, collection string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(s.baseDir, collection))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, collection)
		}
		return nil, fmt.Errorf("store: list %s: %w", collection, err)
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, fileExt))
	}
	return keys, nil
}
