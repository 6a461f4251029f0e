package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/sheetwise/interviewd/internal/interview"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// FileStore is the durable backend: one JSON file per session under dir.
// Writes go through a temp file and rename so a crash never leaves a
// truncated session on disk.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("session data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating session data directory %q: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Get reads the stored session from disk.
func (f *FileStore) Get(_ context.Context, id string) (*interview.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read(id)
}

// Put writes the session to disk.
func (f *FileStore) Put(_ context.Context, s *interview.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.write(s)
}

// Update applies mutate to the on-disk session under the store's exclusion.
func (f *FileStore) Update(_ context.Context, id string, mutate func(*interview.Session) error) (*interview.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := f.read(id)
	if err != nil {
		return nil, err
	}
	if err := mutate(s); err != nil {
		return nil, err
	}
	if err := f.write(s); err != nil {
		return nil, err
	}
	return s.Clone(), nil
}

func (f *FileStore) read(id string) (*interview.Session, error) {
	data, err := os.ReadFile(f.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, interview.ErrSessionNotFound
		}
		return nil, fmt.Errorf("reading session %s: %w", id, err)
	}

	var s interview.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", id, err)
	}
	return &s, nil
}

func (f *FileStore) write(s *interview.Session) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", s.ID, err)
	}

	path := f.path(s.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing session %s: %w", s.ID, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("committing session %s: %w", s.ID, err)
	}
	return nil
}

func (f *FileStore) path(id string) string {
	name := unsafeChars.ReplaceAllString(strings.TrimSpace(id), "")
	if name == "" {
		name = "unnamed"
	}
	return filepath.Join(f.dir, name+".json")
}

var _ interview.Store = (*FileStore)(nil)
