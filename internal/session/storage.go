package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	model "heartbids/internal/models"
)

// Record is what survives between runs: the identity and the bearer token
type Record struct {
	Profile model.Profile `json:"profile"`
	Token   string        `json:"token"`
	SavedAt time.Time     `json:"savedAt"`
}

// LoggedIn reports whether the record carries a usable identity.
func (r Record) LoggedIn() bool {
	return r.Token != "" && r.Profile.Name != ""
}

func (r Record) same(o Record) bool {
	return r.Token == o.Token &&
		r.Profile.Name == o.Profile.Name &&
		r.Profile.Credits == o.Profile.Credits &&
		r.Profile.Charity == o.Profile.Charity &&
		r.SavedAt.Equal(o.SavedAt)
}

// Storage persists the session record. Load returns a zero Record when nothing is stored.
type Storage interface {
	Load() (Record, error)
	Save(rec Record) error
	Clear() error
	Token() string
}

// FileStorage keeps the record as JSON in a single file
type FileStorage struct {
	path string
	mu   sync.Mutex
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Path returns the location of the session file.
func (f *FileStorage) Path() string {
	return f.path
}

func (f *FileStorage) Load() (Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return Record{}, nil
	}
	if err != nil {
		return Record{}, fmt.Errorf("session: read %s: %w", f.path, err)
	}
	if len(raw) == 0 {
		return Record{}, nil
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, fmt.Errorf("session: decode %s: %w", f.path, err)
	}
	return rec, nil
}

// Save writes to a temp file in the same directory and renames it over the old one.
func (f *FileStorage) Save(rec Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("session: create %s: %w", dir, err)
	}

	raw, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("session: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("session: write: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("session: chmod: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("session: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("session: replace %s: %w", f.path, err)
	}
	return nil
}

func (f *FileStorage) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: remove %s: %w", f.path, err)
	}
	return nil
}

// Token reads the bearer token straight from disk so every request sees the latest login.
func (f *FileStorage) Token() string {
	rec, err := f.Load()
	if err != nil {
		return ""
	}
	return rec.Token
}

// MemoryStorage keeps the record in process, for tests and throwaway sessions
type MemoryStorage struct {
	mu  sync.RWMutex
	rec Record
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load() (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rec, nil
}

func (m *MemoryStorage) Save(rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = rec
	return nil
}

func (m *MemoryStorage) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = Record{}
	return nil
}

func (m *MemoryStorage) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rec.Token
}
