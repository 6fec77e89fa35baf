package report

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"sync"
)

// Store abstracts report persistence for testability.
type Store interface {
	Load() ([]Report, error)
	Save([]Report) error
}

// Append loads the history from s, adds r and saves it back.
func Append(s Store, r Report) error {
	reports, err := s.Load()
	if err != nil {
		return err
	}
	return s.Save(append(reports, r))
}

// Remove returns reports without the entry whose ID is id.
func Remove(reports []Report, id string) []Report {
	var out []Report
	for _, r := range reports {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

// FileStore implements Store using a JSON file.
type FileStore struct {
	File string
}

func NewFileStore(file string) *FileStore {
	return &FileStore{File: file}
}

// Load returns the stored history. A missing or empty file is an empty history.
func (fs *FileStore) Load() ([]Report, error) {
	var reports []Report
	f, err := os.Open(fs.File)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(&reports); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return reports, nil
}

func (fs *FileStore) Save(reports []Report) error {
	f, err := os.Create(fs.File)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

// InMemoryStore implements Store for testing (no disk I/O).
type InMemoryStore struct {
	mu      sync.Mutex
	reports []Report
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (ms *InMemoryStore) Load() ([]Report, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	cpy := make([]Report, len(ms.reports))
	copy(cpy, ms.reports)
	return cpy, nil
}

func (ms *InMemoryStore) Save(reports []Report) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	cpy := make([]Report, len(reports))
	copy(cpy, reports)
	ms.reports = cpy
	return nil
}
