package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/reshetovitsme/stream-schedule-feed/internal/modules/stream/domain"
	"github.com/reshetovitsme/stream-schedule-feed/internal/shared/errors"
	"github.com/samber/oops"
)

// FileStorage implements stream.Repository as a JSON array on disk
type FileStorage struct {
	path string
	mu   sync.RWMutex
}

// NewFileStorage creates a new file-based collection repository at path
func NewFileStorage(path string) (*FileStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, oops.With("path", path, "context", "failed to create storage directory").Wrap(err)
	}

	return &FileStorage{path: path}, nil
}

// Path returns the file holding the collection
func (s *FileStorage) Path() string {
	return s.path
}

func (s *FileStorage) Load(_ context.Context) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ErrStateNotFound
		}
		return nil, oops.With("path", s.path, "context", "failed to read collection").Wrap(err)
	}

	var items []domain.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, oops.With("path", s.path, "context", "failed to unmarshal collection").Wrap(err)
	}

	return items, nil
}

// Save writes the collection to a temporary file and renames it over the
// previous one, so readers never observe a partial write
func (s *FileStorage) Save(_ context.Context, items []domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if items == nil {
		items = []domain.Item{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return oops.With("path", s.path, "context", "failed to marshal collection").Wrap(err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return oops.With("path", s.path, "context", "failed to create temporary file").Wrap(err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return oops.With("path", tmp.Name(), "context", "failed to write collection").Wrap(err)
	}
	if err := tmp.Close(); err != nil {
		return oops.With("path", tmp.Name(), "context", "failed to close temporary file").Wrap(err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return oops.With("path", tmp.Name(), "context", "failed to set permissions").Wrap(err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return oops.With("path", s.path, "context", "failed to replace collection").Wrap(err)
	}

	return nil
}
