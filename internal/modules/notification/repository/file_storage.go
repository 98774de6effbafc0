package repository

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/reshetovitsme/stream-schedule-feed/internal/modules/notification/domain"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// FileStorage implements notification.Repository as a JSON array on disk
type FileStorage struct {
	path string
	mu   sync.Mutex
}

// NewFileStorage creates a new file-based notification queue at path
func NewFileStorage(path string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, oops.With("path", path, "context", "failed to create queue directory").Wrap(err)
	}

	return &FileStorage{path: path}, nil
}

func (s *FileStorage) Append(notifications []domain.Notification) (int, error) {
	if len(notifications) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	queued, err := s.read()
	if err != nil {
		return 0, err
	}

	known := lo.SliceToMap(queued, func(n domain.Notification) (string, struct{}) {
		return n.Key(), struct{}{}
	})
	added := 0
	for _, n := range notifications {
		if _, dup := known[n.Key()]; dup {
			continue
		}
		known[n.Key()] = struct{}{}
		queued = append(queued, n)
		added++
	}
	if added == 0 {
		return 0, nil
	}

	data, err := json.MarshalIndent(queued, "", "  ")
	if err != nil {
		return 0, oops.With("path", s.path, "context", "failed to marshal queue").Wrap(err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return 0, oops.With("path", s.path, "context", "failed to write queue").Wrap(err)
	}

	return added, nil
}

func (s *FileStorage) Pending() ([]domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read()
}

func (s *FileStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return oops.With("path", s.path, "context", "failed to remove queue").Wrap(err)
	}
	return nil
}

func (s *FileStorage) read() ([]domain.Notification, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Notification{}, nil
		}
		return nil, oops.With("path", s.path, "context", "failed to read queue").Wrap(err)
	}

	var queued []domain.Notification
	if err := json.Unmarshal(data, &queued); err != nil {
		return nil, oops.With("path", s.path, "context", "failed to unmarshal queue").Wrap(err)
	}
	return queued, nil
}
