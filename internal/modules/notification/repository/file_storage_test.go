package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/reshetovitsme/stream-schedule-feed/internal/modules/notification/domain"
)

func TestFileStorage_AppendDeduplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queue", "pending.json")
	store, err := NewFileStorage(path)
	if err != nil {
		t.Fatalf("NewFileStorage() error = %v", err)
	}

	live := domain.Notification{ItemID: "a", Kind: domain.KindLive}
	scheduled := domain.Notification{ItemID: "a", Kind: domain.KindScheduled}

	added, err := store.Append([]domain.Notification{live, scheduled, live})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if added != 2 {
		t.Fatalf("added = %d, want 2", added)
	}

	added, err = store.Append([]domain.Notification{live})
	if err != nil || added != 0 {
		t.Fatalf("Append() = %d, %v, want 0", added, err)
	}

	queued, err := store.Pending()
	if err != nil {
		t.Fatalf("Pending() error = %v", err)
	}
	if len(queued) != 2 {
		t.Fatalf("Pending() = %+v", queued)
	}
}

func TestFileStorage_PendingMissingFile(t *testing.T) {
	store, err := NewFileStorage(filepath.Join(t.TempDir(), "pending.json"))
	if err != nil {
		t.Fatalf("NewFileStorage() error = %v", err)
	}

	queued, err := store.Pending()
	if err != nil || len(queued) != 0 {
		t.Fatalf("Pending() = %+v, %v", queued, err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() on a missing file error = %v", err)
	}
}

func TestFileStorage_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pending.json")
	store, _ := NewFileStorage(path)
	if _, err := store.Append([]domain.Notification{{ItemID: "a", Kind: domain.KindLive}}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("queue file still exists")
	}
}
