package repository

import (
	stdErrors "errors"
	"testing"

	"github.com/reshetovitsme/stream-schedule-feed/internal/modules/channel/domain"
	"github.com/reshetovitsme/stream-schedule-feed/internal/shared/errors"
)

func TestNewStaticStorage_Validates(t *testing.T) {
	tests := []struct {
		name     string
		channels []domain.Channel
	}{
		{"empty roster", nil},
		{"blank id", []domain.Channel{{ID: "  ", Name: "Nobody"}}},
		{"duplicate id", []domain.Channel{{ID: "UC1"}, {ID: " UC1 "}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewStaticStorage(tc.channels); !stdErrors.Is(err, errors.ErrInvalidRoster) {
				t.Fatalf("NewStaticStorage() error = %v, want ErrInvalidRoster", err)
			}
		})
	}
}

func TestStaticStorage_Lookup(t *testing.T) {
	repo, err := NewStaticStorage(domain.DefaultRoster())
	if err != nil {
		t.Fatalf("NewStaticStorage() error = %v", err)
	}

	all, err := repo.GetAllChannels()
	if err != nil || len(all) != len(domain.DefaultRoster()) {
		t.Fatalf("GetAllChannels() = %d, %v", len(all), err)
	}

	first := domain.DefaultRoster()[0]
	ch, err := repo.GetChannel(first.ID)
	if err != nil || ch.Name != first.Name {
		t.Fatalf("GetChannel() = %+v, %v", ch, err)
	}

	// Callers get copies
	ch.Name = "changed"
	again, _ := repo.GetChannel(first.ID)
	if again.Name != first.Name {
		t.Fatalf("repository state mutated through a returned channel")
	}

	if _, err := repo.GetChannel("UCunknown"); !stdErrors.Is(err, errors.ErrChannelNotFound) {
		t.Fatalf("GetChannel(unknown) error = %v", err)
	}
	if repo.Contains("UCunknown") || !repo.Contains(first.ID) {
		t.Fatalf("Contains() mismatch")
	}
}

func TestNewStaticStorage_DefaultsName(t *testing.T) {
	repo, err := NewStaticStorage([]domain.Channel{{ID: "UC1"}})
	if err != nil {
		t.Fatalf("NewStaticStorage() error = %v", err)
	}
	ch, _ := repo.GetChannel("UC1")
	if ch.Name != "UC1" {
		t.Fatalf("Name = %q, want id fallback", ch.Name)
	}
}
