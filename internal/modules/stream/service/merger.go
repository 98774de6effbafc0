package service

import (
	"time"

	"github.com/reshetovitsme/stream-schedule-feed/internal/modules/stream/domain"
	"github.com/samber/lo"
)

const (
	// DefaultMaxItems caps the published collection
	DefaultMaxItems = 500
	// GhostWindow bounds the effective-time gap between a placeholder and the broadcast that replaced it
	GhostWindow = 24 * time.Hour
)

// Merger reconciles freshly classified items with the persisted collection
type Merger struct {
	maxItems int
}

// NewMerger creates a merger keeping at most maxItems items
func NewMerger(maxItems int) *Merger {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &Merger{maxItems: maxItems}
}

// Merge combines prior and fresh into the collection to publish.
//
// When scopeChannelID is set only that channel's items are reconciled;
// persisted items of other channels are carried over unchanged.
func (m *Merger) Merge(prior, fresh []domain.Item, scopeChannelID string) []domain.Item {
	relevant, untouched := prior, []domain.Item(nil)
	if scopeChannelID != "" {
		relevant, untouched = lo.FilterReject(prior, func(item domain.Item, _ int) bool {
			return item.ChannelID == scopeChannelID
		})
		fresh = lo.Filter(fresh, func(item domain.Item, _ int) bool {
			return item.ChannelID == scopeChannelID
		})
	}

	merged := mergeByID(relevant, fresh)
	merged = removeGhostFrames(merged)
	merged = dedupByTitle(merged)

	// Other channels' items are never evicted by a scoped run; the target
	// channel only gets the room they leave
	domain.SortByEffectiveTime(merged)
	if room := max(m.maxItems-len(untouched), 0); len(merged) > room {
		merged = merged[:room]
	}

	result := append(merged, untouched...)
	domain.SortByEffectiveTime(result)
	return result
}

// mergeByID lets fresh items replace persisted ones with the same id. A
// fresh record never moves an item back along upcoming -> live -> ended.
// Fresh items come first so later tie-breaks favour them.
func mergeByID(prior, fresh []domain.Item) []domain.Item {
	previous := lo.KeyBy(prior, func(item domain.Item) string { return item.ID })

	fresh = lo.UniqBy(fresh, func(item domain.Item) string { return item.ID })
	out := make([]domain.Item, 0, len(prior)+len(fresh))
	seen := make(map[string]struct{}, len(fresh))
	for _, item := range fresh {
		if old, ok := previous[item.ID]; ok && old.Status.Rank() > item.Status.Rank() {
			item.Status = old.Status
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	for _, item := range prior {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}

type titleKey struct {
	channelID string
	title     string
}

func keyOf(item domain.Item) titleKey {
	return titleKey{channelID: item.ChannelID, title: item.NormalizedTitle()}
}

// removeGhostFrames drops upcoming placeholders with no length when the same
// channel has a started or finished item with the same title close in time
func removeGhostFrames(items []domain.Item) []domain.Item {
	settled := lo.GroupBy(lo.Filter(items, func(item domain.Item, _ int) bool {
		return item.Status != domain.StatusUpcoming
	}), keyOf)

	return lo.Reject(items, func(item domain.Item, _ int) bool {
		if item.Status != domain.StatusUpcoming {
			return false
		}
		if seconds, known := item.DurationSeconds(); known && seconds > 0 {
			return false
		}
		return lo.SomeBy(settled[keyOf(item)], func(other domain.Item) bool {
			return other.ID != item.ID && withinWindow(item.EffectiveTime(), other.EffectiveTime(), GhostWindow)
		})
	})
}

// dedupByTitle keeps the longest of the items sharing a channel and title.
// Only items with a known, non-zero length take part; ties keep the first.
func dedupByTitle(items []domain.Item) []domain.Item {
	best := make(map[titleKey]int)
	for idx, item := range items {
		seconds, ok := item.DurationSeconds()
		if !ok || seconds == 0 {
			continue
		}
		key := keyOf(item)
		cur, exists := best[key]
		if !exists {
			best[key] = idx
			continue
		}
		if curSeconds, _ := items[cur].DurationSeconds(); seconds > curSeconds {
			best[key] = idx
		}
	}

	out := make([]domain.Item, 0, len(items))
	for idx, item := range items {
		seconds, ok := item.DurationSeconds()
		if ok && seconds > 0 && best[keyOf(item)] != idx {
			continue
		}
		out = append(out, item)
	}
	return out
}

func withinWindow(a, b time.Time, window time.Duration) bool {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= window
}
