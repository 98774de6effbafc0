//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// Status is the lifecycle position of an item. Values are declared in the
// order an item moves through them.
// ENUM(upcoming,live,ended)
type Status string

// Type separates live broadcasts from regular uploads
// ENUM(stream,video)
type Type string

// BroadcastContent is the upstream flag reporting whether an item is live,
// scheduled or not a live item at all
// ENUM(live,upcoming,none)
type BroadcastContent string

// EventState restricts a keyword search to one broadcast state
// ENUM(live,upcoming,completed)
type EventState string

// StorageDriver selects the backend holding the published collection
// ENUM(file,sqlite)
type StorageDriver string

// Rank orders statuses along upcoming -> live -> ended
func (x Status) Rank() int {
	switch x {
	case StatusUpcoming:
		return 1
	case StatusLive:
		return 2
	case StatusEnded:
		return 3
	default:
		return 0
	}
}
