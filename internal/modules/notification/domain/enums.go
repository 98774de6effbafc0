//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// Kind is the reason an item is announced
// ENUM(live,scheduled)
type Kind string
