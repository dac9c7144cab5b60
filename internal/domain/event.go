package domain

import "time"

// FavoriteAction is what happened to a user favorite.
type FavoriteAction string

const (
	FavoriteAdded   FavoriteAction = "added"
	FavoriteRemoved FavoriteAction = "removed"
)

// FavoriteEvent describes one confirmed change to the user favorites set.
type FavoriteEvent struct {
	ID         string           `json:"id"`
	Action     FavoriteAction   `json:"action"`
	Location   ResolvedLocation `json:"location"`
	UserCount  int              `json:"user_count"`
	OccurredAt time.Time        `json:"occurred_at"`
}
