package sync

import "time"

// Event types broadcast to subscribed clients.
const (
	EventGameCreated = "game.created"
	EventGameUpdated = "game.updated"
	EventGameDeleted = "game.deleted"
)

type CatalogEvent struct {
	Type   string    `json:"type"`
	UserID string    `json:"user_id"`
	GameID string    `json:"game_id"`
	Title  string    `json:"title,omitempty"`
	Status string    `json:"status,omitempty"`
	At     time.Time `json:"at"`
}
