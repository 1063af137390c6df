package models

import "time"

type PlayerEventType string

const (
	EventPlayerCreated PlayerEventType = "player_created"
	EventPlayerUpdated PlayerEventType = "player_updated"
	EventPlayerDeleted PlayerEventType = "player_deleted"
)

// PlayerEvent announces a committed change to a player record. Player is
// omitted for deletions.
type PlayerEvent struct {
	EventID    string          `json:"event_id"`
	EventType  PlayerEventType `json:"event_type"`
	PlayerID   int64           `json:"player_id"`
	Player     *Player         `json:"player,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}
