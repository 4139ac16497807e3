// internal/models/game_record.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// GameRecord is the minimal historical record of a match, produced by a lobby
// when its game starts and persisted by the historian.
type GameRecord struct {
	GameID    uuid.UUID          `json:"gameId"`
	GameType  string             `json:"gameType"`
	Players   []GameRecordPlayer `json:"players"`
	StartedAt time.Time          `json:"startedAt"`
}

// GameRecordPlayer is a single seat of a GameRecord.
type GameRecordPlayer struct {
	Name    string `json:"name"`
	Faction string `json:"faction,omitempty"`
	Agenda  string `json:"agenda,omitempty"`
}
