// internal/lobby/summary.go
package lobby

import (
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/throneroom/internal/chat"
	"github.com/jason-s-yu/throneroom/internal/models"
)

// DeckSummary is the view of a player's deck. Name is only filled in for the
// player who owns the deck.
type DeckSummary struct {
	Name     string             `json:"name,omitempty"`
	Selected bool               `json:"selected"`
	Status   *models.DeckStatus `json:"status,omitempty"`
}

// PlayerSummary is the per-player part of a Summary.
type PlayerSummary struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Owner        bool                `json:"owner"`
	Left         bool                `json:"left"`
	Disconnected bool                `json:"disconnected"`
	Role         string              `json:"role,omitempty"`
	Settings     models.UserSettings `json:"settings"`
	Deck         DeckSummary         `json:"deck"`
	// Faction and Agenda stay empty until the match starts.
	Faction string `json:"faction,omitempty"`
	Agenda  string `json:"agenda,omitempty"`
}

// SpectatorSummary is the per-spectator part of a Summary.
type SpectatorSummary struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Settings models.UserSettings `json:"settings"`
}

// Summary is a viewer-specific, redacted snapshot of a lobby.
type Summary struct {
	ID              uuid.UUID          `json:"id"`
	Name            string             `json:"name"`
	Owner           string             `json:"owner"`
	AllowSpectators bool               `json:"allowSpectators"`
	ShowHand        bool               `json:"showHand"`
	GameType        string             `json:"gameType"`
	IsMelee         bool               `json:"isMelee"`
	UseRookery      bool               `json:"useRookery"`
	CreatedAt       time.Time          `json:"createdAt"`
	NeedsPassword   bool               `json:"needsPassword"`
	Started         bool               `json:"started"`
	Node            string             `json:"node,omitempty"`
	Players         []PlayerSummary    `json:"players"`
	Spectators      []SpectatorSummary `json:"spectators"`
	// Messages is nil in public summaries.
	Messages []chat.Message `json:"messages,omitempty"`
}

// PublicSummary is the summary for an anonymous viewer, e.g. a lobby list.
func (s *Session) PublicSummary() Summary {
	return s.Summary("")
}

// Summary projects the lobby for viewer. An empty viewer yields the public view.
//
//   - a deck name is only visible to the player who selected it
//   - chat history is only included for an identified viewer
//   - faction and agenda codes are only included once the match has started
//   - the password is reduced to NeedsPassword
//
// Players who have left are omitted.
func (s *Session) Summary(viewer string) Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := Summary{
		ID:              s.ID,
		Name:            s.Name,
		AllowSpectators: s.AllowSpectators,
		ShowHand:        s.ShowHand,
		GameType:        s.GameType,
		IsMelee:         s.IsMelee,
		UseRookery:      s.UseRookery,
		CreatedAt:       s.CreatedAt,
		NeedsPassword:   s.passwordHash != "",
		Started:         s.started,
		Node:            s.node,
		Players:         make([]PlayerSummary, 0, s.players.len()),
		Spectators:      make([]SpectatorSummary, 0, s.spectators.len()),
	}
	if s.owner != nil {
		sum.Owner = s.owner.Username
	}

	s.players.each(func(p *Member) bool {
		if p.Left {
			return true
		}
		sum.Players = append(sum.Players, s.playerSummaryUnsafe(p, viewer))
		return true
	})
	s.spectators.each(func(m *Member) bool {
		sum.Spectators = append(sum.Spectators, SpectatorSummary{
			ID:       m.ID,
			Name:     m.Name,
			Settings: m.User.Settings,
		})
		return true
	})

	if viewer != "" {
		sum.Messages = s.chat.Messages()
	}
	return sum
}

func (s *Session) playerSummaryUnsafe(p *Member, viewer string) PlayerSummary {
	ps := PlayerSummary{
		ID:           p.ID,
		Name:         p.Name,
		Owner:        p.Owner,
		Left:         p.Left,
		Disconnected: p.Disconnected,
		Role:         p.User.Role,
		Settings:     p.User.Settings,
	}
	if p.Deck != nil {
		status := p.Deck.Deck.Status
		ps.Deck = DeckSummary{Selected: p.Deck.Selected, Status: &status}
		if viewer != "" && viewer == p.Name {
			ps.Deck.Name = p.Deck.Deck.Name
		}
	}
	if s.started {
		ps.Faction = p.Deck.factionCode()
		ps.Agenda = p.Deck.agendaCode()
	}
	return ps
}

// SaveState returns the historical record of the match: every seated player
// with their faction and agenda codes. It does not depend on any viewer.
func (s *Session) SaveState() models.GameRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := models.GameRecord{
		GameID:    s.ID,
		GameType:  s.GameType,
		Players:   make([]models.GameRecordPlayer, 0, s.players.len()),
		StartedAt: s.CreatedAt,
	}
	s.players.each(func(p *Member) bool {
		rec.Players = append(rec.Players, models.GameRecordPlayer{
			Name:    p.Name,
			Faction: p.Deck.factionCode(),
			Agenda:  p.Deck.agendaCode(),
		})
		return true
	})
	return rec
}
