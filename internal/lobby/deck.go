// internal/lobby/deck.go
package lobby

import "github.com/jason-s-yu/throneroom/internal/models"

// FactionRecord is the faction card derived from a selected deck.
type FactionRecord struct {
	Code     string `json:"code"`
	Type     string `json:"type"`
	Strength int    `json:"strength"`
}

// AgendaRecord is the agenda card derived from a selected deck.
type AgendaRecord struct {
	Code string `json:"code"`
}

// DeckBinding is a player's selected deck together with the faction and agenda
// the rules engine reads at match start. It is built once per selection.
type DeckBinding struct {
	Deck     models.Deck
	Selected bool
	Faction  FactionRecord
	Agenda   *AgendaRecord
}

func bindDeck(deck models.Deck) *DeckBinding {
	b := &DeckBinding{
		Deck:     deck,
		Selected: true,
		Faction: FactionRecord{
			Code: deck.Faction.Value,
			Type: "faction",
		},
	}
	if deck.Agenda != nil {
		b.Agenda = &AgendaRecord{Code: deck.Agenda.Code}
	}
	return b
}

func (b *DeckBinding) agendaCode() string {
	if b == nil || b.Agenda == nil {
		return ""
	}
	return b.Agenda.Code
}

func (b *DeckBinding) factionCode() string {
	if b == nil {
		return ""
	}
	return b.Faction.Code
}
