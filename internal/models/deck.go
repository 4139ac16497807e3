package models

// Deck is a player's deck as supplied by the deck builder. Lobbies only read the
// faction/agenda identity and validation status from it.
type Deck struct {
	ID      string     `json:"id,omitempty"`
	Name    string     `json:"name"`
	Faction FactionRef `json:"faction"`
	Agenda  *AgendaRef `json:"agenda,omitempty"`
	Status  DeckStatus `json:"status"`
}

// FactionRef identifies a faction card. Value is the faction code, e.g. "stark".
type FactionRef struct {
	Name  string `json:"name,omitempty"`
	Value string `json:"value"`
}

// AgendaRef identifies an agenda card by its card code.
type AgendaRef struct {
	Code  string `json:"code"`
	Label string `json:"label,omitempty"`
}

// DeckStatus is the deck validator's verdict for the deck.
type DeckStatus struct {
	Valid             bool     `json:"valid"`
	BasicRules        bool     `json:"basicRules"`
	FAQJoustRules     bool     `json:"faqJoustRules"`
	NoUnreleasedCards bool     `json:"noUnreleasedCards"`
	Extended          []string `json:"extendedStatus,omitempty"`
}
