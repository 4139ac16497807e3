package lobby

import (
	"encoding/json"
	"testing"

	"github.com/jason-s-yu/throneroom/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	starkDeck = models.Deck{
		Name:    "Winter Is Coming",
		Faction: models.FactionRef{Name: "House Stark", Value: "stark"},
		Agenda:  &models.AgendaRef{Code: "01027"},
		Status:  models.DeckStatus{Valid: true, BasicRules: true},
	}
	lannisterDeck = models.Deck{
		Name:    "Hear Me Roar",
		Faction: models.FactionRef{Name: "House Lannister", Value: "lannister"},
		Status:  models.DeckStatus{Valid: false},
	}
)

func findPlayer(t *testing.T, sum Summary, name string) PlayerSummary {
	t.Helper()
	for _, p := range sum.Players {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("player %s missing from summary", name)
	return PlayerSummary{}
}

func setupDeckLobby(t *testing.T) *Session {
	t.Helper()
	s := newTestSession(t, newUser("alice"), Details{Name: "redaction", AllowSpectators: true, Password: "secret"})
	require.NoError(t, s.Join("c2", newUser("bob"), "secret"))
	require.NoError(t, s.Watch("c3", newUser("sam"), "secret"))
	s.SelectDeck("alice", starkDeck)
	s.SelectDeck("bob", lannisterDeck)
	s.Chat("alice", "ready?")
	return s
}

func TestSummaryShowsDeckNameOnlyToItsOwner(t *testing.T) {
	s := setupDeckLobby(t)

	for _, viewer := range []string{"bob", "sam", "", "stranger"} {
		sum := s.Summary(viewer)
		alice := findPlayer(t, sum, "alice")
		assert.Empty(t, alice.Deck.Name, "viewer %q", viewer)
		assert.True(t, alice.Deck.Selected)
		require.NotNil(t, alice.Deck.Status)
		assert.True(t, alice.Deck.Status.Valid)
	}

	own := findPlayer(t, s.Summary("alice"), "alice")
	assert.Equal(t, "Winter Is Coming", own.Deck.Name)
	assert.Empty(t, findPlayer(t, s.Summary("alice"), "bob").Deck.Name)
}

func TestPublicSummaryHasNoChat(t *testing.T) {
	s := setupDeckLobby(t)

	assert.Nil(t, s.PublicSummary().Messages)
	assert.NotEmpty(t, s.Summary("sam").Messages)

	raw, err := json.Marshal(s.PublicSummary())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "ready?")
	assert.NotContains(t, string(raw), "messages")
}

func TestSummaryHidesFactionsUntilStarted(t *testing.T) {
	s := setupDeckLobby(t)

	before := findPlayer(t, s.Summary("alice"), "alice")
	assert.Empty(t, before.Faction)
	assert.Empty(t, before.Agenda)

	require.True(t, s.Start("node-7"))
	sum := s.Summary("")
	alice := findPlayer(t, sum, "alice")
	bob := findPlayer(t, sum, "bob")
	assert.Equal(t, "stark", alice.Faction)
	assert.Equal(t, "01027", alice.Agenda)
	assert.Equal(t, "lannister", bob.Faction)
	assert.Empty(t, bob.Agenda)
	assert.True(t, sum.Started)
	assert.Equal(t, "node-7", sum.Node)
}

func TestSummaryNeverExposesPassword(t *testing.T) {
	s := setupDeckLobby(t)

	sum := s.Summary("alice")
	assert.True(t, sum.NeedsPassword)

	raw, err := json.Marshal(sum)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
	assert.NotContains(t, string(raw), "argon2")
}

func TestSummaryRosterAndSettings(t *testing.T) {
	s := setupDeckLobby(t)

	sum := s.Summary("bob")
	assert.Equal(t, "redaction", sum.Name)
	assert.Equal(t, "alice", sum.Owner)
	assert.True(t, sum.AllowSpectators)
	require.Len(t, sum.Players, 2)
	assert.Equal(t, "alice", sum.Players[0].Name)
	assert.True(t, sum.Players[0].Owner)
	assert.Equal(t, "user", sum.Players[0].Role)
	require.Len(t, sum.Spectators, 1)
	assert.Equal(t, "sam", sum.Spectators[0].Name)
	assert.Equal(t, "c3", sum.Spectators[0].ID)
}

func TestSummaryOmitsLeftPlayers(t *testing.T) {
	s := setupDeckLobby(t)
	require.True(t, s.Start("node-1"))

	s.Leave("bob")

	sum := s.Summary("alice")
	require.Len(t, sum.Players, 1)
	assert.Equal(t, "alice", sum.Players[0].Name)
}

func TestSummaryPlayerWithoutDeck(t *testing.T) {
	s := newTestSession(t, newUser("alice"), Details{})

	alice := findPlayer(t, s.Summary("alice"), "alice")
	assert.False(t, alice.Deck.Selected)
	assert.Nil(t, alice.Deck.Status)
	assert.Empty(t, alice.Deck.Name)
}

func TestSaveState(t *testing.T) {
	s := setupDeckLobby(t)
	require.True(t, s.Start("node-1"))
	s.Leave("bob")

	rec := s.SaveState()
	assert.Equal(t, s.ID, rec.GameID)
	assert.Equal(t, s.CreatedAt, rec.StartedAt)
	assert.Equal(t, []models.GameRecordPlayer{
		{Name: "alice", Faction: "stark", Agenda: "01027"},
		{Name: "bob", Faction: "lannister"},
	}, rec.Players)

	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Winter Is Coming")
}
