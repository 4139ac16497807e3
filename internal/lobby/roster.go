// internal/lobby/roster.go
package lobby

import "github.com/jason-s-yu/throneroom/internal/models"

// Role tags a member as competitor or observer.
type Role string

const (
	RolePlayer    Role = "player"
	RoleSpectator Role = "spectator"
)

// Member is a single presence in a lobby, keyed by Name.
type Member struct {
	// ID is the transport connection identifier.
	ID   string
	Name string
	User *models.User
	Role Role

	// Owner, Left, Disconnected and Deck only apply to players.
	Owner        bool
	Left         bool
	Disconnected bool
	Deck         *DeckBinding
}

// roster is a name-keyed member collection that remembers insertion order.
type roster struct {
	order  []string
	byName map[string]*Member
}

func newRoster() *roster {
	return &roster{byName: make(map[string]*Member)}
}

func (r *roster) get(name string) (*Member, bool) {
	m, ok := r.byName[name]
	return m, ok
}

func (r *roster) add(m *Member) {
	if _, exists := r.byName[m.Name]; !exists {
		r.order = append(r.order, m.Name)
	}
	r.byName[m.Name] = m
}

func (r *roster) remove(name string) {
	if _, ok := r.byName[name]; !ok {
		return
	}
	delete(r.byName, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *roster) len() int {
	return len(r.order)
}

// each visits members in insertion order until fn returns false.
func (r *roster) each(fn func(*Member) bool) {
	for _, name := range r.order {
		if !fn(r.byName[name]) {
			return
		}
	}
}
