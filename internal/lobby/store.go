// internal/lobby/store.go
package lobby

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Store holds the live lobbies of this process.
type Store struct {
	mu      sync.Mutex
	lobbies map[uuid.UUID]*Session
	log     logrus.FieldLogger
}

// NewStore returns an empty Store.
func NewStore(logger logrus.FieldLogger) *Store {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Store{
		lobbies: make(map[uuid.UUID]*Session),
		log:     logger,
	}
}

// Add registers s and wires its empty callback so the lobby removes
// itself once nobody is left in it.
func (st *Store) Add(s *Session) {
	s.SetOnEmpty(func(id uuid.UUID) { st.Delete(id) })

	st.mu.Lock()
	defer st.mu.Unlock()
	if _, exists := st.lobbies[s.ID]; exists {
		st.log.WithField("lobby", s.ID).Warn("attempted to add a lobby that already exists")
		return
	}
	st.lobbies[s.ID] = s
	st.log.WithField("lobby", s.ID).Debug("lobby added")
}

// Delete drops the lobby with the given id, if present.
func (st *Store) Delete(id uuid.UUID) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, exists := st.lobbies[id]; !exists {
		return
	}
	delete(st.lobbies, id)
	st.log.WithField("lobby", id).Debug("lobby deleted")
}

// Get returns the lobby with the given id.
func (st *Store) Get(id uuid.UUID) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.lobbies[id]
	return s, ok
}

// List returns every live lobby, oldest first.
func (st *Store) List() []*Session {
	st.mu.Lock()
	out := make([]*Session, 0, len(st.lobbies))
	for _, s := range st.lobbies {
		out = append(out, s)
	}
	st.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Len returns the number of live lobbies.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.lobbies)
}
