// internal/lobby/session.go
package lobby

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/throneroom/internal/auth"
	"github.com/jason-s-yu/throneroom/internal/chat"
	"github.com/jason-s-yu/throneroom/internal/models"
	"github.com/sirupsen/logrus"
)

// MaxPlayers caps the number of players in a lobby, melee included.
const MaxPlayers = 2

// ChatLog is the ordered message log a session appends to.
type ChatLog interface {
	Append(tmpl chat.Template, args ...chat.Arg)
	Messages() []chat.Message
}

// PasswordHasher hashes lobby passwords and verifies candidates against the hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(password, encodedHash string) (bool, error)
}

// Details are the owner-chosen settings of a new lobby.
type Details struct {
	Name            string `json:"name"`
	AllowSpectators bool   `json:"spectators"`
	ShowHand        bool   `json:"showHand"`
	GameType        string `json:"gameType"`
	IsMelee         bool   `json:"isMelee"`
	UseRookery      bool   `json:"useRookery"`
	// Password is hashed on creation and never stored in clear.
	Password string `json:"password,omitempty"`
}

// Session is a pending game: the room where players and spectators gather
// before a match starts. All methods are safe for concurrent use; each one
// holds the session lock for its whole duration.
type Session struct {
	ID              uuid.UUID
	Name            string
	AllowSpectators bool
	ShowHand        bool
	GameType        string
	IsMelee         bool
	UseRookery      bool
	CreatedAt       time.Time

	mu           sync.Mutex
	onEmpty      func(id uuid.UUID)
	owner        *models.User
	// lastOwner gates admission while the lobby has no owner.
	lastOwner    *models.User
	passwordHash string
	started      bool
	node         string
	players      *roster
	spectators   *roster
	chat         ChatLog
	hasher       PasswordHasher
	log          logrus.FieldLogger
}

// Option customises a Session at construction time.
type Option func(*Session)

// WithHasher replaces the argon2id password hasher.
func WithHasher(h PasswordHasher) Option {
	return func(s *Session) { s.hasher = h }
}

// WithLogger sets the logger used for membership events.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Session) { s.log = l }
}

// WithChatLog replaces the default in-memory chat log.
func WithChatLog(c ChatLog) Option {
	return func(s *Session) { s.chat = c }
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.CreatedAt = now() }
}

// New creates a lobby owned by owner, who is seated as its first player on
// connection connID.
func New(connID string, owner *models.User, details Details, opts ...Option) (*Session, error) {
	if owner == nil || owner.Username == "" {
		return nil, errors.New("lobby owner is required")
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate lobby id: %w", err)
	}

	s := &Session{
		ID:              id,
		Name:            details.Name,
		AllowSpectators: details.AllowSpectators,
		ShowHand:        details.ShowHand,
		GameType:        details.GameType,
		IsMelee:         details.IsMelee,
		UseRookery:      details.UseRookery,
		CreatedAt:       time.Now(),
		owner:           owner,
		players:         newRoster(),
		spectators:      newRoster(),
		chat:            chat.NewLog(),
		hasher:          auth.Hasher{},
		log:             logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField("lobby", s.ID)

	if details.Password != "" {
		hash, err := s.hasher.Hash(details.Password)
		if err != nil {
			return nil, fmt.Errorf("hash lobby password: %w", err)
		}
		s.passwordHash = hash
	}

	s.addPlayerUnsafe(connID, owner)
	s.log.WithField("owner", owner.Username).Info("lobby created")
	return s, nil
}

// Join seats user as a player. A full, started or blocking lobby, or a name
// already present, yields ErrRejected; a wrong password yields ErrInvalidCredential.
// The roster is unchanged on any error.
func (s *Session) Join(connID string, user *models.User, password string) error {
	if user == nil {
		return ErrRejected
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.players.len() >= MaxPlayers || s.started {
		s.log.WithField("user", user.Username).Debug("join refused: lobby full or started")
		return ErrRejected
	}
	if err := s.admitUnsafe(user, password); err != nil {
		return err
	}

	s.addPlayerUnsafe(connID, user)
	s.chat.Append(chat.PlayerJoined, chat.Member(user.Username))
	s.log.WithField("user", user.Username).Info("player joined")
	return nil
}

// Watch adds user as a spectator. Lobbies without spectators yield
// ErrPermissionDenied; the remaining checks match Join.
func (s *Session) Watch(connID string, user *models.User, password string) error {
	if user == nil {
		return ErrRejected
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.AllowSpectators {
		return ErrPermissionDenied
	}
	if err := s.admitUnsafe(user, password); err != nil {
		return err
	}

	s.spectators.add(&Member{ID: connID, Name: user.Username, User: user, Role: RoleSpectator})
	s.chat.Append(chat.SpectatorJoined, chat.Member(user.Username))
	s.log.WithField("user", user.Username).Info("spectator joined")
	return nil
}

// admitUnsafe runs the block-list, name and password gates shared by Join and Watch.
func (s *Session) admitUnsafe(user *models.User, password string) error {
	gate := s.owner
	if gate == nil {
		gate = s.lastOwner
	}
	if gate.Blocks(user.Username) {
		s.log.WithField("user", user.Username).Debug("join refused: blocked by owner")
		return ErrRejected
	}
	if s.memberUnsafe(user.Username) != nil {
		s.log.WithField("user", user.Username).Debug("join refused: name already present")
		return ErrRejected
	}
	if s.passwordHash == "" {
		return nil
	}
	ok, err := s.hasher.Compare(password, s.passwordHash)
	if err != nil {
		s.log.WithError(err).Warn("password comparison failed")
		return ErrInvalidCredential
	}
	if !ok {
		return ErrInvalidCredential
	}
	return nil
}

func (s *Session) addPlayerUnsafe(connID string, user *models.User) {
	isOwner := s.owner != nil && s.owner.Username == user.Username
	if s.owner == nil {
		// an ownerless lobby hands ownership to the next player seated
		s.owner = user
		s.lastOwner = nil
		isOwner = true
	}
	s.players.add(&Member{
		ID:    connID,
		Name:  user.Username,
		User:  user,
		Role:  RolePlayer,
		Owner: isOwner,
	})
}

// memberUnsafe resolves name across players then spectators.
func (s *Session) memberUnsafe(name string) *Member {
	if m, ok := s.players.get(name); ok {
		return m
	}
	if m, ok := s.spectators.get(name); ok {
		return m
	}
	return nil
}

// Leave removes name from the lobby. Before the match starts players are
// deleted and ownership passes on; afterwards they are only flagged as left.
// Spectators are always removed. Unknown names are ignored.
func (s *Session) Leave(name string) {
	s.depart(name, chat.PlayerLeft, func(p *Member) { p.Left = true })
}

// Disconnect is Leave for a dropped connection. A started lobby keeps the
// player's entry and flags it as disconnected.
func (s *Session) Disconnect(name string) {
	s.depart(name, chat.PlayerDisconnected, func(p *Member) { p.Disconnected = true })
}

// Reconnect binds an existing member to a new connection and clears its
// disconnected flag. Players who have left cannot come back.
func (s *Session) Reconnect(connID, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.memberUnsafe(name)
	if m == nil || m.Left {
		return false
	}
	m.ID = connID
	m.Disconnected = false
	s.log.WithField("user", name).Info("member reconnected")
	return true
}

func (s *Session) depart(name string, announce chat.Template, flagStarted func(*Member)) {
	s.mu.Lock()
	m := s.memberUnsafe(name)
	if m == nil {
		s.mu.Unlock()
		return
	}
	wasEmpty := s.isEmptyUnsafe()

	if !s.started {
		s.chat.Append(announce, chat.Member(name))
	}
	if m.Role == RolePlayer {
		if s.started {
			flagStarted(m)
		} else {
			s.removeAndResetOwnerUnsafe(name)
			s.players.remove(name)
		}
	} else {
		s.spectators.remove(name)
	}
	s.log.WithFields(logrus.Fields{"user": name, "reason": string(announce)}).Info("member departed")

	fireEmpty := !wasEmpty && s.isEmptyUnsafe()
	onEmpty := s.onEmpty
	s.mu.Unlock()

	if fireEmpty && onEmpty != nil {
		s.log.Info("lobby is empty")
		onEmpty(s.ID)
	}
}

// SetOnEmpty registers fn to be called, outside the lock, when the last
// active member goes away. Typically assigned by the registry.
func (s *Session) SetOnEmpty(fn func(id uuid.UUID)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEmpty = fn
}

// Chat appends text authored by name. Names that are neither players nor
// spectators are ignored.
func (s *Session) Chat(name, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.memberUnsafe(name) == nil {
		return
	}
	s.chat.Append(chat.ChatMessage, chat.Member(name), chat.Text(text))
}

// SelectDeck binds deck to player name, replacing any earlier selection.
// Unknown names and spectators are ignored.
func (s *Session) SelectDeck(name string, deck models.Deck) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players.get(name)
	if !ok {
		return
	}
	if p.Deck != nil {
		p.Deck.Selected = false
	}
	p.Deck = bindDeck(deck)
	s.log.WithFields(logrus.Fields{"user": name, "faction": p.Deck.Faction.Code}).Debug("deck selected")
}

// Start marks the match as started on the given execution node. It reports
// false if the lobby had already started or has no players.
func (s *Session) Start(node string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.players.len() == 0 {
		return false
	}
	s.started = true
	s.node = node
	s.log.WithField("node", node).Info("match started")
	return true
}

// IsOwner reports whether name is a player holding ownership.
func (s *Session) IsOwner(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isOwnerUnsafe(name)
}

func (s *Session) isOwnerUnsafe(name string) bool {
	p, ok := s.players.get(name)
	return ok && p.Owner
}

// removeAndResetOwnerUnsafe hands ownership to the first other player in
// seating order when name currently owns the lobby. With nobody to take
// over the lobby is left without an owner.
func (s *Session) removeAndResetOwnerUnsafe(name string) {
	if !s.isOwnerUnsafe(name) {
		return
	}
	current, _ := s.players.get(name)
	current.Owner = false

	var next *Member
	s.players.each(func(p *Member) bool {
		if p.Name != name {
			next = p
			return false
		}
		return true
	})
	if next == nil {
		s.lastOwner = s.owner
		s.owner = nil
		return
	}
	next.Owner = true
	s.owner = next.User
	s.log.WithFields(logrus.Fields{"from": name, "to": next.Name}).Info("ownership transferred")
}

// HasActivePlayer reports whether name is a spectator, or a player who has
// neither left nor disconnected.
func (s *Session) HasActivePlayer(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasActivePlayerUnsafe(name)
}

func (s *Session) hasActivePlayerUnsafe(name string) bool {
	if p, ok := s.players.get(name); ok && !p.Left && !p.Disconnected {
		return true
	}
	_, ok := s.spectators.get(name)
	return ok
}

// IsEmpty reports whether no active member remains.
func (s *Session) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isEmptyUnsafe()
}

func (s *Session) isEmptyUnsafe() bool {
	active := false
	check := func(m *Member) bool {
		active = s.hasActivePlayerUnsafe(m.Name)
		return !active
	}
	s.players.each(check)
	if !active {
		s.spectators.each(check)
	}
	return !active
}

// Started reports whether the match has begun.
func (s *Session) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Owner returns the owner's username, or "" when the lobby has no owner.
func (s *Session) Owner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner == nil {
		return ""
	}
	return s.owner.Username
}

// NeedsPassword reports whether join and watch require a password.
func (s *Session) NeedsPassword() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.passwordHash != ""
}

// Member returns a copy of the member called name.
func (s *Session) Member(name string) (Member, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.memberUnsafe(name)
	if m == nil {
		return Member{}, false
	}
	return m.snapshot(), true
}

// Players returns copies of every player entry, left ones included, in seating order.
func (s *Session) Players() []Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshotRoster(s.players)
}

// Spectators returns copies of every spectator in arrival order.
func (s *Session) Spectators() []Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshotRoster(s.spectators)
}

// Messages returns the chat history.
func (s *Session) Messages() []chat.Message {
	return s.chat.Messages()
}

func snapshotRoster(r *roster) []Member {
	out := make([]Member, 0, r.len())
	r.each(func(m *Member) bool {
		out = append(out, m.snapshot())
		return true
	})
	return out
}

func (m *Member) snapshot() Member {
	c := *m
	if m.Deck != nil {
		d := *m.Deck
		if m.Deck.Agenda != nil {
			a := *m.Deck.Agenda
			d.Agenda = &a
		}
		c.Deck = &d
	}
	return c
}
