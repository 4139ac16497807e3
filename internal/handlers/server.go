// internal/handlers/server.go
package handlers

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jason-s-yu/throneroom/internal/lobby"
	"github.com/jason-s-yu/throneroom/internal/models"
	"github.com/sirupsen/logrus"
)

// RecordPublisher hands a started match's record to the historian.
type RecordPublisher interface {
	PublishGameRecord(ctx context.Context, rec models.GameRecord) error
}

// LobbyServer holds the live lobbies and the sockets attached to them.
type LobbyServer struct {
	Store    *lobby.Store
	Accounts Accounts
	Records  RecordPublisher
	NodeName string
	Logger   logrus.FieldLogger

	hubsMu sync.Mutex
	hubs   map[uuid.UUID]*lobbyHub
}

// NewLobbyServer wires a server around an empty lobby store.
func NewLobbyServer(accounts Accounts, records RecordPublisher, nodeName string, logger logrus.FieldLogger) *LobbyServer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LobbyServer{
		Store:    lobby.NewStore(logger),
		Accounts: accounts,
		Records:  records,
		NodeName: nodeName,
		Logger:   logger,
		hubs:     make(map[uuid.UUID]*lobbyHub),
	}
}

// lobbyHub is the set of sockets watching one lobby.
type lobbyHub struct {
	mu    sync.Mutex
	conns map[string]*lobbyConn
}

func (s *LobbyServer) attach(lobbyID uuid.UUID, c *lobbyConn) {
	s.hubsMu.Lock()
	defer s.hubsMu.Unlock()
	h, ok := s.hubs[lobbyID]
	if !ok {
		h = &lobbyHub{conns: make(map[string]*lobbyConn)}
		s.hubs[lobbyID] = h
	}
	h.mu.Lock()
	h.conns[c.id] = c
	h.mu.Unlock()
}

func (s *LobbyServer) detach(lobbyID uuid.UUID, connID string) {
	s.hubsMu.Lock()
	defer s.hubsMu.Unlock()
	h, ok := s.hubs[lobbyID]
	if !ok {
		return
	}
	h.mu.Lock()
	delete(h.conns, connID)
	empty := len(h.conns) == 0
	h.mu.Unlock()
	if empty {
		delete(s.hubs, lobbyID)
	}
}

func (s *LobbyServer) connections(lobbyID uuid.UUID) []*lobbyConn {
	s.hubsMu.Lock()
	h, ok := s.hubs[lobbyID]
	s.hubsMu.Unlock()
	if !ok {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*lobbyConn, 0, len(h.conns))
	for _, c := range h.conns {
		out = append(out, c)
	}
	return out
}

// broadcastState sends every attached socket its own view of sess.
func (s *LobbyServer) broadcastState(sess *lobby.Session) {
	for _, c := range s.connections(sess.ID) {
		c.write(stateMessage(sess, c.user.Username))
	}
}

// broadcast sends the same message to every attached socket.
func (s *LobbyServer) broadcast(lobbyID uuid.UUID, msg map[string]interface{}) {
	for _, c := range s.connections(lobbyID) {
		c.write(msg)
	}
}

// stateMessage renders the lobby for username. Sockets that are not members
// get the public view.
func stateMessage(sess *lobby.Session, username string) map[string]interface{} {
	viewer := ""
	if _, ok := sess.Member(username); ok {
		viewer = username
	}
	return map[string]interface{}{
		"type":  "lobby_state",
		"lobby": sess.Summary(viewer),
	}
}
