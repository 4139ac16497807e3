// internal/handlers/lobby_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/jason-s-yu/throneroom/internal/lobby"
	"github.com/jason-s-yu/throneroom/internal/middleware"
	"github.com/jason-s-yu/throneroom/internal/models"
	"github.com/sirupsen/logrus"
)

// lobbyConn is one socket attached to a lobby.
type lobbyConn struct {
	id   string
	user *models.User
	out  chan map[string]interface{}
	log  logrus.FieldLogger
}

// write queues msg without blocking. A full queue drops the message.
func (c *lobbyConn) write(msg map[string]interface{}) {
	select {
	case c.out <- msg:
	default:
		c.log.WithField("type", msg["type"]).Warn("outbound queue full, dropping message")
	}
}

func (c *lobbyConn) writeError(msg string) {
	c.write(map[string]interface{}{
		"type":    "error",
		"message": msg,
	})
}

// LobbyWSHandler serves /lobby/ws/{id}. The client must be authenticated and
// speak the "lobby" subprotocol. Connecting does not make the client a member;
// it sends "join" or "watch" for that. A member reconnecting is re-attached.
func LobbyWSHandler(ls *LobbyServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lobbyIDStr := strings.Trim(strings.TrimPrefix(r.URL.Path, "/lobby/ws/"), "/")
		lobbyID, err := uuid.Parse(lobbyIDStr)
		if err != nil {
			http.Error(w, "invalid lobby_id", http.StatusBadRequest)
			return
		}
		userID, ok := authenticatedUserID(w, r)
		if !ok {
			return
		}
		user, err := ls.Accounts.GetUserByID(r.Context(), userID)
		if err != nil {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		sess, ok := ls.Store.Get(lobbyID)
		if !ok {
			http.Error(w, "lobby not found", http.StatusNotFound)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"lobby"},
			OriginPatterns: []string{"*"}, // Adjust in production
		})
		if err != nil {
			ls.Logger.WithError(err).Warn("websocket accept error")
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != "lobby" {
			c.Close(BadSubprotocolError, "client must speak the lobby subprotocol")
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		conn := &lobbyConn{
			id:   uuid.NewString(),
			user: user,
			out:  make(chan map[string]interface{}, 32),
			log:  ls.Logger.WithFields(logrus.Fields{"lobby": lobbyID, "user": user.Username}),
		}
		ls.attach(lobbyID, conn)
		defer ls.detach(lobbyID, conn.id)
		middleware.LogWebSocketConnect(ls.Logger, r.RemoteAddr, lobbyID.String(), user.Username)

		if sess.Reconnect(conn.id, user.Username) {
			ls.broadcastState(sess)
		} else {
			conn.write(stateMessage(sess, user.Username))
		}

		go writePump(ctx, c, conn)
		readErr := readPump(ctx, c, ls, sess, conn)

		// A newer socket may have taken over the member; only the bound one disconnects it.
		if m, ok := sess.Member(user.Username); ok && m.ID == conn.id {
			sess.Disconnect(user.Username)
			ls.broadcastState(sess)
		}
		middleware.LogWebSocketDisconnect(ls.Logger, r.RemoteAddr, lobbyID.String(), user.Username, readErr)
	}
}

// readPump decodes client packets until the socket closes. It returns the
// read error, or nil on a normal close.
func readPump(ctx context.Context, c *websocket.Conn, ls *LobbyServer, sess *lobby.Session, conn *lobbyConn) error {
	for {
		typ, msg, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if typ != websocket.MessageText {
			conn.log.Debug("ignoring non-text frame")
			continue
		}

		var packet lobbyPacket
		if err := json.Unmarshal(msg, &packet); err != nil {
			conn.writeError("Invalid JSON format")
			continue
		}

		if _, ok := ls.Store.Get(sess.ID); !ok {
			c.Close(InvalidLobbyIDError, "lobby no longer exists")
			return nil
		}
		ls.handleLobbyMessage(ctx, sess, conn, packet)
	}
}

// handleLobbyMessage applies one client packet and fans out the new state.
func (ls *LobbyServer) handleLobbyMessage(ctx context.Context, sess *lobby.Session, conn *lobbyConn, packet lobbyPacket) {
	name := conn.user.Username

	switch packet.Type {
	case "join":
		if err := sess.Join(conn.id, conn.user, packet.Password); err != nil {
			reportAdmitError(sess, conn, err)
			return
		}
	case "watch":
		if err := sess.Watch(conn.id, conn.user, packet.Password); err != nil {
			reportAdmitError(sess, conn, err)
			return
		}
	case "chat":
		if packet.Msg == "" {
			return
		}
		sess.Chat(name, packet.Msg)
	case "select_deck":
		if packet.Deck == nil {
			conn.writeError("Missing deck")
			return
		}
		sess.SelectDeck(name, *packet.Deck)
	case "leave":
		sess.Leave(name)
	case "start":
		if !sess.IsOwner(name) {
			conn.writeError("Only the owner can start the game")
			return
		}
		if !sess.Start(ls.NodeName) {
			conn.writeError("Game already started")
			return
		}
		ls.publishRecord(ctx, sess)
		ls.broadcast(sess.ID, map[string]interface{}{
			"type":    "game_start",
			"lobbyId": sess.ID.String(),
			"node":    ls.NodeName,
		})
	default:
		conn.writeError(fmt.Sprintf("Unknown action type: %s", packet.Type))
		return
	}
	ls.broadcastState(sess)
}

// reportAdmitError relays a failed join or watch. Silent rejections only
// resend the unchanged state.
func reportAdmitError(sess *lobby.Session, conn *lobbyConn, err error) {
	if msg := lobby.UserMessage(err); msg != "" {
		conn.writeError(msg)
	}
	conn.write(stateMessage(sess, conn.user.Username))
}

func (ls *LobbyServer) publishRecord(ctx context.Context, sess *lobby.Session) {
	if ls.Records == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := ls.Records.PublishGameRecord(pubCtx, sess.SaveState()); err != nil {
		ls.Logger.WithError(err).WithField("lobby", sess.ID).Error("failed to publish game record")
	}
}

func writePump(ctx context.Context, c *websocket.Conn, conn *lobbyConn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-conn.out:
			data, err := json.Marshal(msg)
			if err != nil {
				conn.log.WithError(err).Warn("failed to marshal outgoing message")
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				conn.log.WithError(err).Warn("failed to write to websocket")
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				conn.log.WithError(err).Warn("ping failed, assuming disconnect")
				return
			}
		}
	}
}
