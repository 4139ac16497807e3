// internal/handlers/lobby.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/jason-s-yu/throneroom/internal/lobby"
	"github.com/jason-s-yu/throneroom/internal/models"
)

// CreateLobbyHandler creates an in-memory lobby owned and seated by the caller.
//
// Request payload: { "name", "spectators", "showHand", "gameType", "isMelee", "useRookery", "password" }
// All fields are optional.
func CreateLobbyHandler(ls *LobbyServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := authenticatedUserID(w, r)
		if !ok {
			return
		}
		user, err := ls.Accounts.GetUserByID(r.Context(), userID)
		if err != nil {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}

		var details lobby.Details
		if err := json.NewDecoder(r.Body).Decode(&details); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "bad lobby request payload", http.StatusBadRequest)
			return
		}
		if details.Name == "" {
			details.Name = user.Username + "'s game"
		}

		sess, err := lobby.New(uuid.NewString(), user, details, lobby.WithLogger(ls.Logger))
		if err != nil {
			ls.Logger.WithError(err).Error("failed to create lobby")
			http.Error(w, "failed to create lobby", http.StatusInternalServerError)
			return
		}
		ls.Store.Add(sess)

		writeJSON(w, http.StatusOK, sess.Summary(user.Username))
	}
}

// ListLobbiesHandler returns the public summary of every live lobby.
func ListLobbiesHandler(ls *LobbyServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := authenticatedUserID(w, r); !ok {
			return
		}

		sessions := ls.Store.List()
		out := make([]lobby.Summary, 0, len(sessions))
		for _, sess := range sessions {
			out = append(out, sess.PublicSummary())
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// lobbyPacket is a client message on the lobby socket.
type lobbyPacket struct {
	Type     string       `json:"type"`
	Password string       `json:"password,omitempty"`
	Msg      string       `json:"msg,omitempty"`
	Deck     *models.Deck `json:"deck,omitempty"`
}
