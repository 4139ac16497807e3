// internal/handlers/blocklist.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

type blockRequest struct {
	Username string `json:"username"`
}

// BlockUserHandler adds a username to the caller's block list. Blocked users
// cannot join or watch lobbies the caller creates.
//
// Request payload: { "username": "someone" }
func BlockUserHandler(accounts Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := authenticatedUserID(w, r)
		if !ok {
			return
		}
		var req blockRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Username) == "" {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}

		if err := accounts.AddBlockListEntry(r.Context(), userID, req.Username); err != nil {
			logrus.WithError(err).WithField("user", userID).Error("failed to add block list entry")
			http.Error(w, "failed to block user", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}
}

// UnblockUserHandler removes a username from the caller's block list.
func UnblockUserHandler(accounts Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := authenticatedUserID(w, r)
		if !ok {
			return
		}
		var req blockRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Username) == "" {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}

		if err := accounts.RemoveBlockListEntry(r.Context(), userID, req.Username); err != nil {
			logrus.WithError(err).WithField("user", userID).Error("failed to remove block list entry")
			http.Error(w, "failed to unblock user", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// BlockListHandler returns the caller's block list.
func BlockListHandler(accounts Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := authenticatedUserID(w, r)
		if !ok {
			return
		}
		list, err := accounts.GetBlockList(r.Context(), userID)
		if err != nil {
			http.Error(w, "failed to load block list", http.StatusInternalServerError)
			return
		}
		if list == nil {
			list = []string{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}
