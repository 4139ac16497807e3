// internal/handlers/history.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/jason-s-yu/throneroom/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// GameHistoryHandler returns the caller's recorded matches, newest first.
// An optional ?limit=N (1..100) caps the result; the default is 20.
func GameHistoryHandler(accounts Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := authenticatedUserID(w, r)
		if !ok {
			return
		}
		limit := defaultHistoryLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > maxHistoryLimit {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = n
		}

		user, err := accounts.GetUserByID(r.Context(), userID)
		if err != nil {
			http.Error(w, "user not found", http.StatusUnauthorized)
			return
		}
		records, err := accounts.GetGameRecordsForPlayer(r.Context(), user.Username, limit)
		if err != nil {
			logrus.WithError(err).WithField("user", user.Username).Error("failed to load game history")
			http.Error(w, "failed to load game history", http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []models.GameRecord{}
		}
		writeJSON(w, http.StatusOK, records)
	}
}
