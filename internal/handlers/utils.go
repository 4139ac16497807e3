package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/jason-s-yu/throneroom/internal/auth"
)

const authCookie = "auth_token"

// authenticatedUserID resolves the caller from the auth_token cookie. On
// failure it writes the HTTP error and returns false.
func authenticatedUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	cookie, err := r.Cookie(authCookie)
	if err != nil || cookie.Value == "" {
		http.Error(w, "missing auth_token", http.StatusUnauthorized)
		return uuid.Nil, false
	}
	userIDStr, err := auth.AuthenticateJWT(cookie.Value)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		http.Error(w, "invalid user id in token", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return userID, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
