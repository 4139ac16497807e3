package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jason-s-yu/throneroom/internal/auth"
	"github.com/jason-s-yu/throneroom/internal/models"
	"github.com/sirupsen/logrus"
)

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

// CreateUserHandler registers a new account.
func CreateUserHandler(accounts Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
		if req.Email == "" || req.Password == "" || req.Username == "" {
			http.Error(w, "email, password and username are required", http.StatusBadRequest)
			return
		}

		user := models.User{
			Email:    req.Email,
			Password: req.Password,
			Username: req.Username,
		}
		if err := accounts.CreateUser(r.Context(), &user); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				http.Error(w, "email or username already exists", http.StatusConflict)
				return
			}
			logrus.WithError(err).Error("failed to create user")
			http.Error(w, "error creating user", http.StatusInternalServerError)
			return
		}
		user.Password = ""
		writeJSON(w, http.StatusCreated, user)
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// LoginHandler verifies email and password and issues a JWT.
//
// Request payload:
//
//	{
//	  "email": "someone@example.com",
//	  "password": "password"
//	}
//
// Response payload:
//
//	{
//	  "token": "{jwt}"
//	}
//
// The token is also set as the auth_token cookie.
func LoginHandler(accounts Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request payload", http.StatusBadRequest)
			return
		}

		user, err := accounts.AuthenticateUser(r.Context(), req.Email, req.Password)
		if err != nil {
			logrus.WithError(err).Debug("failed to authenticate user")
			http.Error(w, "authentication failed", http.StatusForbidden)
			return
		}

		token, err := auth.CreateJWT(user.ID.String())
		if err != nil {
			logrus.WithError(err).Error("failed to sign token")
			http.Error(w, "failed to issue token", http.StatusInternalServerError)
			return
		}

		cookie := &http.Cookie{
			Name:     authCookie,
			Value:    token,
			HttpOnly: true,
			Path:     "/",
		}
		if ttl := auth.TokenTTL(); ttl > 0 {
			cookie.MaxAge = int(ttl / time.Second)
		}
		http.SetCookie(w, cookie)

		writeJSON(w, http.StatusOK, loginResponse{Token: token})
	}
}
