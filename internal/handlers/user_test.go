package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/throneroom/internal/auth"
	"github.com/jason-s-yu/throneroom/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	accounts := newFakeAccounts()
	body := `{"email":"alice@example.com","password":"hunter2","username":"alice"}`
	req := httptest.NewRequest(http.MethodPost, "/user/create", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	CreateUserHandler(accounts).ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var got models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "alice", got.Username)
	assert.Empty(t, got.Password)
	assert.NotContains(t, w.Body.String(), "hunter2")
}

func TestCreateUserRequiresFields(t *testing.T) {
	for _, body := range []string{`{"email":"a@example.com"}`, `not json`} {
		req := httptest.NewRequest(http.MethodPost, "/user/create", bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		CreateUserHandler(newFakeAccounts()).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestLogin(t *testing.T) {
	accounts := newFakeAccounts()
	alice := accounts.add("alice")

	body := `{"email":"alice@example.com","password":"pw-alice"}`
	req := httptest.NewRequest(http.MethodPost, "/user/login", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	LoginHandler(accounts).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp loginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	sub, err := auth.AuthenticateJWT(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, alice.ID.String(), sub)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "auth_token", cookies[0].Name)
	assert.Equal(t, resp.Token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestLoginWrongPassword(t *testing.T) {
	accounts := newFakeAccounts()
	accounts.add("alice")

	body := `{"email":"alice@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/user/login", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	LoginHandler(accounts).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestAuthenticatedUserIDCookieMatching(t *testing.T) {
	alice := &models.User{ID: uuid.New(), Username: "alice"}
	token := tokenFor(t, alice)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"exact name among others", "theme=dark; auth_token=" + token + "; lang=en", http.StatusOK},
		{"only cookie", "auth_token=" + token, http.StatusOK},
		{"suffix of another name", "xauth_token=" + token, http.StatusUnauthorized},
		{"missing", "theme=dark", http.StatusUnauthorized},
		{"garbage token", "auth_token=abc", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/user/me", nil)
			req.Header.Set("Cookie", tc.header)
			w := httptest.NewRecorder()

			id, ok := authenticatedUserID(w, req)
			if tc.status == http.StatusOK {
				require.True(t, ok)
				assert.Equal(t, alice.ID, id)
				return
			}
			assert.False(t, ok)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}
