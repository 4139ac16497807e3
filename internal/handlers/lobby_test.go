// internal/handlers/lobby_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jason-s-yu/throneroom/internal/lobby"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLobbyCreate checks that /lobby/create builds an in-memory lobby owned by the caller.
func TestLobbyCreate(t *testing.T) {
	accounts := newFakeAccounts()
	alice := accounts.add("alice")
	ls := NewLobbyServer(accounts, &fakePublisher{}, "node-1", quietLogger())

	body := `{"name":"friday joust","spectators":true,"gameType":"competitive","password":"pw"}`
	req := httptest.NewRequest(http.MethodPost, "/lobby/create", bytes.NewBufferString(body))
	req.Header.Set("Cookie", "auth_token="+tokenFor(t, alice))
	w := httptest.NewRecorder()
	CreateLobbyHandler(ls).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var sum lobby.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sum))
	assert.Equal(t, "friday joust", sum.Name)
	assert.Equal(t, "alice", sum.Owner)
	assert.True(t, sum.AllowSpectators)
	assert.True(t, sum.NeedsPassword)
	require.Len(t, sum.Players, 1)
	assert.Equal(t, "alice", sum.Players[0].Name)
	assert.NotContains(t, w.Body.String(), `"pw"`)

	_, ok := ls.Store.Get(sum.ID)
	assert.True(t, ok)
}

func TestLobbyCreateEmptyBody(t *testing.T) {
	accounts := newFakeAccounts()
	alice := accounts.add("alice")
	ls := NewLobbyServer(accounts, nil, "node-1", quietLogger())

	req := httptest.NewRequest(http.MethodPost, "/lobby/create", nil)
	req.Header.Set("Cookie", "auth_token="+tokenFor(t, alice))
	w := httptest.NewRecorder()
	CreateLobbyHandler(ls).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var sum lobby.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sum))
	assert.Equal(t, "alice's game", sum.Name)
	assert.False(t, sum.NeedsPassword)
}

func TestLobbyCreateRequiresAuth(t *testing.T) {
	ls := NewLobbyServer(newFakeAccounts(), nil, "node-1", quietLogger())
	req := httptest.NewRequest(http.MethodPost, "/lobby/create", nil)
	w := httptest.NewRecorder()
	CreateLobbyHandler(ls).ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, ls.Store.Len())
}

func TestLobbyListIsPublic(t *testing.T) {
	accounts := newFakeAccounts()
	alice := accounts.add("alice")
	bob := accounts.add("bob")
	ls := NewLobbyServer(accounts, nil, "node-1", quietLogger())

	sess, err := lobby.New("c1", alice, lobby.Details{Name: "one"}, lobby.WithLogger(quietLogger()))
	require.NoError(t, err)
	sess.Chat("alice", "secret plans")
	ls.Store.Add(sess)

	req := httptest.NewRequest(http.MethodGet, "/lobby/list", nil)
	req.Header.Set("Cookie", "auth_token="+tokenFor(t, bob))
	w := httptest.NewRecorder()
	ListLobbiesHandler(ls).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var list []lobby.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "one", list[0].Name)
	assert.Nil(t, list[0].Messages)
	assert.NotContains(t, w.Body.String(), "secret plans")
}
