package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/throneroom/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func game(at time.Time, names ...string) models.GameRecord {
	rec := models.GameRecord{GameID: uuid.New(), GameType: "casual", StartedAt: at}
	for _, n := range names {
		rec.Players = append(rec.Players, models.GameRecordPlayer{Name: n})
	}
	return rec
}

func getHistory(t *testing.T, h http.Handler, cookie, query string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/user/history"+query, nil)
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestGameHistoryNewestFirst(t *testing.T) {
	accounts := newFakeAccounts()
	alice := accounts.add("alice")
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	older := game(base, "alice", "bob")
	newer := game(base.Add(time.Hour), "carol", "alice")
	accounts.games = []models.GameRecord{older, game(base, "bob", "carol"), newer}

	w := getHistory(t, GameHistoryHandler(accounts), "auth_token="+tokenFor(t, alice), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got []models.GameRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, newer.GameID, got[0].GameID)
	assert.Equal(t, older.GameID, got[1].GameID)

	w = getHistory(t, GameHistoryHandler(accounts), "auth_token="+tokenFor(t, alice), "?limit=1")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, newer.GameID, got[0].GameID)
}

func TestGameHistoryEmptyIsArray(t *testing.T) {
	accounts := newFakeAccounts()
	bob := accounts.add("bob")

	w := getHistory(t, GameHistoryHandler(accounts), "auth_token="+tokenFor(t, bob), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestGameHistoryRejectsBadRequests(t *testing.T) {
	accounts := newFakeAccounts()
	alice := accounts.add("alice")
	cookie := "auth_token=" + tokenFor(t, alice)

	assert.Equal(t, http.StatusUnauthorized, getHistory(t, GameHistoryHandler(accounts), "", "").Code)
	for _, q := range []string{"?limit=0", "?limit=101", "?limit=ten"} {
		assert.Equal(t, http.StatusBadRequest, getHistory(t, GameHistoryHandler(accounts), cookie, q).Code, q)
	}
}

func TestGameHistoryRouted(t *testing.T) {
	h := newWSHarness(t)
	alice := h.accounts.add("alice")
	h.accounts.games = []models.GameRecord{game(time.Now().UTC(), "alice")}

	w := getHistory(t, NewRouter(h.ls), "auth_token="+tokenFor(t, alice), "")
	require.Equal(t, http.StatusOK, w.Code)
	var got []models.GameRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 1)
}
