package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogMiddlewareRecordsStatus(t *testing.T) {
	logger, hook := test.NewNullLogger()
	h := LogMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/lobby/list", nil))

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, "HTTP Request", entry.Message)
	assert.Equal(t, http.StatusTeapot, entry.Data["status"])
	assert.Equal(t, "/lobby/list", entry.Data["path"])
	assert.Equal(t, http.MethodGet, entry.Data["method"])
}

func TestLogMiddlewareDefaultsToOK(t *testing.T) {
	logger, hook := test.NewNullLogger()
	h := LogMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/user/login", nil))
	assert.Equal(t, http.StatusOK, hook.LastEntry().Data["status"])
}

func TestHijackUnsupported(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
	_, _, err := rec.Hijack()
	assert.Error(t, err)
}

func TestWebSocketLogging(t *testing.T) {
	logger, hook := test.NewNullLogger()

	LogWebSocketConnect(logger, "127.0.0.1:1", "lobby-1", "alice")
	entry := hook.LastEntry()
	assert.Equal(t, "WebSocket connected", entry.Message)
	assert.Equal(t, "alice", entry.Data["user"])
	assert.Equal(t, "lobby-1", entry.Data["lobby"])

	LogWebSocketDisconnect(logger, "127.0.0.1:1", "lobby-1", "alice", nil)
	_, hasErr := hook.LastEntry().Data["error"]
	assert.False(t, hasErr)

	LogWebSocketDisconnect(logger, "127.0.0.1:1", "lobby-1", "alice", errors.New("read: eof"))
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.EqualError(t, hook.LastEntry().Data["error"].(error), "read: eof")
}
