// internal/handlers/routes.go
package handlers

import (
	"net/http"

	"github.com/jason-s-yu/throneroom/internal/middleware"
)

// NewRouter mounts the user, history, block list and lobby endpoints behind request logging.
func NewRouter(ls *LobbyServer) *http.ServeMux {
	logged := middleware.LogMiddleware(ls.Logger)
	mux := http.NewServeMux()

	// user endpoints
	mux.Handle("POST /user/create", logged(CreateUserHandler(ls.Accounts)))
	mux.Handle("POST /user/login", logged(LoginHandler(ls.Accounts)))
	mux.Handle("GET /user/history", logged(GameHistoryHandler(ls.Accounts)))

	// block list endpoints
	mux.Handle("POST /user/block", logged(BlockUserHandler(ls.Accounts)))
	mux.Handle("POST /user/unblock", logged(UnblockUserHandler(ls.Accounts)))
	mux.Handle("GET /user/blocklist", logged(BlockListHandler(ls.Accounts)))

	// lobby endpoints
	mux.Handle("POST /lobby/create", logged(CreateLobbyHandler(ls)))
	mux.Handle("GET /lobby/list", logged(ListLobbiesHandler(ls)))
	mux.Handle("GET /lobby/ws/", logged(LobbyWSHandler(ls)))

	return mux
}
