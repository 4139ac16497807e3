// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used by the lobby socket.
const (
	BadSubprotocolError = 3000 // Client connected without the "lobby" subprotocol.
	InvalidLobbyIDError = 3003 // Lobby was removed while the client was connecting.
)
