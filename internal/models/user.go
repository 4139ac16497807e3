package models

import (
	"strings"

	"github.com/google/uuid"
)

// User is an account as seen by a lobby: identity, display settings and the
// owner-scoped block list.
type User struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Password string    `json:"password,omitempty"`
	Username string    `json:"username"`

	IsEphemeral bool `json:"is_ephemeral"`
	IsAdmin     bool `json:"is_admin"`

	// Role is an opaque account role ("user", "supporter", "admin", ...) echoed in summaries.
	Role     string       `json:"role"`
	Settings UserSettings `json:"settings"`

	// BlockList holds lower-cased usernames barred from this user's lobbies.
	BlockList []string `json:"-"`
}

// UserSettings are client display preferences carried along with a member.
type UserSettings struct {
	CardSize   string `json:"cardSize,omitempty"`
	Background string `json:"background,omitempty"`
	WindowTime int    `json:"windowTime,omitempty"`
}

// Blocks reports whether username is on the user's block list. Comparison is case-insensitive.
func (u *User) Blocks(username string) bool {
	if u == nil {
		return false
	}
	name := strings.ToLower(username)
	for _, blocked := range u.BlockList {
		if blocked == name {
			return true
		}
	}
	return false
}
