// internal/lobby/errors.go
package lobby

import "errors"

// ErrorKind classifies why a membership request failed.
type ErrorKind int

const (
	// KindRejected covers capacity, started and blocked refusals. No reason is
	// ever shown to the requester.
	KindRejected ErrorKind = iota + 1
	// KindInvalidCredential is a password mismatch.
	KindInvalidCredential
	// KindPermissionDenied is spectating a lobby that forbids it.
	KindPermissionDenied
)

// Error is a typed membership failure.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches errors of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	// ErrRejected is returned for silent refusals. Transports must not relay it.
	ErrRejected = &Error{Kind: KindRejected, Message: "join rejected"}
	// ErrInvalidCredential is returned when the lobby password does not match.
	ErrInvalidCredential = &Error{Kind: KindInvalidCredential, Message: "Incorrect game password"}
	// ErrPermissionDenied is returned when spectators are not allowed.
	ErrPermissionDenied = &Error{Kind: KindPermissionDenied, Message: "Join not permitted"}
)

// UserMessage returns the text that may be shown to the requester for err.
// Silent rejections and unknown errors yield "".
func UserMessage(err error) string {
	var le *Error
	if !errors.As(err, &le) || le.Kind == KindRejected {
		return ""
	}
	return le.Message
}
