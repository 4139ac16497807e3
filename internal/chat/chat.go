// internal/chat/chat.go
package chat

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// Template identifies a message format. Placeholders are positional: {0}, {1}, ...
type Template string

const (
	PlayerJoined       Template = "{0} has joined the game"
	SpectatorJoined    Template = "{0} has joined the game as a spectator"
	PlayerLeft         Template = "{0} has left the game"
	PlayerDisconnected Template = "{0} has disconnected"
	ChatMessage        Template = "{0} {1}"
)

// ArgKind tags an Arg as a member reference or literal text.
type ArgKind string

const (
	ArgMember ArgKind = "player"
	ArgText   ArgKind = "text"
)

// Arg is a single typed template argument.
type Arg struct {
	Kind ArgKind `json:"type"`
	// Name is the member's display name when Kind is ArgMember.
	Name string `json:"name,omitempty"`
	Text string `json:"text,omitempty"`
}

// Member builds a member-reference argument.
func Member(name string) Arg {
	return Arg{Kind: ArgMember, Name: name}
}

// Text builds a literal text argument.
func Text(s string) Arg {
	return Arg{Kind: ArgText, Text: s}
}

// String renders the argument for display.
func (a Arg) String() string {
	if a.Kind == ArgMember {
		return a.Name
	}
	return a.Text
}

// Message is a structured chat entry. It is rendered only at the display boundary.
type Message struct {
	Template  Template  `json:"template"`
	Args      []Arg     `json:"args"`
	Timestamp time.Time `json:"date"`
}

// Render substitutes every {i} placeholder with the i-th argument in a single
// pass over the template, so argument text is never itself substituted.
// Placeholders without a matching argument are left in place.
func (m Message) Render() string {
	tmpl := string(m.Template)
	var b strings.Builder
	for {
		open := strings.IndexByte(tmpl, '{')
		if open < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		end := strings.IndexByte(tmpl[open:], '}')
		if end < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		end += open
		b.WriteString(tmpl[:open])
		i, err := strconv.Atoi(tmpl[open+1 : end])
		if err != nil || i < 0 || i >= len(m.Args) {
			b.WriteByte('{')
			tmpl = tmpl[open+1:]
			continue
		}
		b.WriteString(m.Args[i].String())
		tmpl = tmpl[end+1:]
	}
}

// Log is an append-only, ordered chat log.
type Log struct {
	mu       sync.RWMutex
	messages []Message
	now      func() time.Time
}

// NewLog returns an empty log stamping messages with the wall clock.
func NewLog() *Log {
	return &Log{now: time.Now}
}

// Append records a message built from tmpl and args.
func (l *Log) Append(tmpl Template, args ...Arg) {
	l.mu.Lock()
	defer l.mu.Unlock()
	msg := Message{
		Template:  tmpl,
		Args:      append([]Arg(nil), args...),
		Timestamp: l.now(),
	}
	l.messages = append(l.messages, msg)
}

// Messages returns a copy of the log in insertion order.
func (l *Log) Messages() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the number of messages recorded so far.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}
