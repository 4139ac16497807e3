package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSubstitutesTypedArgs(t *testing.T) {
	msg := Message{Template: ChatMessage, Args: []Arg{Member("alice"), Text("hello {0}")}}
	assert.Equal(t, "alice hello {0}", msg.Render())

	joined := Message{Template: PlayerJoined, Args: []Arg{Member("bob")}}
	assert.Equal(t, "bob has joined the game", joined.Render())
}

func TestRenderLeavesMissingPlaceholders(t *testing.T) {
	msg := Message{Template: ChatMessage, Args: []Arg{Member("alice")}}
	assert.Equal(t, "alice {1}", msg.Render())
}

func TestRenderDoesNotExpandArgumentText(t *testing.T) {
	msg := Message{Template: ChatMessage, Args: []Arg{Member("x{1}"), Text("hi")}}
	assert.Equal(t, "x{1} hi", msg.Render())

	braces := Message{Template: "{ {0} {x}", Args: []Arg{Member("alice")}}
	assert.Equal(t, "{ alice {x}", braces.Render())
}

func TestLogKeepsInsertionOrder(t *testing.T) {
	l := NewLog()
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	l.Append(PlayerJoined, Member("alice"))
	l.Append(ChatMessage, Member("alice"), Text("hi"))
	l.Append(PlayerLeft, Member("alice"))

	msgs := l.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, PlayerJoined, msgs[0].Template)
	assert.Equal(t, ChatMessage, msgs[1].Template)
	assert.Equal(t, PlayerLeft, msgs[2].Template)
	assert.Equal(t, fixed, msgs[1].Timestamp)
}

func TestMessagesReturnsCopy(t *testing.T) {
	l := NewLog()
	l.Append(PlayerJoined, Member("alice"))

	msgs := l.Messages()
	msgs[0].Template = PlayerLeft

	assert.Equal(t, PlayerJoined, l.Messages()[0].Template)
}
