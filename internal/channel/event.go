package channel

import "github.com/sendit-chat/server/internal/data"

// Kind identifies a broadcast event type on the wire.
type Kind string

const (
	KindNewMessage  Kind = "newMessage"
	KindUserAdded   Kind = "userAdded"
	KindUserRemoved Kind = "userRemoved"
)

// Event is the unit of broadcast. Data carries the full persisted record for
// newMessage/userAdded and the bare username string for userRemoved.
type Event struct {
	Kind Kind `json:"event"`
	Data any  `json:"data"`
}

// NewMessageEvent wraps a persisted message for broadcast.
func NewMessageEvent(msg *data.Message) Event {
	return Event{Kind: KindNewMessage, Data: msg}
}

// UserAddedEvent wraps a created or re-confirmed user for broadcast.
func UserAddedEvent(user *data.User) Event {
	return Event{Kind: KindUserAdded, Data: user}
}

// UserRemovedEvent carries only the username of a user that went offline.
func UserRemovedEvent(username string) Event {
	return Event{Kind: KindUserRemoved, Data: username}
}
