// Package chat implements the append-only message log and its coordination
// with the event channel.
package chat

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sendit-chat/server/internal/channel"
	"github.com/sendit-chat/server/internal/data"
	"github.com/sendit-chat/server/internal/normalize"
	"github.com/sendit-chat/server/internal/validate"
)

// MessageStore is the subset of the messages store the log needs.
type MessageStore interface {
	Insert(ctx context.Context, sender, recipient, content string) (*data.Message, error)
	HistoryFor(ctx context.Context, username string) ([]*data.Message, error)
}

// Publisher is the event channel side the log publishes to.
type Publisher interface {
	Publish(channel.Event)
}

// Log appends messages and broadcasts each persisted record. The write is
// committed before the newMessage event goes out; a rejected or failed write
// publishes nothing.
type Log struct {
	store MessageStore
	bus   Publisher
	log   zerolog.Logger
}

// NewLog returns a Log wired to the given store and channel.
func NewLog(store MessageStore, bus Publisher, log zerolog.Logger) *Log {
	return &Log{store: store, bus: bus, log: log}
}

type appendInput struct {
	Sender    string `validate:"required"`
	Recipient string `validate:"required"`
	Content   string `validate:"required"`
}

// Append validates and persists a message with a server-side timestamp, then
// broadcasts the saved record. Sender and recipient are validated non-empty
// but deliberately not checked against the users collection: messaging a name
// that has never logged in is allowed.
func (l *Log) Append(ctx context.Context, sender, recipient, content string) (*data.Message, error) {
	in := appendInput{
		Sender:    normalize.Username(sender),
		Recipient: normalize.Username(recipient),
		Content:   content,
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	msg, err := l.store.Insert(ctx, in.Sender, in.Recipient, in.Content)
	if err != nil {
		return nil, err
	}

	l.log.Debug().
		Str("sender", msg.Sender).
		Str("recipient", msg.Recipient).
		Msg("message appended")
	l.bus.Publish(channel.NewMessageEvent(msg))
	return msg, nil
}

// HistoryFor returns the full history involving the username, newest first.
func (l *Log) HistoryFor(ctx context.Context, username string) ([]*data.Message, error) {
	return l.store.HistoryFor(ctx, username)
}
