package data

import (
	"context"
	"fmt"
	"time"

	"github.com/sendit-chat/server/internal/normalize"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MessagesStore provides message database operations.
type MessagesStore struct {
	coll *mongo.Collection
}

// NewMessagesStore returns a MessagesStore using the given collection.
func NewMessagesStore(coll *mongo.Collection) *MessagesStore {
	return &MessagesStore{coll: coll}
}

// Insert persists a message with a server-side timestamp and returns the saved
// record. Messages carry no unique constraint beyond the storage-assigned id;
// two identical sends in the same millisecond are two records.
func (m *MessagesStore) Insert(ctx context.Context, sender, recipient, content string) (*Message, error) {
	msg := &Message{
		Sender:    normalize.Username(sender),
		Recipient: normalize.Username(recipient),
		Content:   content,
		// BSON datetimes have millisecond resolution, so concurrent senders
		// can collide on the same timestamp; insertion order still holds.
		Timestamp: time.Now().UTC(),
	}

	result, err := m.coll.InsertOne(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	msg.ID = result.InsertedID.(bson.ObjectID)
	return msg, nil
}

// HistoryFor returns every message sent or received by the username, newest
// first. No time-range filtering and no pagination: clients call this to
// resynchronize full state after missed push events.
func (m *MessagesStore) HistoryFor(ctx context.Context, username string) ([]*Message, error) {
	username = normalize.Username(username)

	filter := bson.M{
		"$or": bson.A{
			bson.M{"sender": username},
			bson.M{"recipient": username},
		},
	}
	opts := options.Find().SetSort(bson.M{"timestamp": -1})

	cursor, err := m.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []*Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	return messages, nil
}
