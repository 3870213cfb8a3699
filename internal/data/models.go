package data

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User maps to the users collection. The username is the identity key; there is
// no account deletion, "removing" a user only flips IsOnline.
type User struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Username  string        `bson:"username" json:"username"`
	IsOnline  bool          `bson:"is_online" json:"isOnline"`
	LastSeen  time.Time     `bson:"last_seen" json:"lastSeen"`
	CreatedAt time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updatedAt"`
}

// Message maps to the messages collection. Sender and recipient are plain
// username strings, not enforced references; a message may name a user that has
// never logged in. Messages are immutable once created.
type Message struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Sender    string        `bson:"sender" json:"sender"`
	Recipient string        `bson:"recipient" json:"recipient"`
	Content   string        `bson:"content" json:"content"`
	Timestamp time.Time     `bson:"timestamp" json:"timestamp"`
}
