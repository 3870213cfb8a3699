// Package data provides DB models and stores.
package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sendit-chat/server/internal/normalize"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// UsersStore performs user DB operations.
type UsersStore struct {
	coll *mongo.Collection
}

// NewUsersStore returns a UsersStore using the provided collection.
func NewUsersStore(coll *mongo.Collection) *UsersStore {
	return &UsersStore{coll: coll}
}

// ListAll returns every known user regardless of online state. There is no
// pagination; the full collection is small by design and clients re-fetch it
// to reconcile after missed broadcasts.
func (u *UsersStore) ListAll(ctx context.Context) ([]*User, error) {
	cursor, err := u.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

// Upsert marks the user online, creating the record on first login. The write
// is a single document operation: concurrent logins for the same name are
// last-write-wins and never produce a duplicate record thanks to the unique
// username index.
func (u *UsersStore) Upsert(ctx context.Context, username string) (*User, error) {
	username = normalize.Username(username)
	now := time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"is_online":  true,
			"last_seen":  now,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"username":   username,
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var user User
	err := u.coll.FindOneAndUpdate(ctx, bson.M{"username": username}, update, opts).Decode(&user)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return &user, nil
}

// SetOffline flips the user offline and refreshes last seen. Unknown usernames
// return ErrNotFound with the store unchanged.
func (u *UsersStore) SetOffline(ctx context.Context, username string) (*User, error) {
	username = normalize.Username(username)
	now := time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"is_online":  false,
			"last_seen":  now,
			"updated_at": now,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user User
	err := u.coll.FindOneAndUpdate(ctx, bson.M{"username": username}, update, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("set user offline: %w", err)
	}
	return &user, nil
}

// Exists checks whether a username is known, independent of online state.
func (u *UsersStore) Exists(ctx context.Context, username string) (bool, error) {
	// CountDocuments is cheaper than FindOne when only existence matters.
	count, err := u.coll.CountDocuments(ctx, bson.M{"username": normalize.Username(username)})
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return count > 0, nil
}
