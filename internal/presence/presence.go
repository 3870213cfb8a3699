// Package presence maintains the online/offline status of each known user on
// top of the record store and announces transitions on the event channel.
// Presence is a social hint, not a security boundary: there is no session
// token, just a boolean flag and a last-seen time per username.
package presence

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sendit-chat/server/internal/channel"
	"github.com/sendit-chat/server/internal/data"
	"github.com/sendit-chat/server/internal/normalize"
	"github.com/sendit-chat/server/internal/validate"
)

// UserStore is the subset of the users store the tracker needs.
type UserStore interface {
	ListAll(ctx context.Context) ([]*data.User, error)
	Upsert(ctx context.Context, username string) (*data.User, error)
	SetOffline(ctx context.Context, username string) (*data.User, error)
	Exists(ctx context.Context, username string) (bool, error)
}

// Publisher is the event channel side the tracker publishes to.
type Publisher interface {
	Publish(channel.Event)
}

// Tracker coordinates presence writes with event publication. Events are
// published strictly after the store write commits; a failed write publishes
// nothing.
type Tracker struct {
	store UserStore
	bus   Publisher
	log   zerolog.Logger
}

// NewTracker returns a Tracker wired to the given store and channel.
func NewTracker(store UserStore, bus Publisher, log zerolog.Logger) *Tracker {
	return &Tracker{store: store, bus: bus, log: log}
}

type loginInput struct {
	Username string `validate:"required"`
}

// ListAll returns every known user regardless of online state.
func (t *Tracker) ListAll(ctx context.Context) ([]*data.User, error) {
	return t.store.ListAll(ctx)
}

// Login marks the username online, creating the User on first sight. Repeated
// logins re-confirm online status without creating duplicates, but each
// successful call emits its own userAdded event; subscribers must tolerate
// duplicate presence events.
func (t *Tracker) Login(ctx context.Context, username string) (*data.User, error) {
	username = normalize.Username(username)
	if err := validate.Struct(loginInput{Username: username}); err != nil {
		return nil, err
	}

	user, err := t.store.Upsert(ctx, username)
	if err != nil {
		return nil, err
	}

	t.log.Info().Str("username", user.Username).Msg("user online")
	t.bus.Publish(channel.UserAddedEvent(user))
	return user, nil
}

// Logout flips the username offline. Unknown usernames fail with
// data.ErrNotFound and publish nothing.
func (t *Tracker) Logout(ctx context.Context, username string) (*data.User, error) {
	username = normalize.Username(username)
	if err := validate.Struct(loginInput{Username: username}); err != nil {
		return nil, err
	}

	user, err := t.store.SetOffline(ctx, username)
	if err != nil {
		return nil, err
	}

	t.log.Info().Str("username", user.Username).Msg("user offline")
	// The wire event carries only the username; clients already hold the rest
	// of the record and re-fetch the user list to reconcile anyway.
	t.bus.Publish(channel.UserRemovedEvent(user.Username))
	return user, nil
}

// Exists checks whether the username is known, independent of online state.
func (t *Tracker) Exists(ctx context.Context, username string) (bool, error) {
	return t.store.Exists(ctx, username)
}
