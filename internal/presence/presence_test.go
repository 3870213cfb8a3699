package presence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/sendit-chat/server/internal/channel"
	"github.com/sendit-chat/server/internal/data"
	"github.com/sendit-chat/server/internal/validate"
)

// fakeUserStore keeps users in a map, mimicking the upsert/set-offline
// semantics of the Mongo store.
type fakeUserStore struct {
	users   map[string]*data.User
	failAll bool
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*data.User)}
}

func (f *fakeUserStore) ListAll(ctx context.Context) ([]*data.User, error) {
	if f.failAll {
		return nil, errors.New("store down")
	}
	out := make([]*data.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserStore) Upsert(ctx context.Context, username string) (*data.User, error) {
	if f.failAll {
		return nil, errors.New("store down")
	}
	u, ok := f.users[username]
	if !ok {
		u = &data.User{Username: username, CreatedAt: time.Now()}
		f.users[username] = u
	}
	u.IsOnline = true
	u.LastSeen = time.Now()
	return u, nil
}

func (f *fakeUserStore) SetOffline(ctx context.Context, username string) (*data.User, error) {
	if f.failAll {
		return nil, errors.New("store down")
	}
	u, ok := f.users[username]
	if !ok {
		return nil, data.ErrNotFound
	}
	u.IsOnline = false
	u.LastSeen = time.Now()
	return u, nil
}

func (f *fakeUserStore) Exists(ctx context.Context, username string) (bool, error) {
	_, ok := f.users[username]
	return ok, nil
}

// recordingBus captures everything published so tests can assert on exact
// event counts and payloads.
type recordingBus struct {
	events []channel.Event
}

func (r *recordingBus) Publish(e channel.Event) {
	r.events = append(r.events, e)
}

func newTracker() (*Tracker, *fakeUserStore, *recordingBus) {
	store := newFakeUserStore()
	bus := &recordingBus{}
	return NewTracker(store, bus, zerolog.Nop()), store, bus
}

func TestLogin_CreatesUserOnce(t *testing.T) {
	req := require.New(t)
	tracker, store, bus := newTracker()
	ctx := context.Background()

	user, err := tracker.Login(ctx, "alice")
	req.NoError(err)
	req.Equal("alice", user.Username)
	req.True(user.IsOnline)

	// A second login re-confirms online status without a duplicate record,
	// but still emits its own presence event.
	_, err = tracker.Login(ctx, "alice")
	req.NoError(err)
	req.Len(store.users, 1)

	req.Len(bus.events, 2)
	for _, e := range bus.events {
		req.Equal(channel.KindUserAdded, e.Kind)
	}
}

func TestLogin_EmptyUsernameRejected(t *testing.T) {
	req := require.New(t)
	tracker, store, bus := newTracker()

	_, err := tracker.Login(context.Background(), "   ")
	req.Error(err)
	req.True(validate.IsValidation(err))
	req.Empty(store.users)
	req.Empty(bus.events)
}

func TestLogout_SetsOfflineAndPublishesUsername(t *testing.T) {
	req := require.New(t)
	tracker, store, bus := newTracker()
	ctx := context.Background()

	_, err := tracker.Login(ctx, "alice")
	req.NoError(err)

	user, err := tracker.Logout(ctx, "alice")
	req.NoError(err)
	req.False(user.IsOnline)
	req.True(store.users["alice"].LastSeen.After(time.Time{}))

	last := bus.events[len(bus.events)-1]
	req.Equal(channel.KindUserRemoved, last.Kind)
	req.Equal("alice", last.Data)
}

func TestLogout_UnknownUserFailsWithoutEvent(t *testing.T) {
	req := require.New(t)
	tracker, store, bus := newTracker()

	_, err := tracker.Logout(context.Background(), "ghost")
	req.ErrorIs(err, data.ErrNotFound)
	req.Empty(store.users)
	req.Empty(bus.events)
}

func TestLogin_StoreFailurePublishesNothing(t *testing.T) {
	req := require.New(t)
	tracker, store, bus := newTracker()
	store.failAll = true

	_, err := tracker.Login(context.Background(), "alice")
	req.Error(err)
	req.Empty(bus.events)
}

func TestListAllAndExists(t *testing.T) {
	req := require.New(t)
	tracker, _, _ := newTracker()
	ctx := context.Background()

	_, err := tracker.Login(ctx, "alice")
	req.NoError(err)
	_, err = tracker.Login(ctx, "bob")
	req.NoError(err)
	_, err = tracker.Logout(ctx, "alice")
	req.NoError(err)

	// Logout never deletes: both users remain listed.
	users, err := tracker.ListAll(ctx)
	req.NoError(err)
	req.Len(users, 2)

	ok, err := tracker.Exists(ctx, "alice")
	req.NoError(err)
	req.True(ok)

	ok, err = tracker.Exists(ctx, "ghost")
	req.NoError(err)
	req.False(ok)
}
