// Package channel implements the in-process publish/subscribe bus connecting
// live client sessions to server-side state changes.
package channel

import (
	"sync"

	"github.com/rs/zerolog"
)

// Subscriber is the minimal interface the channel needs from a session: the
// ability to accept an event for delivery. Send must not block indefinitely; a
// failed or refused send counts as a delivery failure for that subscriber only.
type Subscriber interface {
	Send(Event) error
}

// Channel owns the subscriber registry. Add and remove are the only mutation
// surface; there is no global connection state anywhere else. Delivery is
// best-effort and at-most-once: sessions absent at publish time simply miss
// the event and reconcile by re-fetching full state on reconnect.
type Channel struct {
	mu   sync.RWMutex
	subs map[string]Subscriber
	log  zerolog.Logger
}

// New creates an empty channel.
func New(log zerolog.Logger) *Channel {
	return &Channel{
		subs: make(map[string]Subscriber),
		log:  log,
	}
}

// Subscribe registers a session under its id. The id doubles as the handle for
// Unsubscribe. Re-subscribing an existing id replaces the previous subscriber.
func (c *Channel) Subscribe(id string, s Subscriber) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs[id] = s
}

// Unsubscribe removes a session. Removing an unknown or already-removed id is
// a no-op, so disconnect paths can call it unconditionally.
func (c *Channel) Unsubscribe(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subs, id)
}

// Count reports the number of live subscribers.
func (c *Channel) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subs)
}

// Publish broadcasts the event to every currently subscribed session,
// including the one that triggered it. A failing subscriber is logged and
// dropped; it never affects delivery to the others and never surfaces to the
// caller, so the store write that triggered the event stands regardless.
func (c *Channel) Publish(e Event) {
	c.mu.RLock()
	type entry struct {
		id  string
		sub Subscriber
	}
	snapshot := make([]entry, 0, len(c.subs))
	for id, s := range c.subs {
		snapshot = append(snapshot, entry{id: id, sub: s})
	}
	c.mu.RUnlock()

	// Send outside the lock so a slow subscriber cannot stall connects and
	// disconnects happening at the same time.
	var failed []string
	for _, ent := range snapshot {
		if err := ent.sub.Send(e); err != nil {
			c.log.Warn().
				Str("session_id", ent.id).
				Str("event", string(e.Kind)).
				Err(err).
				Msg("dropping subscriber after failed delivery")
			failed = append(failed, ent.id)
		}
	}

	for _, id := range failed {
		c.Unsubscribe(id)
	}
}
