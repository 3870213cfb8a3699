package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/sendit-chat/server/internal/channel"
)

const (
	// writeWait is the max time allowed for a single frame write.
	writeWait = 10 * time.Second
	// pongWait is how long a connection may stay silent before it is
	// considered dead; pings go out at pingPeriod to keep it alive.
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	// sendBuffer bounds the per-session outgoing queue. Overflow counts as a
	// delivery failure and drops the session; the client reconnects and
	// re-fetches full state, which the at-most-once model already requires.
	sendBuffer = 256
)

// session is one live websocket connection subscribed to the event channel.
// It is distinct from the persisted User identity: the server pushes every
// event to every session with no targeting.
type session struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	closed atomic.Bool
	log    zerolog.Logger
}

// Send implements channel.Subscriber. It queues the event without blocking:
// a closed session or a full buffer is reported as an error so the channel
// drops this subscriber and the other subscribers stay unaffected.
func (s *session) Send(e channel.Event) error {
	if s.closed.Load() {
		return errors.New("session closed")
	}

	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	select {
	case s.send <- payload:
		return nil
	default:
		return errors.New("send buffer full")
	}
}

// handleWebSocket handles GET /ws: it upgrades the connection, subscribes the
// new session to the event channel, and starts the read/write pumps. The
// subscription lives exactly as long as the connection.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	sess := &session{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	sess.log = s.log.With().Str("session_id", sess.id).Logger()

	s.bus.Subscribe(sess.id, sess)
	sess.log.Info().Int("subscribers", s.bus.Count()).Msg("client connected")

	go sess.writePump()
	go s.readPump(sess)
}

// readPump consumes inbound frames until the connection drops. Clients act
// through the HTTP API, so inbound payloads are discarded; the pump exists to
// process control frames and to detect disconnects. On exit the session is
// unsubscribed immediately — in-flight store operations it triggered still
// complete and still broadcast to everyone else.
func (s *Server) readPump(sess *session) {
	defer func() {
		s.bus.Unsubscribe(sess.id)
		sess.closed.Store(true)
		_ = sess.conn.Close()
		sess.log.Info().Int("subscribers", s.bus.Count()).Msg("client disconnected")
	}()

	sess.conn.SetReadLimit(512)
	_ = sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	sess.conn.SetPongHandler(func(string) error {
		return sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := sess.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				sess.log.Debug().Err(err).Msg("websocket read error")
			}
			return
		}
	}
}

// writePump drains the send queue onto the wire and keeps the connection
// alive with periodic pings. It exits when a write fails or the session
// closes, which in turn makes readPump unsubscribe and clean up.
func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case payload := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				s.log.Debug().Err(err).Msg("websocket write error")
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
