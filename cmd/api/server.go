package main

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/sendit-chat/server/internal/channel"
	"github.com/sendit-chat/server/internal/data"
)

// PresenceService is the presence tracker surface the gateway routes to.
type PresenceService interface {
	ListAll(ctx context.Context) ([]*data.User, error)
	Login(ctx context.Context, username string) (*data.User, error)
	Logout(ctx context.Context, username string) (*data.User, error)
	Exists(ctx context.Context, username string) (bool, error)
}

// MessageService is the message log surface the gateway routes to.
type MessageService interface {
	Append(ctx context.Context, sender, recipient, content string) (*data.Message, error)
	HistoryFor(ctx context.Context, username string) ([]*data.Message, error)
}

// Pinger reports whether the record store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the session gateway: a stateless router that binds client-facing
// operations to the presence tracker and message log, and ties websocket
// connection open/close to event channel subscribe/unsubscribe. It holds no
// domain state of its own.
type Server struct {
	presence PresenceService
	messages MessageService
	bus      *channel.Channel
	store    Pinger
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// newServer returns a ready-to-use Server wired with services and the event
// channel. allowedOrigin is the browser origin permitted to open websocket
// sessions; requests without an Origin header (non-browser clients) pass.
func newServer(presence PresenceService, messages MessageService, bus *channel.Channel, store Pinger, allowedOrigin string, log zerolog.Logger) *Server {
	return &Server{
		presence: presence,
		messages: messages,
		bus:      bus,
		store:    store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == allowedOrigin
			},
		},
		log: log,
	}
}
