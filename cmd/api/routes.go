package main

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sendit-chat/server/internal/logging"
	"github.com/sendit-chat/server/internal/middleware"
)

// routes builds the full route table. The request logger wraps only the /api
// subrouter: the websocket endpoint hijacks the connection and must not go
// through a wrapping ResponseWriter.
func (s *Server) routes(limiter *middleware.LimiterStore) *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.Use(logging.HTTPMiddleware(s.log))

	rateLimited := middleware.RateLimit(limiter)

	api.HandleFunc("/users", s.listUsers).Methods(http.MethodGet)
	api.Handle("/users", rateLimited(http.HandlerFunc(s.addUser))).Methods(http.MethodPost)
	api.HandleFunc("/users/exists/{username}", s.userExists).Methods(http.MethodGet)
	api.HandleFunc("/users/{username}", s.removeUser).Methods(http.MethodDelete)

	api.HandleFunc("/messages/{username}", s.getMessages).Methods(http.MethodGet)
	api.Handle("/messages", rateLimited(http.HandlerFunc(s.sendMessage))).Methods(http.MethodPost)

	r.HandleFunc("/ws", s.handleWebSocket)
	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	return r
}
