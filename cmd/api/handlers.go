package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sendit-chat/server/internal/data"
	"github.com/sendit-chat/server/internal/validate"
)

// respondJSON writes a JSON body with the given status.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// respondError maps domain errors onto the HTTP taxonomy: validation
// failures are 400, missing records 404, everything else a generic 500. The
// fallback message deliberately hides store internals from the caller.
func (s *Server) respondError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case validate.IsValidation(err):
		respondJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
	case errors.Is(err, data.ErrNotFound):
		respondJSON(w, http.StatusNotFound, map[string]string{"message": "User not found"})
	default:
		s.log.Error().Err(err).Msg(fallback)
		respondJSON(w, http.StatusInternalServerError, map[string]string{"message": fallback})
	}
}

// listUsers handles GET /api/users.
func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.presence.ListAll(r.Context())
	if err != nil {
		s.respondError(w, err, "Error fetching users")
		return
	}
	if users == nil {
		users = []*data.User{}
	}
	respondJSON(w, http.StatusOK, users)
}

type addUserRequest struct {
	Username string `json:"username"`
}

// addUser handles POST /api/users: login/registration in one operation.
func (s *Server) addUser(w http.ResponseWriter, r *http.Request) {
	var req addUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}

	user, err := s.presence.Login(r.Context(), req.Username)
	if err != nil {
		s.respondError(w, err, "Error adding user")
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// removeUser handles DELETE /api/users/{username}: logical removal only, the
// record stays and goes offline.
func (s *Server) removeUser(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	user, err := s.presence.Logout(r.Context(), username)
	if err != nil {
		s.respondError(w, err, "Error removing user")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "User set to offline",
		"user":    user,
	})
}

// userExists handles GET /api/users/exists/{username}.
func (s *Server) userExists(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	exists, err := s.presence.Exists(r.Context(), username)
	if err != nil {
		s.respondError(w, err, "Error checking user")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

// getMessages handles GET /api/messages/{username}: full history, newest first.
func (s *Server) getMessages(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	messages, err := s.messages.HistoryFor(r.Context(), username)
	if err != nil {
		s.respondError(w, err, "Error fetching messages")
		return
	}
	if messages == nil {
		messages = []*data.Message{}
	}
	respondJSON(w, http.StatusOK, messages)
}

type sendMessageRequest struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Content   string `json:"content"`
}

// sendMessage handles POST /api/messages.
func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}

	msg, err := s.messages.Append(r.Context(), req.Sender, req.Recipient, req.Content)
	if err != nil {
		s.respondError(w, err, "Error sending message")
		return
	}
	respondJSON(w, http.StatusCreated, msg)
}

// health handles GET /health with a store reachability probe.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.log.Error().Err(err).Msg("health check failed")
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "store unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
