package httpapi

import (
	"net/http"

	"github.com/globelend/waitlist-manager/internal/auth"
)

type sessionResponse struct {
	User *auth.Identity `json:"user"`
}

// session returns the logged in identity or null.
func (s *Server) session(w http.ResponseWriter, r *http.Request) {
	id, ok := s.d.Gate.OptionalSession(r)
	if !ok {
		writeJSON(w, r, http.StatusOK, sessionResponse{})
		return
	}
	writeJSON(w, r, http.StatusOK, sessionResponse{User: &id})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.d.Gate.ClearSession(w)
	w.WriteHeader(http.StatusNoContent)
}
