package server

import (
	"net/http"

	"github.com/jrsteele09/go-stateless-auth/identity"
)

// HomeHandler greets the authenticated user
func (s *Server) HomeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := identity.StateFromContext(r.Context())
		writeText(w, http.StatusOK, "Hello "+state.Identity.Username+"!")
	}
}

func (s *Server) PrivateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusOK, "Secret stuff!")
	}
}

// HealthHandler reports liveness. It carries no identity and is never guarded.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusOK, "ok")
	}
}

func (s *Server) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusNotFound, "Not Found")
	}
}
