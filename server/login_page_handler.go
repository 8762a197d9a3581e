package server

import (
	"net/http"

	"github.com/jrsteele09/go-stateless-auth/provider"
	"github.com/rs/zerolog"
)

// LoginHandler sends the browser to the identity provider's authorize endpoint (GET /login).
// The URL depends only on configuration, so it is built once.
func (s *Server) LoginHandler() http.HandlerFunc {
	authorizeURL := provider.AuthorizationURL(s.provider)

	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementLoginRedirects()
		zerolog.Ctx(r.Context()).Debug().Str("tenant", s.provider.TenantID).Msg("redirecting to identity provider")
		http.Redirect(w, r, authorizeURL, http.StatusFound)
	}
}
