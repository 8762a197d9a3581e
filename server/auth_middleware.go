package server

import (
	"net/http"

	"github.com/jrsteele09/go-stateless-auth/auth"
	"github.com/jrsteele09/go-stateless-auth/identity"
	"github.com/rs/zerolog"
)

// RequireAuthentication guards a route: it evaluates the request, then either
// redirects, refuses, or runs the handler with the identity in the context.
func (s *Server) RequireAuthentication() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			decision := s.guard.Evaluate(r)
			ctx := identity.WithState(r.Context(), decision.State)

			switch decision.Outcome {
			case auth.Pass:
				logger := zerolog.Ctx(ctx).With().Str("user", decision.State.Identity.Username).Logger()
				next(w, r.WithContext(logger.WithContext(ctx)))
			case auth.Redirect:
				redirect(w, r, decision.Location)
			case auth.Forbidden:
				zerolog.Ctx(ctx).Info().
					Str("error", decision.State.ErrorCode).
					Msg("request refused")
				writeText(w, decision.StatusCode(), decision.Body)
			}
		}
	}
}
