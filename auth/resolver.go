package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/jrsteele09/go-stateless-auth/identity"
	"github.com/jrsteele09/go-stateless-auth/internal/errors"
	"github.com/jrsteele09/go-stateless-auth/oauthmodel"
	"github.com/jrsteele09/go-stateless-auth/provider"
	"github.com/rs/zerolog"
)

// Exchanger redeems an authorization code for an identity.
type Exchanger interface {
	Exchange(ctx context.Context, code string) (identity.Identity, error)
}

// Resolver derives the caller's identity from a single request.
type Resolver interface {
	Resolve(r *http.Request) (identity.Identity, bool)
}

// ExchangeRecorder observes exchange outcomes.
type ExchangeRecorder interface {
	ObserveExchange(outcome string, duration time.Duration)
}

const (
	OutcomeSuccess         = "success"
	OutcomeInvalidArgument = "invalid_argument"
	OutcomeExchangeFailed  = "exchange_failed"
)

// StatelessResolver resolves identity from the authorization code on the request itself.
// Nothing is cached: every request triggers its own exchange.
type StatelessResolver struct {
	exchanger Exchanger
	recorder  ExchangeRecorder
}

var _ Resolver = (*StatelessResolver)(nil)

func NewStatelessResolver(exchanger Exchanger, recorder ExchangeRecorder) *StatelessResolver {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &StatelessResolver{exchanger: exchanger, recorder: recorder}
}

// Resolve returns false when the request has no code or the exchange fails. Exchange
// errors are logged and dropped; callers only see presence or absence of an identity.
func (s *StatelessResolver) Resolve(r *http.Request) (identity.Identity, bool) {
	params := oauthmodel.ParseCallback(r.URL.Query())
	if !params.HasCode() {
		return identity.Identity{}, false
	}

	start := time.Now()
	id, err := s.exchanger.Exchange(r.Context(), params.Code)
	if err != nil {
		outcome := exchangeOutcome(err)
		s.recorder.ObserveExchange(outcome, time.Since(start))

		event := zerolog.Ctx(r.Context()).Warn().Err(err).Str("outcome", outcome)
		var exErr *provider.ExchangeError
		if errors.As(err, &exErr) && exErr.ProviderCode != "" {
			event = event.Str("provider_error", exErr.ProviderCode)
		}
		event.Msg("authorization code exchange failed")
		return identity.Identity{}, false
	}

	s.recorder.ObserveExchange(OutcomeSuccess, time.Since(start))
	return id, true
}

func exchangeOutcome(err error) string {
	if errors.Is(err, errors.ErrInvalidArgument) {
		return OutcomeInvalidArgument
	}
	return OutcomeExchangeFailed
}

type nopRecorder struct{}

func (nopRecorder) ObserveExchange(string, time.Duration) {}
func (nopRecorder) ObserveDecision(string)                {}
