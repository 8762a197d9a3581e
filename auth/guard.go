package auth

import (
	"net"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-stateless-auth/identity"
	"github.com/jrsteele09/go-stateless-auth/oauthmodel"
)

// Outcome is the terminal state of one guard evaluation.
type Outcome int

const (
	Pass Outcome = iota
	Redirect
	Forbidden
)

func (o Outcome) String() string {
	switch o {
	case Pass:
		return "pass"
	case Redirect:
		return "redirect"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Decision is what the guard wants done with a request. It does not touch the response;
// the HTTP adapter applies it.
type Decision struct {
	Outcome Outcome
	// Location is the redirect target when Outcome == Redirect
	Location string
	// Body is the plain-text response when Outcome == Forbidden
	Body string
	// State is the authentication state to attach to the request
	State identity.State
}

// StatusCode maps the decision to its HTTP status. Pass has no status of its own.
func (d Decision) StatusCode() int {
	switch d.Outcome {
	case Redirect:
		return http.StatusFound
	case Forbidden:
		return http.StatusForbidden
	default:
		return 0
	}
}

// DecisionRecorder observes guard outcomes.
type DecisionRecorder interface {
	ObserveDecision(outcome string)
}

const httpsRequiredMessage = "HTTPS is required"

type GuardOptions struct {
	// LoginPath is where unauthenticated callers are sent
	LoginPath string
	// ErrorHint is appended to provider-reported errors
	ErrorHint string
	// RequireHTTPS rejects or upgrades requests that did not arrive over TLS
	RequireHTTPS bool
	// TrustForwardedProto honours X-Forwarded-Proto from a TLS-terminating proxy
	TrustForwardedProto bool
	Recorder            DecisionRecorder
}

// Guard decides whether a request may reach a protected route.
type Guard struct {
	resolver Resolver
	opts     GuardOptions
}

func NewGuard(resolver Resolver, opts GuardOptions) *Guard {
	if opts.LoginPath == "" {
		opts.LoginPath = "/login"
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	return &Guard{resolver: resolver, opts: opts}
}

// Evaluate runs, in order: provider error check, transport check, authentication check.
// The first check that fails ends the evaluation.
func (g *Guard) Evaluate(r *http.Request) Decision {
	d := g.evaluate(r)
	g.opts.Recorder.ObserveDecision(d.Outcome.String())
	return d
}

func (g *Guard) evaluate(r *http.Request) Decision {
	params := oauthmodel.ParseCallback(r.URL.Query())
	if params.HasError() {
		providerErr := &oauthmodel.ProviderError{Code: params.Error, Description: params.ErrorDescription}
		return Decision{
			Outcome: Forbidden,
			Body:    providerErr.Message(g.opts.ErrorHint),
			State:   identity.ErrorState(params.Error, params.ErrorDescription),
		}
	}

	if g.opts.RequireHTTPS && !IsSecure(r, g.opts.TrustForwardedProto) {
		return insecureDecision(r)
	}

	id, ok := g.resolver.Resolve(r)
	if !ok || !id.IsAuthenticated() {
		return Decision{
			Outcome:  Redirect,
			Location: g.opts.LoginPath,
			State:    identity.UnauthenticatedState(),
		}
	}

	return Decision{Outcome: Pass, State: identity.AuthenticatedState(id)}
}

// insecureDecision upgrades safe requests to https and refuses the rest.
func insecureDecision(r *http.Request) Decision {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		target := "https://" + hostWithoutPort(r.Host) + r.URL.RequestURI()
		return Decision{Outcome: Redirect, Location: target, State: identity.UnauthenticatedState()}
	}
	return Decision{Outcome: Forbidden, Body: httpsRequiredMessage, State: identity.UnauthenticatedState()}
}

// hostWithoutPort drops the plain-HTTP listener port so the upgrade lands on the default https port.
func hostWithoutPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		if strings.Contains(h, ":") {
			return "[" + h + "]"
		}
		return h
	}
	return host
}

// RequestScheme returns "https" or "http" for the request as the client sent it.
func RequestScheme(r *http.Request, trustForwardedProto bool) string {
	if r.TLS != nil {
		return "https"
	}
	if trustForwardedProto {
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			return strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
		}
	}
	return "http"
}

// IsSecure reports whether the request arrived over an encrypted transport.
func IsSecure(r *http.Request, trustForwardedProto bool) bool {
	return RequestScheme(r, trustForwardedProto) == "https"
}
