package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-stateless-auth/identity"
	"github.com/jrsteele09/go-stateless-auth/internal/config"
	"github.com/jrsteele09/go-stateless-auth/internal/errors"
	"github.com/jrsteele09/go-stateless-auth/oauthmodel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
)

const idTokenField = "id_token"

// Client redeems authorization codes at the provider's token endpoint.
// It holds no per-request state and is safe for concurrent use.
type Client struct {
	cfg        config.ProviderConfig
	oauth      *oauth2.Config
	httpClient *http.Client
	idTokens   IDTokenParser
	tracer     trace.Tracer
}

type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client used for the token call.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithIDTokenParser replaces the default UnverifiedIDTokenParser.
func WithIDTokenParser(p IDTokenParser) ClientOption {
	return func(c *Client) {
		c.idTokens = p
	}
}

func NewClient(cfg config.ProviderConfig, opts ...ClientOption) *Client {
	c := &Client{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:   authorizeEndpoint(cfg),
				TokenURL:  tokenEndpoint(cfg),
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: &http.Client{},
		idTokens:   UnverifiedIDTokenParser{},
		tracer:     otel.Tracer("github.com/jrsteele09/go-stateless-auth/provider"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Exchange redeems code for the signed-in user's identity. It makes exactly one
// outbound call, bounded by the configured timeout and by ctx, and never retries.
// Every failure is returned as an *ExchangeError.
func (c *Client) Exchange(ctx context.Context, code string) (id identity.Identity, err error) {
	ctx, span := c.tracer.Start(ctx, "provider.Exchange",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("provider.tenant_id", c.cfg.TenantID)),
	)
	defer func() {
		if r := recover(); r != nil {
			id, err = identity.Identity{}, exchangeFailed(fmt.Errorf("panic during exchange: %v", r))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if strings.TrimSpace(code) == "" {
		return identity.Identity{}, invalidArgument("authorization code is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.ExchangeTimeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := c.oauth.Exchange(ctx, code,
		oauth2.SetAuthURLParam(oauthmodel.ParamResource, c.cfg.ResourceID),
	)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return identity.Identity{}, &ExchangeError{
				Kind:         ExchangeFailed,
				ProviderCode: retrieveErr.ErrorCode,
				Err:          err,
			}
		}
		return identity.Identity{}, exchangeFailed(err)
	}

	rawIDToken, ok := token.Extra(idTokenField).(string)
	if !ok || rawIDToken == "" {
		return identity.Identity{}, exchangeFailed(errors.ErrMissingIdentifier)
	}

	id, err = c.idTokens.Parse(ctx, rawIDToken)
	if err != nil {
		return identity.Identity{}, exchangeFailed(err)
	}
	span.SetAttributes(attribute.Int("identity.claims", len(id.Claims)))
	return id, nil
}
