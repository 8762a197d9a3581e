package oauthmodel

import (
	"net/url"

	"github.com/jrsteele09/go-stateless-auth/internal/config"
)

// AuthorizationParameters holds the parameters of the redirect to the provider's authorization endpoint.
type AuthorizationParameters struct {
	// TenantID selects the directory the user signs in to.
	// Placement: path segment, /{tenant}/oauth2/authorize
	// Example: "f721817b-99eb-4505-b220-850208ab5dd7"
	TenantID string

	// APIVersion is the authorization endpoint version.
	// Required: Yes (always "1.0")
	APIVersion string

	// ResponseType specifies what the authorization endpoint should return.
	// Required: Yes
	// Example: "code" (only supported value)
	ResponseType ResponseType

	// ClientID identifies the application requesting authorization.
	// Required: Yes
	// Example: "17c9a991-4954-48e4-9cf9-39b126ba975c"
	ClientID string

	// Resource is the App ID URI of the API the token will be issued for.
	// Required: Yes
	// Example: "https://contoso.onmicrosoft.com/WebAPI"
	Resource string

	// RedirectURI is where the provider sends the authorization code.
	// Required: Yes
	// Example: "https://localhost:44308/"
	// Security: Must exactly match the reply URL registered with the provider and
	// the redirect_uri presented again at the token endpoint
	RedirectURI string
}

// NewAuthorizationParameters builds the authorization request for the configured application.
func NewAuthorizationParameters(cfg config.ProviderConfig) AuthorizationParameters {
	return AuthorizationParameters{
		TenantID:     cfg.TenantID,
		APIVersion:   APIVersion,
		ResponseType: CodeResponseType,
		ClientID:     cfg.ClientID,
		Resource:     cfg.ResourceID,
		RedirectURI:  cfg.RedirectURI,
	}
}

// CallbackParameters are appended by the provider to the redirect URI.
// Either Code or Error is set on a genuine callback; neither is set on an ordinary request.
type CallbackParameters struct {
	// Code is the short-lived authorization code.
	// Example: ?code=AwABAAAAvPM1KaPlrEqdFSBzjqfTGBCmLdgfSTLEMPGYuNHSUYBrq...
	Code string

	// Error is the provider's error code when authorization failed.
	// Example: "access_denied"
	Error string

	// ErrorDescription is the provider's human readable explanation.
	// Example: "AADSTS65004: The resource owner or authorization server denied the request."
	ErrorDescription string

	errorPresent bool
}

// ParseCallback reads the callback parameters from a query string.
func ParseCallback(query url.Values) CallbackParameters {
	return CallbackParameters{
		Code:             query.Get(ParamCode),
		Error:            query.Get(ParamError),
		ErrorDescription: query.Get(ParamErrorDescription),
		errorPresent:     query.Has(ParamError),
	}
}

// HasError reports whether the provider redirected back with an error.
// An error parameter counts even when its value is empty.
func (c CallbackParameters) HasError() bool {
	return c.errorPresent || c.Error != ""
}

// HasCode reports whether an authorization code is present.
func (c CallbackParameters) HasCode() bool {
	return c.Code != ""
}
