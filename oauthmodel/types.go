package oauthmodel

// ResponseType represents the OAuth 2.0 response type.
// Determines what is returned from the authorization endpoint.
type ResponseType string

const (
	// CodeResponseType indicates the authorization code flow.
	// Returns an authorization code that must be exchanged for tokens at the token endpoint.
	// Example: /{tenant}/oauth2/authorize?response_type=code&client_id=...
	CodeResponseType ResponseType = "code"
)

// APIVersion is the authorization endpoint version the provider expects.
const APIVersion = "1.0"

// Query parameter names used on the authorization endpoint and on the callback.
const (
	ParamAPIVersion       = "api-version"
	ParamResponseType     = "response_type"
	ParamClientID         = "client_id"
	ParamResource         = "resource"
	ParamRedirectURI      = "redirect_uri"
	ParamCode             = "code"
	ParamError            = "error"
	ParamErrorDescription = "error_description"
)
