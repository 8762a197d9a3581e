package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/jrsteele09/go-stateless-auth/internal/errors"
	"github.com/rs/zerolog"
)

const (
	tenantIDEnvVar        = "AAD_TENANT_ID"
	clientIDEnvVar        = "AAD_CLIENT_ID"
	clientSecretEnvVar    = "AAD_CLIENT_SECRET"
	resourceIDEnvVar      = "AAD_RESOURCE_ID"
	redirectURIEnvVar     = "AAD_REDIRECT_URI"
	authorityEnvVar       = "AAD_AUTHORITY"
	exchangeTimeoutEnvVar = "AAD_EXCHANGE_TIMEOUT"
	verifyIDTokenEnvVar   = "AAD_VERIFY_ID_TOKEN"
	idTokenIssuerEnvVar   = "AAD_ID_TOKEN_ISSUER"

	DefaultAuthority       = "https://login.windows.net"
	DefaultExchangeTimeout = 10 * time.Second
)

// ProviderConfig identifies this application to the identity provider.
// It is loaded once at startup and passed by value to every component that needs it.
type ProviderConfig struct {
	// TenantID is the directory (domain) the users authenticate against
	TenantID string
	// ClientID identifies this web application to the provider
	ClientID string
	// ClientSecret authenticates this application at the token endpoint
	ClientSecret string
	// ResourceID is the App ID URI of the protected resource
	ResourceID string
	// RedirectURI receives the authorization code. It must match the registered reply URL exactly.
	RedirectURI string

	// Authority is the provider base URL, e.g. https://login.windows.net
	Authority string
	// ExchangeTimeout bounds the token endpoint call
	ExchangeTimeout time.Duration
	// VerifyIDToken enables signature verification of the returned id token
	VerifyIDToken bool
	// IDTokenIssuer is the expected issuer when VerifyIDToken is set
	IDTokenIssuer string
}

// LoadProviderConfig reads the provider settings from the environment and validates them.
func LoadProviderConfig() (ProviderConfig, error) {
	timeout, err := getDurationEnv(exchangeTimeoutEnvVar, DefaultExchangeTimeout)
	if err != nil {
		return ProviderConfig{}, errors.Wrapf(errors.ErrInvalidConfig, "%s", err.Error())
	}

	cfg := ProviderConfig{
		TenantID:        GetEnv(tenantIDEnvVar, ""),
		ClientID:        GetEnv(clientIDEnvVar, ""),
		ClientSecret:    GetEnv(clientSecretEnvVar, ""),
		ResourceID:      GetEnv(resourceIDEnvVar, ""),
		RedirectURI:     GetEnv(redirectURIEnvVar, ""),
		Authority:       strings.TrimRight(GetEnv(authorityEnvVar, DefaultAuthority), "/"),
		ExchangeTimeout: timeout,
		VerifyIDToken:   GetBoolEnv(verifyIDTokenEnvVar, false),
	}
	cfg.IDTokenIssuer = GetEnv(idTokenIssuerEnvVar, DefaultIDTokenIssuer(cfg.TenantID))

	if err := cfg.Validate(); err != nil {
		return ProviderConfig{}, err
	}
	return cfg, nil
}

// DefaultIDTokenIssuer is the v1 issuer the provider stamps on id tokens for a tenant
func DefaultIDTokenIssuer(tenantID string) string {
	return fmt.Sprintf("https://sts.windows.net/%s/", tenantID)
}

// Validate reports every required value that is empty.
func (c ProviderConfig) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{tenantIDEnvVar, c.TenantID},
		{clientIDEnvVar, c.ClientID},
		{clientSecretEnvVar, c.ClientSecret},
		{resourceIDEnvVar, c.ResourceID},
		{redirectURIEnvVar, c.RedirectURI},
		{authorityEnvVar, c.Authority},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return errors.Wrapf(errors.ErrInvalidConfig, "missing %s", strings.Join(missing, ", "))
	}
	if c.ExchangeTimeout <= 0 {
		return errors.Wrapf(errors.ErrInvalidConfig, "%s must be positive", exchangeTimeoutEnvVar)
	}
	return nil
}

// MarshalZerologObject logs the configuration without the client secret.
func (c ProviderConfig) MarshalZerologObject(e *zerolog.Event) {
	e.Str("tenant_id", c.TenantID).
		Str("client_id", c.ClientID).
		Str("resource_id", c.ResourceID).
		Str("redirect_uri", c.RedirectURI).
		Str("authority", c.Authority).
		Dur("exchange_timeout", c.ExchangeTimeout).
		Bool("verify_id_token", c.VerifyIDToken)
}
