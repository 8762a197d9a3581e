package provider

import (
	"fmt"

	"github.com/jrsteele09/go-stateless-auth/internal/config"
	"github.com/jrsteele09/go-stateless-auth/oauthmodel"
)

// AuthorizationURL returns the provider URL that starts an interactive sign-in.
// The same config always yields the same string. Values are embedded as configured;
// validating them is the job of config loading.
func AuthorizationURL(cfg config.ProviderConfig) string {
	p := oauthmodel.NewAuthorizationParameters(cfg)
	return fmt.Sprintf("%s?%s=%s&%s=%s&%s=%s&%s=%s&%s=%s",
		authorizeEndpoint(cfg),
		oauthmodel.ParamAPIVersion, p.APIVersion,
		oauthmodel.ParamResponseType, p.ResponseType,
		oauthmodel.ParamClientID, p.ClientID,
		oauthmodel.ParamResource, p.Resource,
		oauthmodel.ParamRedirectURI, p.RedirectURI,
	)
}

func authorizeEndpoint(cfg config.ProviderConfig) string {
	return fmt.Sprintf("%s/%s/oauth2/authorize", cfg.Authority, cfg.TenantID)
}

func tokenEndpoint(cfg config.ProviderConfig) string {
	return fmt.Sprintf("%s/%s/oauth2/token", cfg.Authority, cfg.TenantID)
}
