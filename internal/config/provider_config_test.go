package config_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/jrsteele09/go-stateless-auth/internal/config"
	"github.com/jrsteele09/go-stateless-auth/internal/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func setProviderEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AAD_TENANT_ID", "T1")
	t.Setenv("AAD_CLIENT_ID", "C1")
	t.Setenv("AAD_CLIENT_SECRET", "S1")
	t.Setenv("AAD_RESOURCE_ID", "R1")
	t.Setenv("AAD_REDIRECT_URI", "https://host/")
	t.Setenv("AAD_AUTHORITY", "")
	t.Setenv("AAD_EXCHANGE_TIMEOUT", "")
	t.Setenv("AAD_VERIFY_ID_TOKEN", "")
	t.Setenv("AAD_ID_TOKEN_ISSUER", "")
}

func TestLoadProviderConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		setProviderEnv(t)

		cfg, err := config.LoadProviderConfig()
		require.NoError(t, err)
		require.Equal(t, "T1", cfg.TenantID)
		require.Equal(t, "C1", cfg.ClientID)
		require.Equal(t, "S1", cfg.ClientSecret)
		require.Equal(t, "R1", cfg.ResourceID)
		require.Equal(t, "https://host/", cfg.RedirectURI)
		require.Equal(t, config.DefaultAuthority, cfg.Authority)
		require.Equal(t, config.DefaultExchangeTimeout, cfg.ExchangeTimeout)
		require.False(t, cfg.VerifyIDToken)
		require.Equal(t, "https://sts.windows.net/T1/", cfg.IDTokenIssuer)
	})

	t.Run("overrides", func(t *testing.T) {
		setProviderEnv(t)
		t.Setenv("AAD_AUTHORITY", "https://login.example.com/")
		t.Setenv("AAD_EXCHANGE_TIMEOUT", "3s")
		t.Setenv("AAD_VERIFY_ID_TOKEN", "true")
		t.Setenv("AAD_ID_TOKEN_ISSUER", "https://issuer.example.com/")

		cfg, err := config.LoadProviderConfig()
		require.NoError(t, err)
		require.Equal(t, "https://login.example.com", cfg.Authority)
		require.Equal(t, 3*time.Second, cfg.ExchangeTimeout)
		require.True(t, cfg.VerifyIDToken)
		require.Equal(t, "https://issuer.example.com/", cfg.IDTokenIssuer)
	})

	t.Run("missing values are all reported", func(t *testing.T) {
		setProviderEnv(t)
		t.Setenv("AAD_CLIENT_SECRET", "")
		t.Setenv("AAD_REDIRECT_URI", "   ")

		_, err := config.LoadProviderConfig()
		require.Error(t, err)
		require.True(t, errors.Is(err, errors.ErrInvalidConfig))
		require.Contains(t, err.Error(), "AAD_CLIENT_SECRET")
		require.Contains(t, err.Error(), "AAD_REDIRECT_URI")
		require.NotContains(t, err.Error(), "AAD_TENANT_ID")
	})

	t.Run("invalid timeout", func(t *testing.T) {
		setProviderEnv(t)
		t.Setenv("AAD_EXCHANGE_TIMEOUT", "soon")

		_, err := config.LoadProviderConfig()
		require.Error(t, err)
		require.True(t, errors.Is(err, errors.ErrInvalidConfig))
	})

	t.Run("negative timeout", func(t *testing.T) {
		setProviderEnv(t)
		t.Setenv("AAD_EXCHANGE_TIMEOUT", "-1s")

		_, err := config.LoadProviderConfig()
		require.Error(t, err)
		require.True(t, errors.Is(err, errors.ErrInvalidConfig))
	})
}

func TestProviderConfig_LogsWithoutSecret(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	cfg := config.ProviderConfig{
		TenantID:        "T1",
		ClientID:        "C1",
		ClientSecret:    "super-secret",
		ResourceID:      "R1",
		RedirectURI:     "https://host/",
		Authority:       config.DefaultAuthority,
		ExchangeTimeout: time.Second,
	}
	logger.Info().Object("provider", cfg).Msg("loaded")

	require.Contains(t, buf.String(), `"tenant_id":"T1"`)
	require.NotContains(t, buf.String(), "super-secret")
}

func TestEnvVars(t *testing.T) {
	t.Run("port gets a colon prefix", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		require.Equal(t, ":9090", config.New().GetPort())
	})

	t.Run("port already prefixed", func(t *testing.T) {
		t.Setenv("PORT", ":9091")
		require.Equal(t, ":9091", config.New().GetPort())
	})

	t.Run("bool parsing falls back on garbage", func(t *testing.T) {
		t.Setenv("REQUIRE_HTTPS", "maybe")
		require.True(t, config.New().GetRequireHTTPS())

		t.Setenv("REQUIRE_HTTPS", "false")
		require.False(t, config.New().GetRequireHTTPS())
	})

	t.Run("forwarded proto is not trusted by default", func(t *testing.T) {
		t.Setenv("TRUST_FORWARDED_PROTO", "")
		require.False(t, config.New().GetTrustForwardedProto())

		t.Setenv("TRUST_FORWARDED_PROTO", "true")
		require.True(t, config.New().GetTrustForwardedProto())
	})

	t.Run("default error hint", func(t *testing.T) {
		t.Setenv("ERROR_HINT", "")
		require.Equal(t, config.DefaultErrorHint, config.New().GetErrorHint())
	})
}
