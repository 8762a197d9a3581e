package server_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/go-stateless-auth/auth/authfakes"
	"github.com/jrsteele09/go-stateless-auth/identity"
	"github.com/jrsteele09/go-stateless-auth/internal/config"
	"github.com/jrsteele09/go-stateless-auth/internal/errors"
	"github.com/jrsteele09/go-stateless-auth/internal/metrics"
	"github.com/jrsteele09/go-stateless-auth/provider"
	"github.com/jrsteele09/go-stateless-auth/server"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

const (
	goodCode     = "good-code"
	testUsername = "alice@contoso.com"
)

type testFixture struct {
	server    *server.Server
	exchanger *authfakes.FakeExchanger
	metrics   *metrics.Metrics
	provider  config.ProviderConfig
}

func testProviderConfig() config.ProviderConfig {
	return config.ProviderConfig{
		TenantID:        "contoso.onmicrosoft.com",
		ClientID:        "11111111-2222-3333-4444-555555555555",
		ClientSecret:    "s3cret",
		ResourceID:      "https://contoso.onmicrosoft.com/app",
		RedirectURI:     "https://app.contoso.com/",
		Authority:       config.DefaultAuthority,
		ExchangeTimeout: time.Second,
	}
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	t.Setenv("ENV", "TEST")
	t.Setenv("REQUIRE_HTTPS", "true")
	t.Setenv("TRUST_FORWARDED_PROTO", "true")

	ex := authfakes.NewFakeExchanger()
	ex.Accept(goodCode, identity.New(testUsername, []string{"Reader"}))
	m := metrics.New()
	providerCfg := testProviderConfig()

	s, err := server.New(config.New(), providerCfg, server.Deps{Exchanger: ex, Metrics: m})
	require.NoError(t, err)

	return &testFixture{server: s, exchanger: ex, metrics: m, provider: providerCfg}
}

func (f *testFixture) do(method, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	f.server.ServeHTTP(rr, req)
	return rr
}

func TestNew_RejectsInvalidProviderConfig(t *testing.T) {
	cfg := testProviderConfig()
	cfg.ClientID = ""

	s, err := server.New(config.New(), cfg, server.Deps{Exchanger: authfakes.NewFakeExchanger(), Metrics: metrics.New()})
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrInvalidConfig))
	require.Nil(t, s)
}

func TestLogin(t *testing.T) {
	f := setupTestFixture(t)
	expected := provider.AuthorizationURL(f.provider)

	t.Run("redirects to the authorization url", func(t *testing.T) {
		rr := f.do("GET", "https://app.contoso.com/login", nil)
		require.Equal(t, http.StatusFound, rr.Code)
		require.Equal(t, expected, rr.Header().Get("Location"))
		require.True(t, strings.HasPrefix(expected, "https://login.windows.net/contoso.onmicrosoft.com/oauth2/authorize?api-version=1.0&response_type=code"))
	})

	t.Run("same url every time", func(t *testing.T) {
		first := f.do("GET", "https://app.contoso.com/login", nil).Header().Get("Location")
		second := f.do("GET", "https://app.contoso.com/login", nil).Header().Get("Location")
		require.Equal(t, first, second)
	})

	t.Run("no exchange is attempted", func(t *testing.T) {
		f.do("GET", "https://app.contoso.com/login?code="+goodCode, nil)
		require.Empty(t, f.exchanger.Calls())
	})

	t.Run("counts redirects", func(t *testing.T) {
		require.Equal(t, float64(4), testutil.ToFloat64(f.metrics.LoginRedirects))
	})
}

func TestProtectedRoutes(t *testing.T) {
	t.Run("no code redirects to login", func(t *testing.T) {
		f := setupTestFixture(t)

		rr := f.do("GET", "https://app.contoso.com/Private", nil)
		require.Equal(t, http.StatusFound, rr.Code)
		require.Equal(t, server.RouteLogin, rr.Header().Get("Location"))
		require.Empty(t, f.exchanger.Calls())
	})

	t.Run("valid code renders the page", func(t *testing.T) {
		f := setupTestFixture(t)

		rr := f.do("GET", "https://app.contoso.com/Private?code="+goodCode, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		require.Equal(t, "Secret stuff!", rr.Body.String())
		require.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
		require.Equal(t, []string{goodCode}, f.exchanger.Calls())
	})

	t.Run("home greets the user", func(t *testing.T) {
		f := setupTestFixture(t)

		rr := f.do("GET", "https://app.contoso.com/?code="+goodCode, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		require.Equal(t, "Hello "+testUsername+"!", rr.Body.String())
	})

	t.Run("every request exchanges its own code", func(t *testing.T) {
		f := setupTestFixture(t)

		f.do("GET", "https://app.contoso.com/Private?code="+goodCode, nil)
		rr := f.do("GET", "https://app.contoso.com/Private", nil)
		require.Equal(t, http.StatusFound, rr.Code)
		require.Len(t, f.exchanger.Calls(), 1)
	})

	t.Run("rejected code redirects to login", func(t *testing.T) {
		f := setupTestFixture(t)

		rr := f.do("GET", "https://app.contoso.com/Private?code=stale", nil)
		require.Equal(t, http.StatusFound, rr.Code)
		require.Equal(t, server.RouteLogin, rr.Header().Get("Location"))
		require.Equal(t, float64(1), testutil.ToFloat64(f.metrics.ExchangesTotal.WithLabelValues("exchange_failed")))
	})

	t.Run("provider error is forbidden", func(t *testing.T) {
		f := setupTestFixture(t)

		rr := f.do("GET", "https://app.contoso.com/Private?error=access_denied&error_description=User+cancelled&code="+goodCode, nil)
		require.Equal(t, http.StatusForbidden, rr.Code)
		require.True(t, strings.HasPrefix(rr.Body.String(), "access_denied"))
		require.Equal(t, "access_denied\n\nUser cancelled\n\n"+config.DefaultErrorHint, rr.Body.String())
		require.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
		require.Empty(t, f.exchanger.Calls())
	})

	t.Run("plain http is redirected to https", func(t *testing.T) {
		f := setupTestFixture(t)

		rr := f.do("GET", "http://app.contoso.com/Private?code="+goodCode, nil)
		require.Equal(t, http.StatusFound, rr.Code)
		require.Equal(t, "https://app.contoso.com/Private?code="+goodCode, rr.Header().Get("Location"))
		require.Empty(t, f.exchanger.Calls())
	})

	t.Run("forwarded https is trusted", func(t *testing.T) {
		f := setupTestFixture(t)

		rr := f.do("GET", "http://app.contoso.com/Private?code="+goodCode, map[string]string{"X-Forwarded-Proto": "https"})
		require.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("htmx requests still get a 302 to login", func(t *testing.T) {
		f := setupTestFixture(t)

		rr := f.do("GET", "https://app.contoso.com/Private", map[string]string{"HX-Request": "true"})
		require.Equal(t, http.StatusFound, rr.Code)
		require.Equal(t, server.RouteLogin, rr.Header().Get("Location"))
		require.Empty(t, rr.Header().Get("HX-Redirect"))
	})

	t.Run("empty provider error is forbidden", func(t *testing.T) {
		f := setupTestFixture(t)

		rr := f.do("GET", "https://app.contoso.com/Private?error=&error_description=x", nil)
		require.Equal(t, http.StatusForbidden, rr.Code)
		require.Equal(t, "\n\nx\n\n"+config.DefaultErrorHint, rr.Body.String())
	})

	t.Run("https upgrade drops the plain http port", func(t *testing.T) {
		f := setupTestFixture(t)

		rr := f.do("GET", "http://localhost:8080/Private", nil)
		require.Equal(t, http.StatusFound, rr.Code)
		require.Equal(t, "https://localhost/Private", rr.Header().Get("Location"))
	})

	t.Run("decisions are counted", func(t *testing.T) {
		f := setupTestFixture(t)

		f.do("GET", "https://app.contoso.com/Private", nil)
		f.do("GET", "https://app.contoso.com/Private?code="+goodCode, nil)
		require.Equal(t, float64(1), testutil.ToFloat64(f.metrics.GuardDecisions.WithLabelValues("redirect")))
		require.Equal(t, float64(1), testutil.ToFloat64(f.metrics.GuardDecisions.WithLabelValues("pass")))
	})
}

func TestRequestID(t *testing.T) {
	f := setupTestFixture(t)

	t.Run("generated when absent", func(t *testing.T) {
		rr := f.do("GET", "https://app.contoso.com/login", nil)
		require.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	})

	t.Run("valid id is propagated", func(t *testing.T) {
		id := "0b8e2f0c-4a9f-4a3b-9f55-8f1c1d2e3f40"
		rr := f.do("GET", "https://app.contoso.com/login", map[string]string{"X-Request-ID": id})
		require.Equal(t, id, rr.Header().Get("X-Request-ID"))
	})

	t.Run("invalid id is replaced", func(t *testing.T) {
		rr := f.do("GET", "https://app.contoso.com/login", map[string]string{"X-Request-ID": "not-a-uuid"})
		require.NotEqual(t, "not-a-uuid", rr.Header().Get("X-Request-ID"))
	})
}

func TestOperationalRoutes(t *testing.T) {
	f := setupTestFixture(t)

	t.Run("health", func(t *testing.T) {
		rr := f.do("GET", "http://app.contoso.com/healthz", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		require.Equal(t, "ok", rr.Body.String())
	})

	t.Run("metrics", func(t *testing.T) {
		f.do("GET", "https://app.contoso.com/login", nil)
		rr := f.do("GET", "http://app.contoso.com/metrics", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		require.Contains(t, rr.Body.String(), "stateless_auth_login_redirects_total 1")
	})

	t.Run("unknown path", func(t *testing.T) {
		rr := f.do("GET", "https://app.contoso.com/nope", nil)
		require.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("routes are registered", func(t *testing.T) {
		require.Contains(t, f.server.Routes(), "GET "+server.RouteLogin)
		require.Contains(t, f.server.Routes(), "GET "+server.RoutePrivate)
	})
}

func TestRouteTableLoggedInDev(t *testing.T) {
	var buf bytes.Buffer
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})
	t.Setenv("ENV", "DEV")

	_, err := server.New(config.New(), testProviderConfig(), server.Deps{Exchanger: authfakes.NewFakeExchanger(), Metrics: metrics.New()})
	require.NoError(t, err)
	require.Contains(t, buf.String(), server.RoutePrivate)
	require.Contains(t, buf.String(), server.RouteLogin)
}
