package telemetry_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-stateless-auth/internal/config"
	"github.com/jrsteele09/go-stateless-auth/internal/telemetry"
	"github.com/stretchr/testify/require"
)

func TestInit_DisabledWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	shutdown, err := telemetry.Init(context.Background(), config.New(), "test")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
