package identity_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-stateless-auth/identity"
	"github.com/stretchr/testify/require"
)

func TestIdentity_IsAuthenticated(t *testing.T) {
	require.False(t, identity.Identity{}.IsAuthenticated())
	require.False(t, identity.Identity{Username: "  \t"}.IsAuthenticated())
	require.True(t, identity.Identity{Username: "jane@contoso.com"}.IsAuthenticated())
}

func TestNew_CopiesClaims(t *testing.T) {
	claims := []string{"Reader", "Writer"}
	id := identity.New("jane", claims)
	claims[0] = "Admin"

	require.Equal(t, []string{"Reader", "Writer"}, id.Claims)
}

func TestContext(t *testing.T) {
	t.Run("empty context is unauthenticated", func(t *testing.T) {
		state := identity.StateFromContext(context.Background())
		require.Equal(t, identity.Unauthenticated, state.Kind)

		_, ok := identity.FromContext(context.Background())
		require.False(t, ok)
	})

	t.Run("identity round trip", func(t *testing.T) {
		ctx := identity.WithIdentity(context.Background(), identity.New("jane", nil))

		id, ok := identity.FromContext(ctx)
		require.True(t, ok)
		require.Equal(t, "jane", id.Username)
		require.Equal(t, identity.Authenticated, identity.StateFromContext(ctx).Kind)
	})

	t.Run("error state carries no identity", func(t *testing.T) {
		ctx := identity.WithState(context.Background(), identity.ErrorState("access_denied", "User cancelled"))

		_, ok := identity.FromContext(ctx)
		require.False(t, ok)

		state := identity.StateFromContext(ctx)
		require.Equal(t, "access_denied", state.ErrorCode)
		require.Equal(t, "User cancelled", state.ErrorDescription)
		require.Equal(t, "authentication_error", state.Kind.String())
	})
}
