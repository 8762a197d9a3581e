package identity

import "context"

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyState stores the request's authentication State
	ContextKeyState ContextKey = "auth_state"
)

// WithState attaches the request's authentication state to ctx.
func WithState(ctx context.Context, state State) context.Context {
	return context.WithValue(ctx, ContextKeyState, state)
}

// StateFromContext returns Unauthenticated when nothing was attached.
func StateFromContext(ctx context.Context) State {
	if s, ok := ctx.Value(ContextKeyState).(State); ok {
		return s
	}
	return UnauthenticatedState()
}

// WithIdentity is shorthand for attaching an Authenticated state.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return WithState(ctx, AuthenticatedState(id))
}

// FromContext returns the authenticated identity, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	s := StateFromContext(ctx)
	if s.Kind != Authenticated {
		return Identity{}, false
	}
	return s.Identity, true
}
