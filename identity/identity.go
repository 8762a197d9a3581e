package identity

import "strings"

// Identity is the authenticated principal produced by a successful token exchange.
// It lives for a single request and is never cached.
type Identity struct {
	Username string
	Claims   []string
}

// New copies claims so the returned Identity does not share backing storage with the caller.
func New(username string, claims []string) Identity {
	c := make([]string, len(claims))
	copy(c, claims)
	return Identity{Username: username, Claims: c}
}

// IsAuthenticated is false for a zero or whitespace-only username.
func (i Identity) IsAuthenticated() bool {
	return strings.TrimSpace(i.Username) != ""
}

// StateKind enumerates the per-request authentication outcomes.
type StateKind int

const (
	Unauthenticated StateKind = iota
	AuthenticationError
	Authenticated
)

func (k StateKind) String() string {
	switch k {
	case Unauthenticated:
		return "unauthenticated"
	case AuthenticationError:
		return "authentication_error"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// State is the authentication state derived fresh for every request. Exactly one kind holds.
type State struct {
	Kind StateKind

	// Set when Kind == AuthenticationError
	ErrorCode        string
	ErrorDescription string

	// Set when Kind == Authenticated
	Identity Identity
}

func UnauthenticatedState() State {
	return State{Kind: Unauthenticated}
}

func ErrorState(code, description string) State {
	return State{Kind: AuthenticationError, ErrorCode: code, ErrorDescription: description}
}

func AuthenticatedState(id Identity) State {
	return State{Kind: Authenticated, Identity: id}
}
