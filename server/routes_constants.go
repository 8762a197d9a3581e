package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Unauthenticated entry point that redirects to the identity provider
	RouteLogin = "/login"

	// Protected routes
	RouteHome    = "/"
	RoutePrivate = "/Private"

	// Operational routes
	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"
)
