package server

func (s *Server) initRoutes() {
	// LOGIN
	s.RegisterRouteFunc("GET "+RouteLogin, ChainMiddleware(s.LoginHandler(), s.HTMLMiddleWare()...))

	// Protected routes, guarded per request by the authorization code they carry
	s.RegisterRouteFunc("GET "+RouteHome+"{$}", ChainMiddleware(s.HomeHandler(), s.HTMLMiddleWare(s.RequireAuthentication())...))
	s.RegisterRouteFunc("GET "+RoutePrivate, ChainMiddleware(s.PrivateHandler(), s.HTMLMiddleWare(s.RequireAuthentication())...))

	// Operational routes
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
	s.RegisterRouteHandler("GET "+RouteMetrics, s.metrics.Handler())

	s.RegisterRouteFunc("/", ChainMiddleware(s.NotFoundHandler(), s.HTMLMiddleWare()...))
}
