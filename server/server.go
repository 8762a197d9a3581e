package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-stateless-auth/auth"
	"github.com/jrsteele09/go-stateless-auth/internal/config"
	"github.com/jrsteele09/go-stateless-auth/internal/metrics"
	"github.com/jrsteele09/go-stateless-auth/provider"
	"github.com/rs/zerolog/log"
)

// Deps are the collaborators a Server needs beyond configuration.
// Zero values are replaced with production defaults.
type Deps struct {
	// Exchanger redeems authorization codes; defaults to a provider.Client
	Exchanger auth.Exchanger
	Metrics   *metrics.Metrics
}

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	provider config.ProviderConfig
	guard    *auth.Guard
	metrics  *metrics.Metrics
}

func New(cfg config.Config, providerCfg config.ProviderConfig, deps Deps) (*Server, error) {
	if err := providerCfg.Validate(); err != nil {
		return nil, fmt.Errorf("[Server New] invalid provider configuration: %w", err)
	}
	if deps.Exchanger == nil {
		deps.Exchanger = provider.NewClient(providerCfg)
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}

	resolver := auth.NewStatelessResolver(deps.Exchanger, deps.Metrics)
	guard := auth.NewGuard(resolver, auth.GuardOptions{
		LoginPath:           RouteLogin,
		ErrorHint:           cfg.GetErrorHint(),
		RequireHTTPS:        cfg.GetRequireHTTPS(),
		TrustForwardedProto: cfg.GetTrustForwardedProto(),
		Recorder:            deps.Metrics,
	})

	s := &Server{
		env:      cfg.GetEnv(),
		mux:      http.NewServeMux(),
		config:   cfg,
		provider: providerCfg,
		guard:    guard,
		metrics:  deps.Metrics,
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// Routes lists the registered patterns in registration order.
func (s *Server) Routes() []string {
	out := make([]string, len(s.routes))
	copy(out, s.routes)
	return out
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Info().Msgf("[%-19s] %s", displayMethod, path)
}
