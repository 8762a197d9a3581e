package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-stateless-auth/internal/config"
	"github.com/jrsteele09/go-stateless-auth/internal/telemetry"
	"github.com/jrsteele09/go-stateless-auth/provider"
	"github.com/jrsteele09/go-stateless-auth/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/acme/autocert"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "stateless-auth",
		Short:         "Web application guarded by stateless OAuth2 authorization-code sign-in",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(loginURLCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	c := config.New()
	setupLogging(c)

	stop := waitForStopSignal()
	defer signal.Stop(stop)

	err := runWithRestarts(func() error { return run(c, stop) }, maxRestarts, restartDelay)
	if err != nil {
		return err
	}
	log.Info().Msg("Server stopped")
	return nil
}

const (
	maxRestarts  = 3
	restartDelay = 1 * time.Second
)

// errFatal marks errors that a restart cannot fix.
var errFatal = errors.New("fatal")

// runWithRestarts reruns runFn after transient failures, at most maxRestarts times.
// Fatal errors end the loop immediately.
func runWithRestarts(runFn func() error, maxRestarts int, delay time.Duration) error {
	for attempt := 0; ; attempt++ {
		err := runFn()
		if err == nil {
			return nil
		}
		if errors.Is(err, errFatal) {
			log.Error().Err(err).Msg("Server cannot start")
			return err
		}
		if attempt >= maxRestarts {
			log.Error().Err(err).Int("restarts", attempt).Msg("Giving up after repeated failures")
			return err
		}
		log.Error().Err(err).Int("attempt", attempt+1).Msg("Error running server, restarting")
		time.Sleep(delay)
	}
}

func run(c config.Config, stop <-chan os.Signal) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	providerCfg, err := config.LoadProviderConfig()
	if err != nil {
		return fmt.Errorf("%w: %w", errFatal, err)
	}
	log.Info().Object("provider", providerCfg).Msg("Provider configuration loaded")

	ctx := context.Background()
	shutdownTracing, err := telemetry.Init(ctx, c, version)
	if err != nil {
		log.Warn().Err(err).Msg("Tracing unavailable")
		shutdownTracing = func(context.Context) error { return nil }
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	deps := server.Deps{}
	if providerCfg.VerifyIDToken {
		parser, err := provider.NewOIDCIDTokenParser(ctx, providerCfg)
		if err != nil {
			return fmt.Errorf("provider.NewOIDCIDTokenParser: %w", err)
		}
		deps.Exchanger = provider.NewClient(providerCfg, provider.WithIDTokenParser(parser))
	}

	handler, err := server.New(c, providerCfg, deps)
	if err != nil {
		return fmt.Errorf("%w: %w", errFatal, err)
	}

	displayAppname(c.GetAppName())
	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() { errs <- listenAndServe(httpServer, c) }()

	select {
	case err := <-errs:
		return err
	case <-stop:
	}
	returnError = shutdown(httpServer)
	return returnError
}

func listenAndServe(server *http.Server, c config.Config) error {
	var err error
	switch {
	case c.GetAutocertDomain() != "":
		manager := &autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			HostPolicy: autocert.HostWhitelist(c.GetAutocertDomain()),
			Cache:      autocert.DirCache(filepath.Join(c.GetDataFolder(), "autocert")),
		}
		server.TLSConfig = &tls.Config{GetCertificate: manager.GetCertificate, MinVersion: tls.VersionTLS12}
		log.Info().Str("addr", server.Addr).Str("domain", c.GetAutocertDomain()).Msg("Server listening (ACME TLS)")
		err = server.ListenAndServeTLS("", "")
	case c.GetTLSCertFile() != "" && c.GetTLSKeyFile() != "":
		server.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		log.Info().Str("addr", server.Addr).Msg("Server listening (TLS)")
		err = server.ListenAndServeTLS(c.GetTLSCertFile(), c.GetTLSKeyFile())
	default:
		log.Info().Str("addr", server.Addr).Msg("Server listening")
		err = server.ListenAndServe()
	}
	if err != nil && err != http.ErrServerClosed {
		// Bind and certificate errors are fatal
		return fmt.Errorf("%w: server.ListenAndServe %w", errFatal, err)
	}
	return nil
}

func waitForStopSignal() chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func setupLogging(c config.EnvConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(c.GetLogLevel()))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	zerolog.DefaultContextLogger = &log.Logger
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
