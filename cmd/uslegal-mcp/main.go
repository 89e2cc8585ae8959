// Command uslegal-mcp serves the US legal data tools over MCP.
//
// By default it speaks newline-delimited JSON-RPC on stdio. With
// --transport=http it listens on --addr and serves:
//
//	GET  /health   credential status of each source
//	GET  /metrics  Prometheus metrics
//	POST /rpc      JSON-RPC
//	POST /sse      JSON-RPC answered as a server-sent event
//	     /mcp      MCP streamable HTTP
//
// Logs always go to stderr so stdout stays reserved for the stdio transport.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"

	"github.com/jonwraymond/uslegal/config"
	"github.com/jonwraymond/uslegal/metrics"
	"github.com/jonwraymond/uslegal/provider"
	"github.com/jonwraymond/uslegal/registry"
	"github.com/jonwraymond/uslegal/tools"
	"github.com/jonwraymond/uslegal/uslegal"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "uslegal-mcp:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("uslegal-mcp", pflag.ContinueOnError)
	configFile := flags.String("config", os.Getenv(config.EnvConfigFile), "YAML config file")
	envFile := flags.String("env-file", ".env", "dotenv file, skipped when absent")
	transport := flags.String("transport", "", "stdio or http (overrides config)")
	addr := flags.String("addr", "", "HTTP listen address (overrides config)")
	logLevel := flags.String("log-level", "", "debug, info, warn or error (overrides config)")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(config.LoadOptions{File: *configFile, EnvFile: *envFile})
	if err != nil {
		return err
	}
	if flags.Changed("transport") {
		cfg.Server.Transport = *transport
	}
	if flags.Changed("addr") {
		cfg.Server.Addr = *addr
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := cfg.Log.NewLogger(os.Stderr)

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(promReg)

	api, err := uslegal.New(cfg.ClientOptions(logger, m))
	if err != nil {
		return fmt.Errorf("build sources: %w", err)
	}
	logCredentials(logger, api.Providers())

	reg := registry.New(registry.Config{
		ServerInfo: registry.ServerInfo{Name: cfg.Server.Name, Version: cfg.Server.Version},
		Logger:     logger,
		Metrics:    m,
	})
	if err := tools.Register(reg, api); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.Server.Transport {
	case config.TransportHTTP:
		router := NewRouter(RouterDeps{Registry: reg, Providers: api.Providers(), Gatherer: promReg, Logger: logger})
		return serveHTTP(ctx, cfg.Server.Addr, router, logger)
	default:
		logger.Info("US legal MCP server running on stdio", "tools", reg.Stats().TotalTools)
		return registry.ServeStdio(ctx, reg)
	}
}

func logCredentials(logger *slog.Logger, store provider.Store) {
	list, err := store.ListProviders()
	if err != nil {
		return
	}
	for _, p := range list {
		switch p.Status() {
		case provider.StatusMissing:
			logger.Warn("source disabled until a credential is set", "source", p.ID, "env", p.CredentialEnv)
		case provider.StatusAnonymous:
			if p.CredentialEnv != "" {
				logger.Info("source running without a credential", "source", p.ID, "env", p.CredentialEnv)
				continue
			}
			logger.Info("source ready", "source", p.ID)
		default:
			logger.Info("source ready", "source", p.ID, "credential", "configured")
		}
	}
}

func serveHTTP(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("US legal MCP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
