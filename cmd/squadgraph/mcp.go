package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/squadhub/squadgraph/internal/metrics"
	mcpserver "github.com/squadhub/squadgraph/pkg/mcp"
)

// newMCPCmd creates the 'mcp' subcommand, which serves the diagram and lint
// tools over stdio.
func newMCPCmd(a *app) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve squadgraph.diagram and squadgraph.lint as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("metrics-addr") {
				metricsAddr = a.cfg.MetricsAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			m := metrics.New(nil)
			if metricsAddr != "" {
				bound, shutdown, err := serveMetrics(metricsAddr, m, a.logger)
				if err != nil {
					return err
				}
				defer shutdown()
				a.logger.Info("metrics endpoint listening", slog.String("addr", bound.String()))
			}

			s, err := mcpserver.NewServer(mcpserver.ServerDeps{
				Metrics:     m,
				Logger:      a.logger,
				CacheSize:   a.cfg.CacheSize,
				ASCIIBinDir: a.cfg.ASCIIBinDir,
				Version:     version,
			})
			if err != nil {
				return err
			}

			a.logger.Info("mcp server starting", slog.String("version", version))
			return s.Serve(ctx)
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9464)")
	return cmd
}

// serveMetrics exposes m at /metrics on listenAddr. The returned func stops
// the listener.
func serveMetrics(listenAddr string, m *metrics.Metrics, logger *slog.Logger) (net.Addr, func(), error) {
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics endpoint stopped", slog.String("error", err.Error()))
		}
	}()

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
	return ln.Addr(), shutdown, nil
}
