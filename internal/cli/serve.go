package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/usestring/droitfr-mcp/pkg/mcpsrv"
)

var serveFlags struct {
	LogLevel    string
	LogFile     string
	MetricsAddr string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdio",
	RunE:  runServe,
}

func init() {
	for _, cmd := range []*cobra.Command{rootCmd, serveCmd} {
		cmd.Flags().StringVar(&serveFlags.LogLevel, "log-level", "", "log level: debug, info, warn, error (default LOG_LEVEL)")
		cmd.Flags().StringVar(&serveFlags.LogFile, "log-file", "", "log file path (default LOG_FILE, stderr when empty)")
		cmd.Flags().StringVar(&serveFlags.MetricsAddr, "metrics-addr", "", "address for the Prometheus /metrics endpoint (default METRICS_ADDR, disabled when empty)")
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := loadConfig()
	if serveFlags.MetricsAddr != "" {
		cfg.MetricsAddr = serveFlags.MetricsAddr
	}

	server, err := mcpsrv.NewServer(
		mcpsrv.WithConfig(cfg),
		mcpsrv.WithLogLevel(serveFlags.LogLevel),
		mcpsrv.WithLogFile(serveFlags.LogFile),
	)
	if err != nil {
		return err
	}
	defer server.Close()

	if cfg.MetricsAddr != "" {
		stop := serveMetrics(cfg.MetricsAddr)
		defer stop()
	}

	slog.Info("starting MCP server on stdio")
	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("server error", "error", err)
		return err
	}

	slog.Info("server stopped")
	return nil
}

// serveMetrics exposes the default Prometheus registry on addr and returns
// a function that shuts the listener down.
func serveMetrics(addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("serving metrics", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
