package cli

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

	"github.com/spf13/cobra"

	"deaddrop/internal/config"
	"deaddrop/internal/httpapi"
	"deaddrop/internal/relay"
	"deaddrop/internal/store"
	"deaddrop/internal/verify"
)

const shutdownTimeout = 10 * time.Second

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	ConfigPath string
	Database   string
	Listen     string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the relay HTTP server",
		Long: `Start the relay server: open the SQLite database (creating it if it
doesn't exist) and serve the HTTP API until interrupted.

Example:
  deaddrop serve --db ./deaddrop.db --listen :8080
  deaddrop serve --config ./deaddrop.yaml --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides config)")
	cmd.Flags().StringVar(&opts.Listen, "listen", "", "listen address (overrides config)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	// Configure logging based on verbose flag
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Database != "" {
		cfg.DatabasePath = opts.Database
	}
	if opts.Listen != "" {
		cfg.ListenAddr = opts.Listen
	}

	verifier, err := verify.ForMode(cfg.VerifyMode)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid verify mode", err)
	}

	slog.Info("opening database", "path", cfg.DatabasePath)
	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database ready")

	svc := relay.New(st, verifier, relay.Options{
		MaxCiphertextBytes: cfg.MaxCiphertextBytes,
	})
	api := httpapi.New(svc, logger, httpapi.Options{
		MaxRequestBytes: cfg.MaxRequestBytes,
	})

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.ListenAddr, "verify_mode", cfg.VerifyMode)
		errCh <- server.ListenAndServe()
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "Relay listening on %s. Press Ctrl-C to stop.\n", cfg.ListenAddr)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return WrapExitError(ExitFailure, "server error", err)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return WrapExitError(ExitFailure, "shutdown error", err)
		}
	}

	slog.Info("server stopped gracefully")
	return nil
}
