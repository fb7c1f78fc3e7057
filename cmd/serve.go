package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zhubert/parley/internal/config"
	"github.com/zhubert/parley/internal/devserver"
	"github.com/zhubert/parley/internal/logger"
)

var (
	serveAddr     string
	serveDB       string
	serveSecret   string
	serveTokenTTL time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local chat backend",
	Long: `Runs a local backend that speaks the same API as the hosted service,
backed by a SQLite database. Replies come from a built-in persona responder.

The token secret is read from --secret or the ` + config.EnvSecret + ` environment variable.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8000", "Listen address")
	serveCmd.Flags().StringVar(&serveDB, "db", "parley.db", "SQLite database path (\":memory:\" for a throwaway database)")
	serveCmd.Flags().StringVar(&serveSecret, "secret", "", "HMAC secret for access tokens")
	serveCmd.Flags().DurationVar(&serveTokenTTL, "token-ttl", devserver.DefaultTokenTTL, "Access token lifetime")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	path := logFile
	if path == "" {
		path = logger.ServeLogPath(serveAddr)
	}
	if err := logger.Init(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer logger.Close()

	if err := config.LoadEnv(); err != nil {
		return fmt.Errorf("error loading .env: %w", err)
	}
	secret := serveSecret
	if secret == "" {
		secret = config.GetEnv(config.EnvSecret, "")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := devserver.OpenStore(ctx, serveDB)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}
	defer store.Close()

	srv := devserver.New(store, devserver.Options{Secret: secret, TokenTTL: serveTokenTTL})
	fmt.Fprintf(cmd.OutOrStdout(), "Serving on %s (database %s, logs in %s)\n", serveAddr, serveDB, path)
	if err := srv.ListenAndServe(ctx, serveAddr); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
