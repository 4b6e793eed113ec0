package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kittclouds/gowell/internal/config"
	"github.com/kittclouds/gowell/internal/logging"
	"github.com/kittclouds/gowell/internal/store"
	"github.com/kittclouds/gowell/pkg/gateway"
	"github.com/kittclouds/gowell/pkg/wellness"
)

var (
	dbPath  string
	envPath string
)

var rootCmd = &cobra.Command{
	Use:   "gowell",
	Short: "gowell tracks mood check-ins from your terminal",
	Long: "gowell is an offline-first mood tracking engine: check-ins are " +
		"captured locally first and reconciled with the remote backend when " +
		"the network allows.",
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&envPath, "env", ".", "Directory containing the .env config file")
}

// newEngine wires config, logging, store, gateway, and the wellness
// service. The returned cleanup closes the store and flushes logs.
func newEngine() (*wellness.Service, *zap.SugaredLogger, func(), error) {
	cfg, err := config.Load(envPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	log := logging.New(cfg.LogFile)

	st, err := store.NewSQLiteStoreWithDSN(cfg.DBPath, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open store: %w", err)
	}

	gw := gateway.NewHTTPGateway(cfg.RemoteBaseURL, cfg.RemoteAPIKey)

	svc, err := wellness.New(gw, st, log, wellness.Config{
		UserID:      cfg.UserID,
		MaxAttempts: cfg.SyncMaxAttempts,
		BackoffBase: cfg.BackoffBase(),
	})
	if err != nil {
		st.Close()
		return nil, nil, nil, fmt.Errorf("wire service: %w", err)
	}

	cleanup := func() {
		st.Close()
		_ = log.Sync()
	}
	return svc, log, cleanup, nil
}
