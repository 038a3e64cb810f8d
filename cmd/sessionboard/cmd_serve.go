package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/sessionboard/internal/dashboard"
	"github.com/user/sessionboard/internal/gate"
	"github.com/user/sessionboard/internal/identity"
	"github.com/user/sessionboard/internal/scheduler"
	"github.com/user/sessionboard/internal/state"
	"github.com/user/sessionboard/internal/types"
	"github.com/user/sessionboard/internal/upstream"
	"github.com/user/sessionboard/internal/web"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the sessionboard daemon",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	// Auth session store
	var store types.AuthSessionStore
	closeStore := func() {}
	switch cfg.SessionStore {
	case "file":
		store = state.NewFileStore(cfg.DataDir)
	case "sqlite":
		sqlStore, err := state.OpenSQLiteStore(filepath.Join(cfg.DataDir, "sessions.db"))
		if err != nil {
			return fmt.Errorf("open session store: %w", err)
		}
		store = sqlStore
		closeStore = func() { sqlStore.Close() }
	case "memory":
		store = state.NewMemoryStore()
	default:
		return fmt.Errorf("unknown session store %q (want file, sqlite, or memory)", cfg.SessionStore)
	}
	defer closeStore()

	// Clients
	idp := identity.New(cfg.IdentityBaseURL, cfg.IdentitySecret, cfg.OrganizationID, cfg.UpstreamTimeout)
	api := upstream.New(cfg.APIBaseURL, cfg.UpstreamTimeout)

	// Core services
	dash := dashboard.NewService(api, idp)
	g := gate.New(store, idp, cfg.SessionSecret, cfg.SessionTTL)
	srv := web.NewServer(g, dash)

	// Session pruner
	pruner := scheduler.New(store, cfg.PruneSchedule)
	if err := pruner.Start(); err != nil {
		return fmt.Errorf("start session pruner: %w", err)
	}
	defer pruner.Stop()

	httpServer := &http.Server{
		Addr:    cfg.Listen,
		Handler: srv,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		slog.Info("sessionboard started",
			"listen", cfg.Listen,
			"api_base_url", cfg.APIBaseURL,
			"session_store", cfg.SessionStore,
			"log_level", cfg.LogLevel,
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server error", "error", err)
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("shutting down", "signal", sig)
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
