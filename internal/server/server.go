// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package server wires configuration, discovery and the HTTP API together.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"codeberg.org/oliverandrich/asset-registry/internal/catalog"
	"codeberg.org/oliverandrich/asset-registry/internal/config"
	"codeberg.org/oliverandrich/asset-registry/internal/database"
	"codeberg.org/oliverandrich/asset-registry/internal/handlers"
	"codeberg.org/oliverandrich/asset-registry/internal/locator"
	"codeberg.org/oliverandrich/asset-registry/internal/registry"
	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	// Database
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	cat := catalog.New(db)

	// Locator for installed libraries
	loc, err := locator.New("stream", map[string]string{
		"scheme": cfg.Libraries.Scheme,
		"root":   cfg.Libraries.Root,
		"dir":    cfg.Libraries.Dir,
	})
	if err != nil {
		return fmt.Errorf("failed to create locator: %w", err)
	}

	// Registry and initial discovery
	reg := registry.New(cfg.Libraries.DefinitionsDir, loc, cat)
	if err := reg.Discover(ctx); err != nil {
		return fmt.Errorf("library discovery failed: %w", err)
	}

	// Watch for installs and definition changes
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	if cfg.Libraries.Watch {
		startWatcher(watchCtx, cfg, reg)
	}

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	setupMiddleware(e, cfg)

	// Routes
	setupRoutes(e, cfg, cat, reg)

	// Start server
	return startWithGracefulShutdown(e, cfg)
}

// startWatcher wires filesystem watching to rediscovery. A watch failure is
// not fatal: the registry still works, it just needs a restart to pick up
// changes.
func startWatcher(ctx context.Context, cfg *config.Config, reg *registry.Registry) {
	librariesDir := filepath.Join(cfg.Libraries.Root, cfg.Libraries.Dir)
	if err := os.MkdirAll(librariesDir, 0o750); err != nil {
		slog.Warn("cannot create libraries dir, not watching", "dir", librariesDir, "error", err)
		return
	}
	w, err := registry.NewWatcher(reg, cfg.Libraries.DefinitionsDir, librariesDir)
	if err != nil {
		slog.Warn("library watching disabled", "error", err)
		return
	}
	slog.Info("watching for library changes",
		"definitions", cfg.Libraries.DefinitionsDir,
		"libraries", librariesDir,
	)
	go w.Run(ctx)
}

func setupRoutes(e *echo.Echo, cfg *config.Config, cat *catalog.Catalog, reg *registry.Registry) {
	h := handlers.New(cat, reg)

	// Locally installed library files
	e.Static("/"+cfg.Libraries.Dir, filepath.Join(cfg.Libraries.Root, cfg.Libraries.Dir))

	// Routes
	e.GET("/health", h.Health)
	e.GET("/api/libraries", h.ListLibraries)
	e.GET("/api/libraries/:name", h.GetLibrary)
}

func startWithGracefulShutdown(e *echo.Echo, cfg *config.Config) error {
	// Setup TLS
	tlsResult, err := SetupTLS(cfg)
	if err != nil {
		return fmt.Errorf("TLS setup failed: %w", err)
	}

	// Channel for server errors
	errChan := make(chan error, 2)

	// HTTP redirect server for ACME mode
	var httpServer *http.Server

	switch tlsResult.Mode {
	case TLSModeOff:
		// Plain HTTP on configured port
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		go func() {
			slog.Info("Server running", "url", cfg.Server.BaseURL)
			if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

	case TLSModeACME:
		// HTTPS on :443
		go func() {
			slog.Info("Server running", "url", cfg.Server.BaseURL)
			if err := startTLSServer(e, ":443", tlsResult.TLSConfig); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

		// HTTP redirect server on :80
		httpServer = &http.Server{
			Addr:              ":80",
			Handler:           tlsResult.HTTPHandler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			slog.Info("HTTP→HTTPS redirect active", "addr", ":80")
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

	case TLSModeSelfSigned, TLSModeManual:
		// HTTPS on configured port
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		go func() {
			slog.Info("Server running", "url", cfg.Server.BaseURL)
			if err := startTLSServer(e, addr, tlsResult.TLSConfig); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()
	}

	// Wait for interrupt signal or error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown main server
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown main server", "error", err)
	}

	// Shutdown HTTP redirect server if running
	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown HTTP redirect server", "error", err)
		}
	}

	slog.Info("server stopped")
	return nil
}

// startTLSServer starts the Echo server with a custom TLS configuration.
func startTLSServer(e *echo.Echo, addr string, tlsConfig *tls.Config) error {
	lc := &net.ListenConfig{}
	ln, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return err
	}
	e.TLSListener = tls.NewListener(ln, tlsConfig)
	e.TLSServer.TLSConfig = tlsConfig
	return e.Server.Serve(e.TLSListener)
}
