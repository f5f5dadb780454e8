// Package main API.
//
// go-pdfmerge provides a REST API for assembling and merging PDF files.
//
//	Schemes: http
//	BasePath: /
//	Version: 1.0.0
//	Host: localhost:8080
//
//	Consumes:
//	- application/json
//	- application/xml
//	- multipart/form-data
//
//	Produces:
//	- application/json
//	- application/xml
//	- application/pdf
//
// swagger:meta
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go-pdfmerge/internal/server"

	"github.com/hashicorp/go-hclog"
)

func gracefulShutdown(apiServer *http.Server, logger hclog.Logger, done chan bool, cleanupFunc func()) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	logger.Info("shutting down gracefully, press Ctrl+C again to force")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	// Cleanup all session files and temp files
	if cleanupFunc != nil {
		logger.Info("cleaning directories")
		cleanupFunc()
	}

	logger.Info("server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

func cleanupDirs(dirs ...string) {
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				_ = os.Remove(filepath.Join(dir, entry.Name()))
			}
		}
	}
}

func main() {
	cfg := server.LoadConfig()
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "pdfmerge",
		Level: hclog.LevelFromString(cfg.LogLevel),
	})

	cleanup := func() { cleanupDirs(cfg.UploadDir, cfg.OutputDir) }

	// Cleanup leftovers from a previous run on startup
	cleanup()

	logger.Info("starting server", "port", cfg.Port, "uploads", cfg.UploadDir, "output", cfg.OutputDir)

	srv := server.NewServer(cfg, logger)

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(srv, logger, done, cleanup)

	err := srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		panic(fmt.Sprintf("http server error: %s", err))
	}

	// Wait for the graceful shutdown to complete
	<-done
	logger.Info("graceful shutdown complete")
}
