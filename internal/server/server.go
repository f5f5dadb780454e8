// Package server provides the HTTP server setup for go-pdfmerge.
//
// NewServer creates and configures the HTTP server, session manager, and file directories.
//
// Expected outputs:
// - Server listens on the configured port (default 8080)
// - Idle sessions and their files are cleaned up periodically
//
// Usage:
//
//	cfg := server.LoadConfig()
//	srv := server.NewServer(cfg, logger)
//	srv.ListenAndServe()
//
// See internal/server/routes.go for route registration.
package server

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"go-pdfmerge/internal/pdf"
	"go-pdfmerge/internal/session"

	"github.com/hashicorp/go-hclog"
)

type Server struct {
	port           int
	SessionManager *session.SessionManager
	UploadDir      string
	OutputDir      string
	Logger         hclog.Logger
}

func NewServer(cfg Config, logger hclog.Logger) *http.Server {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	os.MkdirAll(cfg.UploadDir, 0755)
	os.MkdirAll(cfg.OutputDir, 0755)

	access := pdf.NewAccess(pdf.Options{OwnerPassword: cfg.OwnerPassword})
	srv := &Server{
		port:           cfg.Port,
		SessionManager: session.NewSessionManager(access, logger),
		UploadDir:      cfg.UploadDir,
		OutputDir:      cfg.OutputDir,
		Logger:         logger,
	}

	// Cleanup goroutine for idle sessions/files
	go func() {
		ticker := time.NewTicker(max(cfg.SessionTTL/3, time.Second))
		defer ticker.Stop()
		for range ticker.C {
			if n := srv.SessionManager.Expire(cfg.SessionTTL); n > 0 {
				logger.Info("expired sessions", "count", n)
			}
		}
	}()

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", srv.port),
		Handler:      srv.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
