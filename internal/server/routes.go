// Package server sets up the HTTP server and registers API routes for go-pdfmerge.
//
// RegisterRoutes returns an http.Handler with all API endpoints for session and PDF management.
//
// Expected outputs:
// - All API endpoints are available under /api/sessions
// - CORS and logging middleware are enabled
package server

import (
	"net"
	"net/http"

	_ "go-pdfmerge/docs"
	"go-pdfmerge/internal/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Only allow requests from localhost to /swagger/*
func localhostOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, _ := net.SplitHostPort(r.RemoteAddr)
		if host != "127.0.0.1" && host != "::1" && host != "localhost" {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.With(localhostOnly).Get("/swagger/*", httpSwagger.WrapHandler)
	h := handlers.NewAPIHandler(s.SessionManager, s.UploadDir, s.OutputDir, s.Logger)
	r.Route("/api/sessions", func(api chi.Router) {
		api.Post("/", h.CreateSession)
		api.Get("/{sessionID}", h.GetStatus)
		api.Post("/{sessionID}/files", h.UploadFile)
		api.Delete("/{sessionID}/files/{filename}", h.RemoveFile)
		api.Get("/{sessionID}/files/{filename}", h.DownloadFile)
		api.Put("/{sessionID}/order", h.UpdateOrder)
		api.Post("/{sessionID}/actions/move", h.MoveFile)
		api.Post("/{sessionID}/actions/merge", h.MergeFiles)
		api.Get("/{sessionID}/project", h.ExportProject)
		api.Put("/{sessionID}/project", h.ImportProject)
	})

	return r
}
