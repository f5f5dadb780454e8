// Package handlers provides HTTP handlers for the PDF merging API.
//
// This package contains the endpoints for session management, file upload,
// ordering, merging, project import/export and download.
//
// Example usage:
//
//	h := handlers.NewAPIHandler(sessionManager, uploadDir, outputDir, logger)
//	r := chi.NewRouter()
//	r.Post("/api/sessions/", h.CreateSession)
//
// All handlers are designed to be used with the chi router.
package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"go-pdfmerge/internal/merge"
	"go-pdfmerge/internal/project"
	"go-pdfmerge/internal/session"
	"go-pdfmerge/internal/utils"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-hclog"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxUploadSize = 25 * 1024 * 1024

type APIHandler struct {
	SessionManager *session.SessionManager
	UploadDir      string
	OutputDir      string
	Logger         hclog.Logger
}

func NewAPIHandler(sm *session.SessionManager, uploadDir, outputDir string, logger hclog.Logger) *APIHandler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &APIHandler{SessionManager: sm, UploadDir: uploadDir, OutputDir: outputDir, Logger: logger}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (h *APIHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, exists := h.SessionManager.GetSession(chi.URLParam(r, "sessionID"))
	if !exists {
		http.Error(w, "Session not found", http.StatusNotFound)
	}
	return s, exists
}

// CreateSession godoc
// @Summary      Create a new session
// @Description  Creates a new PDF merge session and returns a session ID
// @Tags         sessions
// @Produce      json
// @Success      200  {object}  map[string]string  "{ sessionId: string }"
// @Router       /api/sessions/ [post]
func (h *APIHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.SessionManager.CreateSession()
	h.Logger.Info("session created", "session", s.ID)
	writeJSON(w, http.StatusOK, map[string]string{"sessionId": s.ID})
}

// GetStatus godoc
// @Summary      Session status
// @Description  Returns the input order, merge state, progress and per-file failures
// @Tags         sessions
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200  {object}  session.Status
// @Failure      404  {string}  string  "Session not found"
// @Router       /api/sessions/{sessionID} [get]
func (h *APIHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Status())
}

// UploadFile godoc
// @Summary      Upload a PDF file
// @Description  Uploads a PDF file to the session and appends it to the merge order
// @Tags         files
// @Accept       multipart/form-data
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Param        pdf        formData  file    true  "PDF file"
// @Success      200  {object}  map[string]interface{}  "{ filename: string, size: int }"
// @Failure      400  {string}  string  "Bad request"
// @Failure      404  {string}  string  "Session not found"
// @Router       /api/sessions/{sessionID}/files [post]
func (h *APIHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "File too large", http.StatusBadRequest)
		return
	}

	file, handler, err := r.FormFile("pdf")
	if err != nil {
		http.Error(w, "Error retrieving file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !utils.IsPDFName(handler.Filename) {
		http.Error(w, "Only PDF files are allowed", http.StatusBadRequest)
		return
	}

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		http.Error(w, "Failed to read file", http.StatusBadRequest)
		return
	}
	if !mtype.Is("application/pdf") {
		http.Error(w, "Uploaded file is not a valid PDF", http.StatusBadRequest)
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		http.Error(w, "Failed to process file", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("%s-%s", utils.GenerateUUID(), utils.SanitizeFilename(handler.Filename))
	path := filepath.Join(h.UploadDir, filename)
	dst, err := os.Create(path)
	if err != nil {
		http.Error(w, "Failed to create file", http.StatusInternalServerError)
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		http.Error(w, "Failed to save file", http.StatusInternalServerError)
		return
	}

	s.AddFile(path)
	writeJSON(w, http.StatusOK, map[string]any{"filename": filename, "size": handler.Size})
}

// RemoveFile godoc
// @Summary      Remove an input file
// @Description  Removes an uploaded file from the merge order and deletes it
// @Tags         files
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Param        filename   path      string  true  "Stored file name"
// @Success      200  {object}  map[string]bool  "{ success: true }"
// @Failure      404  {string}  string  "Session or file not found"
// @Failure      409  {string}  string  "Merge in progress"
// @Router       /api/sessions/{sessionID}/files/{filename} [delete]
func (h *APIHandler) RemoveFile(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.RemoveFile(chi.URLParam(r, "filename")); err != nil {
		if errors.Is(err, session.ErrBusy) {
			http.Error(w, "Merge in progress", http.StatusConflict)
			return
		}
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// UpdateOrder godoc
// @Summary      Set file order
// @Description  Sets the order of uploaded files for merging
// @Tags         files
// @Accept       json
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Param        files      body      object  true  "{ files: [string] }"
// @Success      200  {object}  map[string]bool  "{ success: true }"
// @Failure      400  {string}  string  "Bad request"
// @Failure      404  {string}  string  "Session not found"
// @Router       /api/sessions/{sessionID}/order [put]
func (h *APIHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var fileOrder struct {
		Files []string `json:"files"`
	}
	if err := json.NewDecoder(r.Body).Decode(&fileOrder); err != nil {
		http.Error(w, "Invalid file order data", http.StatusBadRequest)
		return
	}
	if err := s.SetOrder(fileOrder.Files); err != nil {
		http.Error(w, "Invalid file in order list", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// MoveFile godoc
// @Summary      Move one file
// @Description  Moves the file at index "from" so that it ends up at index "to"
// @Tags         files
// @Accept       json
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Param        move       body      object  true  "{ from: int, to: int }"
// @Success      200  {object}  map[string][]string  "{ files: [string] }"
// @Failure      400  {string}  string  "Index out of range"
// @Failure      404  {string}  string  "Session not found"
// @Router       /api/sessions/{sessionID}/actions/move [post]
func (h *APIHandler) MoveFile(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var move struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&move); err != nil {
		http.Error(w, "Invalid move data", http.StatusBadRequest)
		return
	}
	if !s.Inputs.Move(move.From, move.To) {
		http.Error(w, "Index out of range", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"files": s.Status().Files})
}

// MergeFiles godoc
// @Summary      Merge uploaded files
// @Description  Starts merging the session's files in order; poll the session for progress
// @Tags         files
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      202  {object}  map[string]string  "{ runId: string, statusUrl: string }"
// @Failure      400  {string}  string  "Need at least two files to merge"
// @Failure      404  {string}  string  "Session not found"
// @Failure      409  {string}  string  "Merge already in progress"
// @Router       /api/sessions/{sessionID}/actions/merge [post]
func (h *APIHandler) MergeFiles(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	run, err := s.Merge(h.OutputDir)
	switch {
	case errors.Is(err, merge.ErrMergeInProgress):
		http.Error(w, "Merge already in progress", http.StatusConflict)
		return
	case errors.Is(err, merge.ErrCannotMerge):
		http.Error(w, "Need at least two files to merge", http.StatusBadRequest)
		return
	case err != nil:
		h.Logger.Error("starting merge", "session", s.ID, "error", err)
		http.Error(w, "Failed to start merge", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"runId":     run.ID(),
		"statusUrl": fmt.Sprintf("/api/sessions/%s", s.ID),
	})
}

// ExportProject godoc
// @Summary      Export the project
// @Description  Returns the output name and ordered inputs as a project file
// @Tags         projects
// @Produce      xml
// @Produce      json
// @Param        sessionID  path      string  true   "Session ID"
// @Param        format     query     string  false  "xml (default), yaml or json"
// @Success      200  {object}  project.State
// @Failure      404  {string}  string  "Session not found"
// @Router       /api/sessions/{sessionID}/project [get]
func (h *APIHandler) ExportProject(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	st := s.Status()
	state := project.State{OutputPath: st.Output, InputPaths: st.Files}
	format := project.ParseFormat(r.URL.Query().Get("format"))

	w.Header().Set("Content-Type", format.ContentType())
	if err := project.Encode(w, state, format); err != nil {
		h.Logger.Error("exporting project", "session", s.ID, "error", err)
	}
}

// ImportProject godoc
// @Summary      Import a project
// @Description  Replaces the merge order with the inputs listed in a project file; every input must be a file uploaded to this session
// @Tags         projects
// @Accept       xml
// @Accept       json
// @Produce      json
// @Param        sessionID  path      string  true   "Session ID"
// @Param        format     query     string  false  "xml (default), yaml or json"
// @Success      200  {object}  map[string][]string  "{ files: [string] }"
// @Failure      400  {string}  string  "Invalid project"
// @Failure      404  {string}  string  "Session not found"
// @Failure      409  {string}  string  "Merge in progress"
// @Router       /api/sessions/{sessionID}/project [put]
func (h *APIHandler) ImportProject(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	state, err := project.Decode(http.MaxBytesReader(w, r.Body, 1<<20), project.ParseFormat(r.URL.Query().Get("format")))
	if err != nil {
		http.Error(w, "Invalid project", http.StatusBadRequest)
		return
	}

	if err := s.ImportProject(state); err != nil {
		if errors.Is(err, session.ErrBusy) {
			http.Error(w, "Merge in progress", http.StatusConflict)
			return
		}
		http.Error(w, fmt.Sprintf("Unknown file in project: %v", err), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{"files": s.Status().Files})
}

// DownloadFile godoc
// @Summary      Download merged PDF
// @Description  Downloads the merged PDF file for the session
// @Tags         files
// @Produce      application/pdf
// @Param        sessionID  path      string  true  "Session ID"
// @Param        filename   path      string  true  "Merged PDF filename"
// @Success      200  {file}  file  "PDF file download"
// @Failure      403  {string}  string  "Unauthorized access to file"
// @Failure      404  {string}  string  "Session or file not found"
// @Router       /api/sessions/{sessionID}/files/{filename} [get]
func (h *APIHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	path := s.OutputFile()
	if path == "" || filepath.Base(path) != chi.URLParam(r, "filename") {
		http.Error(w, "Unauthorized access to file", http.StatusForbidden)
		return
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Disposition", "attachment; filename=\"merged.pdf\"")
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, path)
}
