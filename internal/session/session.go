// Package session manages merge workspaces for the HTTP API.
//
// Types:
//   - Session: the ordered input list, the merge engine working on it and
//     the last produced output for one client.
//   - SessionManager: all live sessions, keyed by UUID.
//
// Expected outputs:
// - Session IDs are unique (UUID)
// - At most one merge runs per session
// - Cleanup removes every file a session owns
//
// Used by API handlers to manage user state.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go-pdfmerge/internal/inputlist"
	"go-pdfmerge/internal/merge"
	"go-pdfmerge/internal/pdf"
	"go-pdfmerge/internal/project"
	"go-pdfmerge/internal/utils"

	"github.com/hashicorp/go-hclog"
)

var (
	ErrUnknownFile = errors.New("session: file not in session")
	ErrNotAnOrder  = errors.New("session: order must list every file exactly once")
	ErrBusy        = errors.New("session: merge in progress")
)

type Session struct {
	ID        string
	CreatedAt time.Time
	Inputs    *inputlist.List
	Engine    *merge.Engine

	// edit serializes merge starts with edits that delete or replace
	// inputs, so a starting run never snapshots a file being removed.
	edit sync.Mutex

	Mutex      sync.Mutex
	lastUsed   time.Time
	outputFile string
	logger     hclog.Logger
}

type SessionManager struct {
	Sessions map[string]*Session
	Mutex    sync.RWMutex

	access pdf.Access
	logger hclog.Logger
}

func NewSessionManager(access pdf.Access, logger hclog.Logger) *SessionManager {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &SessionManager{
		Sessions: make(map[string]*Session),
		access:   access,
		logger:   logger,
	}
}

func (sm *SessionManager) CreateSession() *Session {
	sm.Mutex.Lock()
	defer sm.Mutex.Unlock()

	now := time.Now()
	s := &Session{
		ID:        utils.GenerateUUID(),
		CreatedAt: now,
		Inputs:    inputlist.New(),
		lastUsed:  now,
	}
	s.logger = sm.logger.Named("session").With("session", s.ID)
	s.Engine = merge.NewEngine(sm.access, s.Inputs,
		merge.WithLogger(s.logger),
		merge.WithCompletionHandler(s.onMergeDone),
	)
	sm.Sessions[s.ID] = s
	return s
}

func (sm *SessionManager) GetSession(id string) (*Session, bool) {
	sm.Mutex.RLock()
	defer sm.Mutex.RUnlock()
	s, exists := sm.Sessions[id]
	if exists {
		s.touch()
	}
	return s, exists
}

func (sm *SessionManager) DeleteSession(id string) {
	sm.Mutex.Lock()
	defer sm.Mutex.Unlock()
	delete(sm.Sessions, id)
}

// Expire removes sessions unused for longer than ttl and deletes their
// files. Sessions with a merge in flight are kept.
func (sm *SessionManager) Expire(ttl time.Duration) int {
	sm.Mutex.Lock()
	defer sm.Mutex.Unlock()

	n := 0
	for id, s := range sm.Sessions {
		if s.idleFor() <= ttl || s.Engine.Busy() {
			continue
		}
		s.Cleanup()
		delete(sm.Sessions, id)
		n++
	}
	return n
}

func (s *Session) touch() {
	s.Mutex.Lock()
	s.lastUsed = time.Now()
	s.Mutex.Unlock()
}

func (s *Session) idleFor() time.Duration {
	s.Mutex.Lock()
	defer s.Mutex.Unlock()
	return time.Since(s.lastUsed)
}

// AddFile appends an uploaded file to the input list.
func (s *Session) AddFile(path string) bool {
	return s.Inputs.Add(path)
}

// GetFiles returns the input paths in merge order.
func (s *Session) GetFiles() []string {
	return s.Inputs.Snapshot()
}

// FindFile resolves a stored file name to its input path.
func (s *Session) FindFile(name string) (string, bool) {
	for _, p := range s.Inputs.Snapshot() {
		if filepath.Base(p) == name {
			return p, true
		}
	}
	return "", false
}

// RemoveFile drops the named input and deletes its upload. It fails with
// ErrBusy while a merge is running.
func (s *Session) RemoveFile(name string) error {
	s.edit.Lock()
	defer s.edit.Unlock()

	if s.Engine.Busy() {
		return ErrBusy
	}
	path, ok := s.FindFile(name)
	if !ok {
		return ErrUnknownFile
	}
	s.Inputs.Remove(path)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("remove upload", "path", path, "error", err)
	}
	return nil
}

// ImportProject replaces the inputs with the files a project lists. Every
// listed file must already be uploaded to the session; they are matched by
// base name.
func (s *Session) ImportProject(state project.State) error {
	s.edit.Lock()
	defer s.edit.Unlock()

	if s.Engine.Busy() {
		return ErrBusy
	}
	paths := make([]string, 0, len(state.InputPaths))
	for _, name := range state.InputPaths {
		p, ok := s.FindFile(filepath.Base(name))
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownFile, name)
		}
		paths = append(paths, p)
	}
	state.InputPaths = paths
	state.Apply(s.Inputs)
	return nil
}

// SetOrder reorders the inputs. names must be a permutation of the current
// file names.
func (s *Session) SetOrder(names []string) error {
	current := s.Inputs.Snapshot()
	if len(names) != len(current) {
		return ErrNotAnOrder
	}
	byName := make(map[string]string, len(current))
	for _, p := range current {
		byName[filepath.Base(p)] = p
	}
	ordered := make([]string, 0, len(names))
	for _, name := range names {
		p, ok := byName[name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotAnOrder, name)
		}
		delete(byName, name)
		ordered = append(ordered, p)
	}
	s.Inputs.Replace(ordered)
	return nil
}

// Merge starts merging the inputs into a fresh file under outputDir.
func (s *Session) Merge(outputDir string) (*merge.Run, error) {
	s.edit.Lock()
	defer s.edit.Unlock()

	output := filepath.Join(outputDir, fmt.Sprintf("merged-%s.pdf", utils.GenerateUUID()))
	return s.Engine.MergeAsync(output, merge.ProgressFunc(func(p int) {
		s.logger.Debug("merge progress", "percent", p)
	}))
}

func (s *Session) onMergeDone(res merge.Result) {
	if !res.DidProduceOutput {
		return
	}
	s.Mutex.Lock()
	old := s.outputFile
	s.outputFile = res.Output
	s.Mutex.Unlock()

	if old != "" && old != res.Output {
		s.logger.Info("removing old output file", "path", old)
		os.Remove(old)
	}
}

// OutputFile returns the path of the last merged output, or "".
func (s *Session) OutputFile() string {
	s.Mutex.Lock()
	defer s.Mutex.Unlock()
	return s.outputFile
}

// Cleanup deletes every upload and the merged output.
func (s *Session) Cleanup() {
	for _, file := range s.Inputs.Snapshot() {
		os.Remove(file)
	}
	s.Inputs.Clear()

	s.Mutex.Lock()
	defer s.Mutex.Unlock()
	if s.outputFile != "" {
		os.Remove(s.outputFile)
		s.outputFile = ""
	}
}
