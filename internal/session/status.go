package session

import (
	"path/filepath"

	"go-pdfmerge/internal/merge"
)

type FailureInfo struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
	Error  string `json:"error"`
}

// Status is the JSON view of a session.
type Status struct {
	ID       string        `json:"sessionId"`
	Files    []string      `json:"files"`
	CanMerge bool          `json:"canMerge"`
	RunID    string        `json:"runId,omitempty"`
	State    string        `json:"state"`
	Progress int           `json:"progress"`
	Pages    int           `json:"pages,omitempty"`
	Failures []FailureInfo `json:"failures"`
	Error    string        `json:"error,omitempty"`
	Output   string        `json:"output,omitempty"`
}

func (s *Session) Status() Status {
	files := s.Inputs.Snapshot()
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = filepath.Base(f)
	}

	st := Status{
		ID:       s.ID,
		Files:    names,
		CanMerge: len(files) > 1 && !s.Engine.Busy(),
		State:    merge.Idle.String(),
		Failures: []FailureInfo{},
	}
	if out := s.OutputFile(); out != "" {
		st.Output = filepath.Base(out)
	}

	run := s.Engine.Current()
	if run == nil {
		run = s.Engine.Last()
	}
	if run == nil {
		return st
	}

	st.RunID = run.ID()
	st.State = run.State().String()
	if p := run.Progress(); p > 0 {
		st.Progress = p
	}
	for _, f := range run.Failures() {
		st.Failures = append(st.Failures, FailureInfo{
			File:   filepath.Base(f.Path),
			Reason: string(f.Reason),
			Error:  f.Err.Error(),
		})
	}
	if res, done := run.Result(); done {
		st.Pages = res.Pages
		if res.Err != nil {
			st.Error = res.Err.Error()
		}
	}
	return st
}
