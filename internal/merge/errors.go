package merge

import (
	"errors"
	"fmt"
)

var (
	// ErrOpenTarget: the output could not be created. The run fails and no
	// output file is left behind.
	ErrOpenTarget = errors.New("merge: cannot open output for writing")
	// ErrFinalize: the output could not be flushed or closed after all
	// inputs were processed. Whatever was written is removed.
	ErrFinalize = errors.New("merge: cannot finalize output")
	// ErrCopyPage: a page of an opened input could not be appended. The
	// shared output is no longer trustworthy, so the run fails.
	ErrCopyPage = errors.New("merge: cannot copy page")

	ErrCannotMerge     = errors.New("merge: need an output path and at least two inputs")
	ErrTargetIsInput   = errors.New("merge: output path is one of the inputs")
	ErrMergeInProgress = errors.New("merge: a merge is already running")
)

// Reason classifies a per-input failure.
type Reason string

const (
	// ReasonOpen: the input is missing, unreadable or not a valid PDF.
	ReasonOpen Reason = "open"
	// ReasonPermission: the input opened but its permissions forbid
	// copying pages.
	ReasonPermission Reason = "permission"
)

// Failure records one input that contributed no pages. It never aborts a
// run.
type Failure struct {
	Path   string
	Reason Reason
	Err    error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %s: %v", f.Path, f.Reason, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}
