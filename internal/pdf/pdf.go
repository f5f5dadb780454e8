// Package pdf provides the document capability the merge engine works
// against, and its pdfcpu implementation.
//
// Types:
//   - Access: opens documents for reading and output targets for writing.
//   - Document: a parsed input; page count and extractability.
//   - Target: the growing output; receives pages one at a time and is
//     finalized or aborted exactly once.
//
// The engine never touches pdfcpu directly, so tests can drive it with an
// in-memory Access.
package pdf

import (
	"errors"
)

var (
	// ErrRestricted marks a document whose permissions forbid copying pages,
	// typically one protected by an owner password.
	ErrRestricted = errors.New("pdf: document is restricted by an owner password")
	// ErrNoPages is returned by Finalize when no page was ever copied.
	ErrNoPages = errors.New("pdf: output has no pages")
	// ErrForeignDocument is returned by CopyPage for a Document that this
	// Access did not open, or that was already closed.
	ErrForeignDocument = errors.New("pdf: document not opened by this access")
	ErrClosed          = errors.New("pdf: target already closed")
)

type Access interface {
	// OpenForRead parses the document at path. Errors wrapping ErrRestricted
	// mean the file was readable but may not be copied from.
	OpenForRead(path string) (Document, error)
	// OpenForWrite creates the output file at path.
	OpenForWrite(path string) (Target, error)
}

type Document interface {
	Path() string
	PageCount() int
	// Extractable is false for documents opened without the rights to
	// copy their content.
	Extractable() bool
	Close() error
}

type Target interface {
	// CopyPage appends page pageNr (1-based) of doc, keeping its rotation.
	CopyPage(doc Document, pageNr int) error
	// Pages returns the number of pages appended so far.
	Pages() int
	// Finalize writes and closes the output. On error the output file is
	// removed.
	Finalize() error
	// Abort closes the output and removes it. It is a no-op after Finalize.
	Abort() error
}
