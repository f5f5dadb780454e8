// Package merge orchestrates combining an ordered list of PDF documents into
// one output document.
//
// An Engine runs at most one merge at a time. A run works on a snapshot of
// the input list taken when it starts, copies every page of every readable
// input in order, tolerates inputs that cannot be opened, and releases all
// handles on every exit path before the engine accepts the next run.
//
// Usage:
//
//	engine := merge.NewEngine(pdf.NewAccess(pdf.Options{}), list)
//	run, err := engine.MergeAsync("out.pdf", merge.ProgressFunc(func(p int) { ... }))
//	res := run.Wait()
package merge

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"go-pdfmerge/internal/inputlist"
	"go-pdfmerge/internal/pdf"
	"go-pdfmerge/internal/utils"

	"github.com/hashicorp/go-hclog"
)

// ProgressSink receives the completion percentage of a run, in [0,100] and
// never decreasing.
type ProgressSink interface {
	Report(percent int)
}

// ProgressFunc adapts a plain function to ProgressSink.
type ProgressFunc func(percent int)

func (f ProgressFunc) Report(percent int) { f(percent) }

// Dispatcher delivers callbacks on the context the caller expects, such as
// a UI event loop. The default runs them inline on the run goroutine.
type Dispatcher func(fn func())

// Inline is the default Dispatcher.
func Inline(fn func()) { fn() }

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger runs write to. Engines log nowhere by default.
func WithLogger(logger hclog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithDispatcher routes progress, failure and completion callbacks through d.
func WithDispatcher(d Dispatcher) Option {
	return func(e *Engine) { e.dispatch = d }
}

// WithFailureHandler delivers each per-input failure as soon as it happens.
func WithFailureHandler(fn func(Failure)) Option {
	return func(e *Engine) { e.onFailure = fn }
}

// WithCompletionHandler delivers the result after the run has released its
// handles and the engine is idle again.
func WithCompletionHandler(fn func(Result)) Option {
	return func(e *Engine) { e.onComplete = fn }
}

type Engine struct {
	access     pdf.Access
	inputs     *inputlist.List
	logger     hclog.Logger
	dispatch   Dispatcher
	onFailure  func(Failure)
	onComplete func(Result)

	mu      sync.Mutex
	current *Run
	last    *Run
}

func NewEngine(access pdf.Access, inputs *inputlist.List, opts ...Option) *Engine {
	e := &Engine{
		access:   access,
		inputs:   inputs,
		logger:   hclog.NewNullLogger(),
		dispatch: Inline,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Inputs() *inputlist.List {
	return e.inputs
}

// ResolveTarget turns an output path into the absolute path a run writes to.
func ResolveTarget(target string) (string, error) {
	if strings.TrimSpace(target) == "" {
		return "", errors.New("empty output path")
	}
	return filepath.Abs(target)
}

// CanMerge reports whether target resolves to an absolute path and there
// are at least two inputs. A single document is never merged.
func (e *Engine) CanMerge(target string) bool {
	if _, err := ResolveTarget(target); err != nil {
		return false
	}
	return e.inputs.Len() > 1
}

// Busy reports whether a run is in flight.
func (e *Engine) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current != nil
}

// Current returns the run in flight, or nil.
func (e *Engine) Current() *Run {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Last returns the most recently finished run, or nil.
func (e *Engine) Last() *Run {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// MergeAsync starts merging the current inputs into target and returns
// without waiting. If a run is already in flight nothing happens and
// ErrMergeInProgress is returned.
func (e *Engine) MergeAsync(target string, sink ProgressSink) (*Run, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current != nil {
		return nil, ErrMergeInProgress
	}

	output, err := ResolveTarget(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCannotMerge, err)
	}
	inputs := e.inputs.Snapshot()
	if len(inputs) < 2 {
		return nil, fmt.Errorf("%w: have %d input(s)", ErrCannotMerge, len(inputs))
	}
	for _, in := range inputs {
		if abs, err := filepath.Abs(in); err == nil && utils.SamePath(abs, output) {
			return nil, fmt.Errorf("%w: %s", ErrTargetIsInput, in)
		}
	}

	r := newRun(utils.GenerateUUID(), output, inputs, sink)
	e.current = r
	go e.execute(r)
	return r, nil
}

func (e *Engine) execute(r *Run) {
	log := e.logger.With("run", r.id, "output", r.output)
	log.Info("merge started", "inputs", len(r.inputs))

	var (
		tgt       pdf.Target
		finalized bool
		pages     int
		runErr    error
	)

	defer func() {
		if p := recover(); p != nil {
			runErr = fmt.Errorf("merge: unexpected failure: %v", p)
		}
		if tgt != nil && (!finalized || runErr != nil) {
			if err := tgt.Abort(); err != nil {
				log.Warn("abort output", "error", err)
			}
		}

		state := Completed
		if runErr != nil {
			state = Failed
			log.Error("merge failed", "error", runErr)
		} else {
			log.Info("merge completed", "pages", pages, "failures", len(r.Failures()))
		}
		r.finish(state, pages, runErr)
		e.release(r)
	}()

	var err error
	tgt, err = e.access.OpenForWrite(r.output)
	if err != nil {
		tgt = nil
		runErr = fmt.Errorf("%w %s: %w", ErrOpenTarget, r.output, err)
		return
	}

	r.setState(Copying)
	e.report(r, 0)
	for _, path := range r.inputs {
		if err := e.mergeOne(r, tgt, path, log); err != nil {
			runErr = err
			return
		}
		e.report(r, r.advance())
	}

	r.setState(Finalizing)
	pages = tgt.Pages()
	finalized = true
	if err := tgt.Finalize(); err != nil {
		pages = 0
		runErr = fmt.Errorf("%w %s: %w", ErrFinalize, r.output, err)
	}
}

// mergeOne copies every page of path into tgt. Inputs that cannot be used
// are recorded as failures and skipped; only a failed page copy is fatal.
func (e *Engine) mergeOne(r *Run, tgt pdf.Target, path string, log hclog.Logger) error {
	doc, err := e.access.OpenForRead(path)
	if err != nil {
		reason := ReasonOpen
		if errors.Is(err, pdf.ErrRestricted) {
			reason = ReasonPermission
		}
		e.fail(r, Failure{Path: path, Reason: reason, Err: err}, log)
		return nil
	}
	defer func() {
		if err := doc.Close(); err != nil {
			log.Warn("close input", "path", path, "error", err)
		}
	}()

	if !doc.Extractable() {
		e.fail(r, Failure{Path: path, Reason: ReasonPermission, Err: pdf.ErrRestricted}, log)
		return nil
	}

	n := doc.PageCount()
	for page := 1; page <= n; page++ {
		if err := tgt.CopyPage(doc, page); err != nil {
			return fmt.Errorf("%w %d of %s: %w", ErrCopyPage, page, path, err)
		}
	}
	log.Debug("input merged", "path", path, "pages", n)
	return nil
}

func (e *Engine) fail(r *Run, f Failure, log hclog.Logger) {
	log.Warn("input skipped", "path", f.Path, "reason", f.Reason, "error", f.Err)
	r.addFailure(f)
	if e.onFailure != nil {
		fn := e.onFailure
		e.dispatch(func() { fn(f) })
	}
}

func (e *Engine) report(r *Run, percent int) {
	if !r.setProgress(percent) || r.sink == nil {
		return
	}
	sink := r.sink
	e.dispatch(func() { sink.Report(percent) })
}

func (e *Engine) release(r *Run) {
	e.mu.Lock()
	if e.current == r {
		e.current = nil
	}
	e.last = r
	e.mu.Unlock()
	close(r.done)

	if e.onComplete != nil {
		fn, res := e.onComplete, r.snapshotResult()
		e.dispatch(func() { fn(res) })
	}
}
