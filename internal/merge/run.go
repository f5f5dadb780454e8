package merge

import (
	"sync"
)

type State int

const (
	Idle State = iota
	Opening
	Copying
	Finalizing
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Opening:
		return "opening"
	case Copying:
		return "copying"
	case Finalizing:
		return "finalizing"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Active reports whether a run in this state still holds the output.
func (s State) Active() bool {
	return s == Opening || s == Copying || s == Finalizing
}

// Result is the outcome of a finished run.
type Result struct {
	ID     string
	State  State
	Output string
	// Err is set when State is Failed. It wraps ErrOpenTarget, ErrCopyPage
	// or ErrFinalize.
	Err              error
	Failures         []Failure
	Pages            int
	DidProduceOutput bool
}

// Run is one execution of a merge. All accessors are safe to call while the
// run is in progress.
type Run struct {
	id     string
	output string
	inputs []string
	sink   ProgressSink

	mu        sync.Mutex
	state     State
	completed int
	percent   int
	failures  []Failure
	result    Result

	done chan struct{}
}

func newRun(id, output string, inputs []string, sink ProgressSink) *Run {
	return &Run{
		id:      id,
		output:  output,
		inputs:  inputs,
		sink:    sink,
		state:   Opening,
		percent: -1,
		done:    make(chan struct{}),
	}
}

func (r *Run) ID() string     { return r.id }
func (r *Run) Output() string { return r.output }
func (r *Run) Total() int     { return len(r.inputs) }

// Inputs returns the snapshot of input paths the run works on.
func (r *Run) Inputs() []string {
	return append([]string(nil), r.inputs...)
}

func (r *Run) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Run) Completed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completed
}

// Progress returns the last percentage reported, or -1 before the first
// report.
func (r *Run) Progress() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.percent
}

func (r *Run) Failures() []Failure {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Failure(nil), r.failures...)
}

func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run has finished and its handles are released.
func (r *Run) Wait() Result {
	<-r.done
	return r.snapshotResult()
}

// Result returns the outcome and true once the run has finished.
func (r *Run) Result() (Result, bool) {
	select {
	case <-r.done:
		return r.snapshotResult(), true
	default:
		return Result{}, false
	}
}

func (r *Run) snapshotResult() Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := r.result
	res.Failures = append([]Failure(nil), r.result.Failures...)
	return res
}

func (r *Run) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// advance counts one processed input and returns the new percentage.
func (r *Run) advance() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed++
	return r.completed * 100 / len(r.inputs)
}

// setProgress stores p and reports whether it is new. Percentages never go
// backwards.
func (r *Run) setProgress(p int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p < r.percent {
		return false
	}
	r.percent = p
	return true
}

func (r *Run) addFailure(f Failure) {
	r.mu.Lock()
	r.failures = append(r.failures, f)
	r.mu.Unlock()
}

func (r *Run) finish(state State, pages int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = state
	r.result = Result{
		ID:               r.id,
		State:            state,
		Output:           r.output,
		Err:              err,
		Failures:         append([]Failure(nil), r.failures...),
		Pages:            pages,
		DidProduceOutput: state == Completed,
	}
}
