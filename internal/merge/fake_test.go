package merge

import (
	"errors"
	"fmt"
	"sync"

	"go-pdfmerge/internal/pdf"
)

// fakeAccess is an in-memory pdf.Access. Documents are lists of page labels.
type fakeAccess struct {
	mu         sync.Mutex
	docs       map[string]int
	restricted map[string]bool
	lockedOpen map[string]bool
	copyErr    map[string]error
	panicOn    string

	writeErr    error
	finalizeErr error
	// block, when set, holds OpenForWrite until it is closed.
	block   chan struct{}
	started chan struct{}

	open    int
	maxOpen int
	outputs map[string][]string
	aborted []string
}

func newFakeAccess(docs map[string]int) *fakeAccess {
	return &fakeAccess{
		docs:       docs,
		restricted: map[string]bool{},
		lockedOpen: map[string]bool{},
		copyErr:    map[string]error{},
		outputs:    map[string][]string{},
	}
}

type fakeDoc struct {
	a           *fakeAccess
	path        string
	pages       int
	extractable bool
	closed      bool
}

func (d *fakeDoc) Path() string      { return d.path }
func (d *fakeDoc) PageCount() int    { return d.pages }
func (d *fakeDoc) Extractable() bool { return d.extractable }

func (d *fakeDoc) Close() error {
	if d.closed {
		return errors.New("closed twice")
	}
	d.closed = true
	d.a.mu.Lock()
	d.a.open--
	d.a.mu.Unlock()
	return nil
}

func (a *fakeAccess) OpenForRead(path string) (pdf.Document, error) {
	if path == a.panicOn {
		panic("corrupt cross reference table")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.lockedOpen[path] {
		return nil, fmt.Errorf("%w: %s", pdf.ErrRestricted, path)
	}
	n, ok := a.docs[path]
	if !ok {
		return nil, fmt.Errorf("open %s: no such file or directory", path)
	}
	a.open++
	if a.open > a.maxOpen {
		a.maxOpen = a.open
	}
	return &fakeDoc{a: a, path: path, pages: n, extractable: !a.restricted[path]}, nil
}

func (a *fakeAccess) OpenForWrite(path string) (pdf.Target, error) {
	if a.started != nil {
		close(a.started)
	}
	if a.block != nil {
		<-a.block
	}
	if a.writeErr != nil {
		return nil, a.writeErr
	}
	return &fakeTarget{a: a, path: path}, nil
}

type fakeTarget struct {
	a      *fakeAccess
	path   string
	pages  []string
	closed bool
}

func (t *fakeTarget) CopyPage(doc pdf.Document, pageNr int) error {
	d := doc.(*fakeDoc)
	if d.closed {
		return pdf.ErrForeignDocument
	}
	if err := t.a.copyErr[d.path]; err != nil && pageNr == 2 {
		return err
	}
	t.pages = append(t.pages, fmt.Sprintf("%s#%d", d.path, pageNr))
	return nil
}

func (t *fakeTarget) Pages() int { return len(t.pages) }

func (t *fakeTarget) Finalize() error {
	t.closed = true
	if t.a.finalizeErr != nil {
		return t.a.finalizeErr
	}
	t.a.mu.Lock()
	t.a.outputs[t.path] = t.pages
	t.a.mu.Unlock()
	return nil
}

func (t *fakeTarget) Abort() error {
	t.a.mu.Lock()
	t.a.aborted = append(t.a.aborted, t.path)
	t.a.mu.Unlock()
	return nil
}

func (a *fakeAccess) output(path string) ([]string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	pages, ok := a.outputs[path]
	return pages, ok
}

type progressRecorder struct {
	mu     sync.Mutex
	values []int
}

func (p *progressRecorder) Report(percent int) {
	p.mu.Lock()
	p.values = append(p.values, percent)
	p.mu.Unlock()
}

func (p *progressRecorder) Values() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.values...)
}
