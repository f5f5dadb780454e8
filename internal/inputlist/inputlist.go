// Package inputlist keeps the ordered set of documents that make up a merge.
//
// The order of a List is the order pages appear in the merged output. Paths
// are unique under case-insensitive comparison. Every mutation is atomic with
// respect to observers: a subscriber never sees a duplicated or missing entry
// in the middle of a reorder.
package inputlist

import (
	"errors"
	"os"
	"strings"
	"sync"

	"go-pdfmerge/internal/utils"
)

var (
	ErrEmptyPath = errors.New("inputlist: empty path")
	ErrDuplicate = errors.New("inputlist: path already present")
	ErrNotPDF    = errors.New("inputlist: not a .pdf file")
	ErrNotFound  = errors.New("inputlist: file does not exist")
)

// Reference identifies one candidate input document.
type Reference struct {
	Path string
}

func (r Reference) DisplayText() string {
	return r.Path
}

func (r Reference) String() string {
	return r.Path
}

type ChangeKind int

const (
	Added ChangeKind = iota
	Removed
	Moved
	Reset
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Moved:
		return "moved"
	case Reset:
		return "reset"
	}
	return "unknown"
}

// Change describes one completed mutation. Len is the list length after the
// change, which is all observers need to recompute whether a merge is
// possible.
type Change struct {
	Kind ChangeKind
	Path string
	From int
	To   int
	Len  int
}

type List struct {
	mu        sync.RWMutex
	items     []Reference
	observers map[int]func(Change)
	nextID    int
}

func New(paths ...string) *List {
	l := &List{observers: make(map[int]func(Change))}
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" && l.indexOfLocked(p) < 0 {
			l.items = append(l.items, Reference{Path: p})
		}
	}
	return l
}

// SplitPaths splits a manual entry of several paths separated by ';'.
func SplitPaths(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ";") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Subscribe registers fn for change notifications and returns a function
// that unregisters it. Notifications are delivered after the list lock is
// released, in mutation order for a single goroutine.
func (l *List) Subscribe(fn func(Change)) (cancel func()) {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.observers[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.observers, id)
		l.mu.Unlock()
	}
}

// Validate reports why path could not be added, or nil if Add would accept
// it as a readable PDF.
func (l *List) Validate(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return ErrEmptyPath
	}
	if l.Contains(path) {
		return ErrDuplicate
	}
	if !utils.IsPDFName(path) {
		return ErrNotPDF
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return ErrNotFound
	}
	return nil
}

// Add appends path. It returns false without changing the list when path is
// blank or already present.
func (l *List) Add(path string) bool {
	path = strings.TrimSpace(path)
	if path == "" {
		return false
	}

	l.mu.Lock()
	if l.indexOfLocked(path) >= 0 {
		l.mu.Unlock()
		return false
	}
	l.items = append(l.items, Reference{Path: path})
	c := Change{Kind: Added, Path: path, From: -1, To: len(l.items) - 1, Len: len(l.items)}
	obs := l.observersLocked()
	l.mu.Unlock()

	notify(obs, c)
	return true
}

func (l *List) AddPaths(paths ...string) int {
	n := 0
	for _, p := range paths {
		if l.Add(p) {
			n++
		}
	}
	return n
}

// Remove deletes the entry matching path. Removing an absent path is a no-op.
func (l *List) Remove(path string) bool {
	l.mu.Lock()
	i := l.indexOfLocked(path)
	if i < 0 {
		l.mu.Unlock()
		return false
	}
	removed := l.items[i]
	l.items = append(l.items[:i], l.items[i+1:]...)
	c := Change{Kind: Removed, Path: removed.Path, From: i, To: -1, Len: len(l.items)}
	obs := l.observersLocked()
	l.mu.Unlock()

	notify(obs, c)
	return true
}

func (l *List) RemoveSelected(paths []string) int {
	selection := append([]string(nil), paths...)
	n := 0
	for _, p := range selection {
		if l.Remove(p) {
			n++
		}
	}
	return n
}

// Move relocates the entry at from so that it ends up at index to. Entries
// in between shift toward the vacated slot. Out-of-range indices leave the
// list untouched.
func (l *List) Move(from, to int) bool {
	l.mu.Lock()
	n := len(l.items)
	if from < 0 || from >= n || to < 0 || to >= n {
		l.mu.Unlock()
		return false
	}
	if from == to {
		l.mu.Unlock()
		return true
	}

	item := l.items[from]
	if from < to {
		copy(l.items[from:to], l.items[from+1:to+1])
	} else {
		copy(l.items[to+1:from+1], l.items[to:from])
	}
	l.items[to] = item
	c := Change{Kind: Moved, Path: item.Path, From: from, To: to, Len: n}
	obs := l.observersLocked()
	l.mu.Unlock()

	notify(obs, c)
	return true
}

func (l *List) Clear() {
	l.Replace(nil)
}

// Replace swaps the whole content for paths in one step, dropping blanks and
// duplicates.
func (l *List) Replace(paths []string) {
	fresh := New(paths...)

	l.mu.Lock()
	l.items = fresh.items
	c := Change{Kind: Reset, From: -1, To: -1, Len: len(l.items)}
	obs := l.observersLocked()
	l.mu.Unlock()

	notify(obs, c)
}

func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Snapshot returns the paths in order. The result is a copy; later edits to
// the list do not affect it.
func (l *List) Snapshot() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.items))
	for i, r := range l.items {
		out[i] = r.Path
	}
	return out
}

func (l *List) References() []Reference {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Reference(nil), l.items...)
}

func (l *List) IndexOf(path string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.indexOfLocked(path)
}

func (l *List) Contains(path string) bool {
	return l.IndexOf(path) >= 0
}

func (l *List) indexOfLocked(path string) int {
	for i, r := range l.items {
		if utils.SamePath(r.Path, path) {
			return i
		}
	}
	return -1
}

func (l *List) observersLocked() []func(Change) {
	if len(l.observers) == 0 {
		return nil
	}
	obs := make([]func(Change), 0, len(l.observers))
	for id := 0; id < l.nextID; id++ {
		if fn, ok := l.observers[id]; ok {
			obs = append(obs, fn)
		}
	}
	return obs
}

func notify(obs []func(Change), c Change) {
	for _, fn := range obs {
		fn(c)
	}
}
