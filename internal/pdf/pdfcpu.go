package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Options tunes the pdfcpu backed Access.
type Options struct {
	UserPassword string
	// OwnerPassword grants full rights on encrypted inputs. Without it an
	// encrypted input is treated as restricted.
	OwnerPassword string
	// Bookmarks adds one outline entry per merged input, titled with the
	// input's file name and pointing at its first page in the output.
	Bookmarks bool
}

// PDFCPU implements Access on top of github.com/pdfcpu/pdfcpu.
type PDFCPU struct {
	opts Options
}

func NewAccess(opts Options) *PDFCPU {
	return &PDFCPU{opts: opts}
}

func (a *PDFCPU) config(cmd model.CommandMode) *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.Cmd = cmd
	conf.ValidationMode = model.ValidationRelaxed
	conf.UserPW = a.opts.UserPassword
	conf.OwnerPW = a.opts.OwnerPassword
	conf.CreateBookmarks = false
	return conf
}

type document struct {
	path        string
	ctx         *model.Context
	extractable bool
}

func (a *PDFCPU) OpenForRead(path string) (doc Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("pdf: reading %s: %v", path, r)
		}
	}()

	// The whole file is read up front so no OS handle outlives this call.
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pdf: reading %s: %w", path, err)
	}

	ctx, err := pdfapi.ReadContext(bytes.NewReader(raw), a.config(model.MERGECREATE))
	if err != nil {
		if isPermissionError(err) {
			return nil, fmt.Errorf("%w: %s: %v", ErrRestricted, path, err)
		}
		return nil, fmt.Errorf("pdf: parsing %s: %w", path, err)
	}
	if ctx.E != nil {
		if err := a.authenticateOwner(raw); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrRestricted, path, err)
		}
	}
	if err := pdfapi.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("pdf: validating %s: %w", path, err)
	}

	return &document{path: path, ctx: ctx, extractable: true}, nil
}

// authenticateOwner checks the configured owner password against an
// encrypted document. pdfcpu only insists on a matching owner password for
// password changing commands, so the check reads the document once more in
// that mode.
func (a *PDFCPU) authenticateOwner(raw []byte) error {
	if a.opts.OwnerPassword == "" {
		return errors.New("no owner password configured")
	}
	_, err := pdfapi.ReadContext(bytes.NewReader(raw), a.config(model.CHANGEOPW))
	return err
}

func isPermissionError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "password") || strings.Contains(msg, "permission")
}

func (d *document) Path() string { return d.path }

func (d *document) PageCount() int {
	if d.ctx == nil {
		return 0
	}
	return d.ctx.PageCount
}

func (d *document) Extractable() bool { return d.extractable }

func (d *document) Close() error {
	d.ctx = nil
	return nil
}

type target struct {
	path      string
	f         *os.File
	ctx       *model.Context
	pages     int
	bookmarks bool
	marks     []pdfcpu.Bookmark
	last      *document
	closed    bool
}

func (a *PDFCPU) OpenForWrite(path string) (Target, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("pdf: creating %s: %w", path, err)
	}
	return &target{path: path, f: f, bookmarks: a.opts.Bookmarks}, nil
}

func (t *target) Pages() int { return t.pages }

func (t *target) CopyPage(doc Document, pageNr int) (err error) {
	if t.closed {
		return ErrClosed
	}
	d, ok := doc.(*document)
	if !ok || d.ctx == nil {
		return ErrForeignDocument
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf: copying page %d of %s: %v", pageNr, d.path, r)
		}
	}()

	rotate, err := pageRotation(d.ctx, pageNr)
	if err != nil {
		return fmt.Errorf("pdf: reading page %d of %s: %w", pageNr, d.path, err)
	}

	page, err := pdfcpu.ExtractPages(d.ctx, []int{pageNr}, false)
	if err != nil {
		return fmt.Errorf("pdf: extracting page %d of %s: %w", pageNr, d.path, err)
	}
	// The extracted page tree counts its page but the context does not.
	page.PageCount = 1
	page.Configuration.CreateBookmarks = false
	if err := setRotation(page, rotate); err != nil {
		return fmt.Errorf("pdf: rotating page %d of %s: %w", pageNr, d.path, err)
	}

	if t.ctx == nil {
		page.EnsureVersionForWriting()
		t.ctx = page
	} else {
		before := t.ctx.PageCount
		if err := pdfcpu.MergeXRefTables(filepath.Base(d.path), page, t.ctx, false, false); err != nil {
			return fmt.Errorf("pdf: appending page %d of %s: %w", pageNr, d.path, err)
		}
		if t.ctx.PageCount != before+1 {
			return fmt.Errorf("pdf: appending page %d of %s: page tree not extended", pageNr, d.path)
		}
	}

	t.pages++
	if d != t.last {
		t.last = d
		t.marks = append(t.marks, pdfcpu.Bookmark{Title: t.markTitle(d.path), PageFrom: t.pages})
	}
	return nil
}

// markTitle returns the base name of path, suffixed when an earlier input
// used the same name. Outline destinations are keyed by title.
func (t *target) markTitle(path string) string {
	base := filepath.Base(path)
	title := base
	for n := 2; t.hasMark(title); n++ {
		title = fmt.Sprintf("%s #%d", base, n)
	}
	return title
}

func (t *target) hasMark(title string) bool {
	for _, m := range t.marks {
		if m.Title == title {
			return true
		}
	}
	return false
}

// pageRotation returns the effective /Rotate of a page, own entry first,
// then the value inherited from the page tree.
func pageRotation(ctx *model.Context, pageNr int) (int, error) {
	d, _, inh, err := ctx.PageDict(pageNr, false)
	if err != nil {
		return 0, err
	}
	if d == nil {
		return 0, fmt.Errorf("page %d not found", pageNr)
	}
	if r := d.IntEntry("Rotate"); r != nil {
		return normalizeRotation(*r), nil
	}
	if inh != nil {
		return normalizeRotation(inh.Rotate), nil
	}
	return 0, nil
}

func setRotation(ctx *model.Context, rotate int) error {
	d, _, _, err := ctx.PageDict(1, false)
	if err != nil {
		return err
	}
	if d == nil {
		return fmt.Errorf("extracted page missing")
	}
	d["Rotate"] = types.Integer(rotate)
	return nil
}

func normalizeRotation(r int) int {
	return ((r % 360) + 360) % 360
}

func (t *target) Finalize() (err error) {
	if t.closed {
		return ErrClosed
	}
	t.closed = true

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf: writing %s: %v", t.path, r)
		}
		if err != nil {
			err = errors.Join(err, t.discard())
		}
		t.ctx = nil
	}()

	if t.ctx == nil {
		return ErrNoPages
	}
	delete(t.ctx.RootDict, "Outlines")
	if t.bookmarks && len(t.marks) > 0 {
		if err := pdfcpu.AddBookmarks(t.ctx, t.marks, true); err != nil {
			return fmt.Errorf("pdf: adding bookmarks to %s: %w", t.path, err)
		}
	}
	if err := pdfapi.OptimizeContext(t.ctx); err != nil {
		return fmt.Errorf("pdf: optimizing %s: %w", t.path, err)
	}
	if err := pdfapi.WriteContext(t.ctx, t.f); err != nil {
		return fmt.Errorf("pdf: writing %s: %w", t.path, err)
	}
	if err := t.f.Close(); err != nil {
		return fmt.Errorf("pdf: closing %s: %w", t.path, err)
	}
	return nil
}

func (t *target) Abort() error {
	if t.closed {
		return nil
	}
	t.closed = true
	t.ctx = nil
	return t.discard()
}

// discard closes and removes the partial output. A file that is already
// closed or gone is not an error.
func (t *target) discard() error {
	var errs []error
	if err := t.f.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		errs = append(errs, fmt.Errorf("pdf: closing %s: %w", t.path, err))
	}
	if err := os.Remove(t.path); err != nil && !os.IsNotExist(err) {
		errs = append(errs, fmt.Errorf("pdf: removing %s: %w", t.path, err))
	}
	return errors.Join(errs...)
}

// PageCount returns the number of pages of the PDF at path.
func PageCount(path string) (int, error) {
	return pdfapi.PageCountFile(path)
}

// Rotation returns the effective rotation in degrees of page pageNr of the
// PDF at path.
func Rotation(path string, pageNr int) (int, error) {
	ctx, err := pdfapi.ReadContextFile(path)
	if err != nil {
		return 0, err
	}
	return pageRotation(ctx, pageNr)
}
