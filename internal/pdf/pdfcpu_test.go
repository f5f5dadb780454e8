package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"go-pdfmerge/internal/pdf/pdftest"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func copyAll(t *testing.T, tgt Target, doc Document) {
	t.Helper()
	for i := 1; i <= doc.PageCount(); i++ {
		require.NoError(t, tgt.CopyPage(doc, i))
	}
}

func TestOpenForRead(t *testing.T) {
	dir := t.TempDir()
	access := NewAccess(Options{})

	t.Run("valid PDF", func(t *testing.T) {
		path := pdftest.Write(t, dir, "three.pdf", 3)
		doc, err := access.OpenForRead(path)
		require.NoError(t, err)
		defer doc.Close()
		assert.Equal(t, 3, doc.PageCount())
		assert.True(t, doc.Extractable())
		assert.Equal(t, path, doc.Path())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := access.OpenForRead(filepath.Join(dir, "missing.pdf"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrRestricted)
	})

	t.Run("not a PDF", func(t *testing.T) {
		_, err := access.OpenForRead(pdftest.WriteGarbage(t, dir, "garbage.pdf"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrRestricted)
	})

	t.Run("owner password not configured", func(t *testing.T) {
		path := pdftest.WriteProtected(t, dir, "locked.pdf", "owner-secret")
		_, err := access.OpenForRead(path)
		assert.ErrorIs(t, err, ErrRestricted)
	})

	t.Run("wrong owner password", func(t *testing.T) {
		path := pdftest.WriteProtected(t, dir, "locked2.pdf", "owner-secret")
		_, err := NewAccess(Options{OwnerPassword: "guess"}).OpenForRead(path)
		assert.ErrorIs(t, err, ErrRestricted)
	})
}

func TestMergePages(t *testing.T) {
	dir := t.TempDir()
	access := NewAccess(Options{})
	out := filepath.Join(dir, "merged.pdf")

	tgt, err := access.OpenForWrite(out)
	require.NoError(t, err)

	for _, name := range []string{"one.pdf", "two.pdf"} {
		doc, err := access.OpenForRead(pdftest.Write(t, dir, name, 2))
		require.NoError(t, err)
		copyAll(t, tgt, doc)
		require.NoError(t, doc.Close())
	}
	assert.Equal(t, 4, tgt.Pages())
	require.NoError(t, tgt.Finalize())

	n, err := PageCount(out)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	assert.ErrorIs(t, tgt.Finalize(), ErrClosed)
	assert.NoError(t, tgt.Abort())
	_, err = os.Stat(out)
	assert.NoError(t, err, "abort after finalize must keep the output")
}

func TestRotationIsKept(t *testing.T) {
	dir := t.TempDir()
	access := NewAccess(Options{})
	upright := pdftest.Write(t, dir, "upright.pdf", 1)
	turned := pdftest.WriteRotated(t, dir, "turned.pdf", 2, 90)
	out := filepath.Join(dir, "merged.pdf")

	tgt, err := access.OpenForWrite(out)
	require.NoError(t, err)
	for _, path := range []string{upright, turned} {
		doc, err := access.OpenForRead(path)
		require.NoError(t, err)
		copyAll(t, tgt, doc)
		doc.Close()
	}
	require.NoError(t, tgt.Finalize())

	want := []int{0, 90, 90}
	for i, rot := range want {
		got, err := Rotation(out, i+1)
		require.NoError(t, err)
		assert.Equal(t, rot, got, "page %d", i+1)
	}
}

func TestMergeKeepsRotationPerPage(t *testing.T) {
	dir := t.TempDir()
	access := NewAccess(Options{})
	turned := pdftest.WriteRotated(t, dir, "turned.pdf", 1, 90)
	upright := pdftest.Write(t, dir, "upright.pdf", 1)
	out := filepath.Join(dir, "merged.pdf")

	tgt, err := access.OpenForWrite(out)
	require.NoError(t, err)
	for _, path := range []string{turned, upright} {
		doc, err := access.OpenForRead(path)
		require.NoError(t, err)
		copyAll(t, tgt, doc)
		doc.Close()
	}
	require.NoError(t, tgt.Finalize())

	n, err := PageCount(out)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	rot, err := Rotation(out, 1)
	require.NoError(t, err)
	assert.Equal(t, 90, rot)
	rot, err = Rotation(out, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, rot)
}

func TestBookmarksPerInput(t *testing.T) {
	dir := t.TempDir()
	other := filepath.Join(dir, "other")
	require.NoError(t, os.Mkdir(other, 0o755))
	access := NewAccess(Options{Bookmarks: true})
	inputs := []string{
		pdftest.Write(t, dir, "a.pdf", 2),
		pdftest.Write(t, dir, "b.pdf", 1),
		pdftest.Write(t, other, "a.pdf", 1),
	}
	out := filepath.Join(dir, "merged.pdf")

	tgt, err := access.OpenForWrite(out)
	require.NoError(t, err)
	for _, path := range inputs {
		doc, err := access.OpenForRead(path)
		require.NoError(t, err)
		copyAll(t, tgt, doc)
		doc.Close()
	}
	require.NoError(t, tgt.Finalize())

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	bms, err := pdfapi.Bookmarks(f, nil)
	require.NoError(t, err)

	var titles []string
	var pages []int
	for _, bm := range bms {
		titles = append(titles, bm.Title)
		pages = append(pages, bm.PageFrom)
	}
	assert.Equal(t, []string{"a.pdf", "b.pdf", "a.pdf #2"}, titles)
	assert.Equal(t, []int{1, 3, 4}, pages)
}

func TestCopyPageRejectsClosedDocument(t *testing.T) {
	dir := t.TempDir()
	access := NewAccess(Options{})
	doc, err := access.OpenForRead(pdftest.Write(t, dir, "a.pdf", 1))
	require.NoError(t, err)
	doc.Close()

	tgt, err := access.OpenForWrite(filepath.Join(dir, "out.pdf"))
	require.NoError(t, err)
	defer tgt.Abort()
	assert.ErrorIs(t, tgt.CopyPage(doc, 1), ErrForeignDocument)
}

func TestFinalizeWithoutPages(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "empty.pdf")
	tgt, err := NewAccess(Options{}).OpenForWrite(out)
	require.NoError(t, err)

	assert.ErrorIs(t, tgt.Finalize(), ErrNoPages)
	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestAbortRemovesOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "partial.pdf")
	tgt, err := NewAccess(Options{}).OpenForWrite(out)
	require.NoError(t, err)

	require.NoError(t, tgt.Abort())
	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestAbortReportsRemoveError(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "partial.pdf")
	tgt, err := NewAccess(Options{}).OpenForWrite(out)
	require.NoError(t, err)

	// Something else took the output path over.
	require.NoError(t, os.Remove(out))
	require.NoError(t, os.Mkdir(out, 0o755))
	pdftest.Write(t, out, "keep.pdf", 1)

	err = tgt.Abort()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "removing")
	assert.DirExists(t, out)
}

func TestAbortAfterOutputVanished(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "partial.pdf")
	tgt, err := NewAccess(Options{}).OpenForWrite(out)
	require.NoError(t, err)

	require.NoError(t, os.Remove(out))
	assert.NoError(t, tgt.Abort())
}

func TestOpenForWriteMissingDirectory(t *testing.T) {
	out := filepath.Join(t.TempDir(), "no", "such", "dir", "out.pdf")
	_, err := NewAccess(Options{}).OpenForWrite(out)
	require.Error(t, err)
	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}
