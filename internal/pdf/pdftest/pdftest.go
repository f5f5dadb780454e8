// Package pdftest writes small PDF fixtures for tests.
package pdftest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/go-pdf/fpdf"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
)

// Write creates a PDF with the given number of pages at dir/name. Each page
// carries the text "<name> page <n>" and the path is returned.
func Write(t testing.TB, dir, name string, pages int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	doc := newDoc(name, pages)
	if err := doc.OutputFileAndClose(path); err != nil {
		t.Fatalf("pdftest: writing %s: %v", path, err)
	}
	return path
}

// WriteProtected creates a one page PDF that opens without a user password
// but is locked with ownerPassword.
func WriteProtected(t testing.TB, dir, name, ownerPassword string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetProtection(fpdf.CnProtectPrint, "", ownerPassword)
	addPages(doc, name, 1)
	if err := doc.OutputFileAndClose(path); err != nil {
		t.Fatalf("pdftest: writing %s: %v", path, err)
	}
	return path
}

// WriteRotated creates a PDF like Write and rotates every page by degrees.
func WriteRotated(t testing.TB, dir, name string, pages, degrees int) string {
	t.Helper()
	path := Write(t, dir, name, pages)
	if err := pdfapi.RotateFile(path, "", degrees, nil, nil); err != nil {
		t.Fatalf("pdftest: rotating %s: %v", path, err)
	}
	return path
}

// WriteGarbage creates a file with a .pdf name that is not a PDF.
func WriteGarbage(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("this is not a pdf document\n"), 0o644); err != nil {
		t.Fatalf("pdftest: writing %s: %v", path, err)
	}
	return path
}

func newDoc(name string, pages int) *fpdf.Fpdf {
	doc := fpdf.New("P", "mm", "A4", "")
	addPages(doc, name, pages)
	return doc
}

func addPages(doc *fpdf.Fpdf, name string, pages int) {
	for i := 1; i <= pages; i++ {
		doc.AddPage()
		doc.SetFont("Helvetica", "", 16)
		doc.Cell(40, 10, fmt.Sprintf("%s page %d", name, i))
	}
}
