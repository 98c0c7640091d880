package pdfmap

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

// writeFixturePDF generates a real PDF with the given number of pages.
func writeFixturePDF(t *testing.T, path string, pages int) {
	t.Helper()

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for i := 0; i < pages; i++ {
		doc.AddPage()
		doc.Cell(40, 10, "fixture page")
	}
	if err := doc.OutputFileAndClose(path); err != nil {
		t.Fatalf("Writing fixture PDF: %v", err)
	}
}

func TestCountPages(t *testing.T) {
	backends := map[string]PageCounter{
		"pdfcpu":     PdfcpuCounter{},
		"ledongthuc": LedongthucCounter{},
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "three-pages.pdf")
	writeFixturePDF(t, path, 3)

	for name, backend := range backends {
		t.Run(name, func(t *testing.T) {
			count, err := backend.CountPages(path)
			if err != nil {
				t.Fatalf("CountPages() error = %v", err)
			}
			if count != 3 {
				t.Errorf("Expected 3 pages, got %d", count)
			}
		})
	}
}

func TestCountPagesBackendsAgree(t *testing.T) {
	dir := t.TempDir()

	for _, pages := range []int{1, 7} {
		path := filepath.Join(dir, "fixture.pdf")
		writeFixturePDF(t, path, pages)

		fast, err := PdfcpuCounter{}.CountPages(path)
		if err != nil {
			t.Fatalf("pdfcpu CountPages() error = %v", err)
		}
		fallback, err := LedongthucCounter{}.CountPages(path)
		if err != nil {
			t.Fatalf("ledongthuc CountPages() error = %v", err)
		}

		if fast != fallback {
			t.Errorf("Backends disagree for %d pages: pdfcpu=%d ledongthuc=%d", pages, fast, fallback)
		}
		if fast != pages {
			t.Errorf("Expected %d pages, got %d", pages, fast)
		}
	}
}

func TestCountPagesMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "garbage.pdf")
	if err := os.WriteFile(path, []byte("this is not a PDF at all"), 0o644); err != nil {
		t.Fatalf("Writing garbage file: %v", err)
	}

	backends := map[string]PageCounter{
		"pdfcpu":     PdfcpuCounter{},
		"ledongthuc": LedongthucCounter{},
	}

	for name, backend := range backends {
		t.Run(name, func(t *testing.T) {
			_, err := backend.CountPages(path)
			if err == nil {
				t.Fatal("CountPages() should fail on malformed input")
			}

			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("Expected *ParseError, got %T: %v", err, err)
			}
		})
	}
}

func TestCountPagesMissingFile(t *testing.T) {
	_, err := DefaultCounter().CountPages(filepath.Join(t.TempDir(), "missing.pdf"))
	if err == nil {
		t.Fatal("CountPages() should fail for a missing file")
	}
}

func TestDefaultCounter(t *testing.T) {
	if _, ok := DefaultCounter().(PdfcpuCounter); !ok {
		t.Errorf("DefaultCounter() should prefer the pdfcpu backend, got %T", DefaultCounter())
	}
}

func TestGenerateWithRealBackend(t *testing.T) {
	dir := t.TempDir()
	writeFixturePDF(t, filepath.Join(dir, "ACME_12345_chapter_01_Cover.pdf"), 2)
	writeFixturePDF(t, filepath.Join(dir, "ACME_12345_chapter_02_Summary.pdf"), 4)

	doc, err := NewGenerator(DefaultCounter()).Generate(dir, "")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if doc.TotalPages != 6 {
		t.Errorf("Expected TotalPages 6, got %d", doc.TotalPages)
	}
	if doc.Files[1].StartPage != 3 {
		t.Errorf("Expected second StartPage 3, got %d", doc.Files[1].StartPage)
	}
}
