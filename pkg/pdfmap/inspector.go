// Package pdfmap builds page-number mappings across the chapter PDFs of a
// downloaded prospectus.
package pdfmap

import (
	"fmt"
	"path/filepath"

	"github.com/ledongthuc/pdf"
	pdfcpu "github.com/pdfcpu/pdfcpu/pkg/api"
)

// PageCounter reports the number of pages in a PDF file. Backends must
// agree on the returned count; they may only differ in performance.
type PageCounter interface {
	CountPages(path string) (int, error)
}

// ParseError marks a PDF that could not be read or parsed. It aborts the
// whole mapping operation rather than producing a partial mapping.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse PDF '%s': %v", filepath.Base(e.Path), e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// PdfcpuCounter counts pages with pdfcpu, the faster backend.
type PdfcpuCounter struct{}

func (PdfcpuCounter) CountPages(path string) (int, error) {
	count, err := pdfcpu.PageCountFile(path)
	if err != nil {
		return 0, &ParseError{Path: path, Err: err}
	}
	if count <= 0 {
		return 0, &ParseError{Path: path, Err: fmt.Errorf("no pages found")}
	}
	return count, nil
}

// LedongthucCounter counts pages with the pure-Go ledongthuc/pdf reader.
type LedongthucCounter struct{}

func (LedongthucCounter) CountPages(path string) (int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	count := r.NumPage()
	if count <= 0 {
		return 0, &ParseError{Path: path, Err: fmt.Errorf("no pages found")}
	}
	return count, nil
}

// DefaultCounter returns the preferred backend.
func DefaultCounter() PageCounter {
	return PdfcpuCounter{}
}
