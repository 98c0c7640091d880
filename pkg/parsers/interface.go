package parsers

import "github.com/kerbaras/ipofetch/pkg/data"

// Parser extracts chapter descriptors from an exchange's prospectus page.
type Parser interface {
	// IsSupported reports whether this parser handles the given URL.
	IsSupported(url string) bool

	// ExtractChapters parses the page HTML into an ordered chapter list.
	ExtractChapters(pageURL, htmlContent string) ([]data.ChapterDescriptor, error)

	// ExtractCompanyName returns the company name from the page, or "".
	ExtractCompanyName(htmlContent string) string

	// ExtractDocumentID derives the document identifier from the page URL.
	ExtractDocumentID(url string) (string, error)
}
