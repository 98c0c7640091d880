package fetch

import (
	"fmt"
	"strings"

	"github.com/kerbaras/ipofetch/pkg/data"
)

// NamingContext carries the identifiers a batch uses to name chapter files.
type NamingContext struct {
	CompanyName string
	DocumentID  string
}

// ChapterFilename builds the on-disk name for a chapter PDF. The chapter
// number is zero-padded so that lexical order equals chapter order, which
// the mapping generator relies on.
func (n NamingContext) ChapterFilename(chapter data.ChapterDescriptor) string {
	return fmt.Sprintf("%s_%s_chapter_%02d_%s.pdf",
		SanitizeFilename(n.CompanyName),
		n.DocumentID,
		chapter.ChapterNumber,
		SanitizeFilename(chapter.ChapterTitle),
	)
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	"\n", "_",
	"\r", "_",
	"\t", "_",
)

// SanitizeFilename makes a display string safe for the filesystem:
// hostile characters become underscores, runs of whitespace collapse to
// single spaces, and the result is capped at 100 characters.
func SanitizeFilename(name string) string {
	sanitized := filenameReplacer.Replace(name)
	sanitized = strings.Join(strings.Fields(sanitized), " ")
	if len(sanitized) > 100 {
		sanitized = sanitized[:100]
	}
	return strings.TrimSpace(sanitized)
}
