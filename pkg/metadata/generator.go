// Package metadata builds the per-document metadata artifact and the
// human-readable download report.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kerbaras/ipofetch/pkg/data"
	"github.com/kerbaras/ipofetch/pkg/fetch"
)

const ToolVersion = "1.0.0"

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// DocumentInfo identifies the document a batch belongs to.
type DocumentInfo struct {
	DocumentID          string
	CompanyName         string
	CompanyNameOriginal string
	OriginalURL         string
}

// GenerateDocumentMetadata assembles document metadata from the chapter
// list and the batch result. Chapter entries are produced only for
// successful downloads, aligned by index.
func (g *Generator) GenerateDocumentMetadata(
	info DocumentInfo,
	chapters []data.ChapterDescriptor,
	batch data.BatchResult,
) data.DocumentMetadata {
	chapterMeta := make([]data.ChapterMetadata, 0, len(chapters))

	for i, chapter := range chapters {
		if i >= len(batch.Outcomes) {
			break
		}
		outcome := batch.Outcomes[i]
		if !outcome.Success {
			continue
		}

		chapterMeta = append(chapterMeta, data.ChapterMetadata{
			DocumentID:           info.DocumentID,
			CompanyName:          info.CompanyName,
			CompanyNameOriginal:  info.CompanyNameOriginal,
			ChapterNumber:        chapter.ChapterNumber,
			ChapterTitle:         chapter.ChapterTitle,
			ChapterTitleOriginal: chapter.ChapterTitleOriginal,
			PDFURL:               chapter.PDFURL,
			LocalPath:            outcome.LocalPath,
			FileSize:             outcome.FileSize,
			DownloadTime:         time.Now().Format(time.RFC3339),
			Language:             "zh-CN",
		})
	}

	return data.DocumentMetadata{
		DocumentID:          info.DocumentID,
		CompanyName:         info.CompanyName,
		CompanyNameOriginal: info.CompanyNameOriginal,
		OriginalURL:         info.OriginalURL,
		TotalChapters:       len(chapters),
		DownloadDate:        time.Now().Format(time.RFC3339),
		Language:            "zh-CN",
		ExchangeType:        "hkexnews",
		ToolVersion:         ToolVersion,
		Chapters:            chapterMeta,
	}
}

// SaveMetadata writes the metadata JSON to outputDir, returning the file
// path. The default name is {company}_{documentID}_metadata.json.
func (g *Generator) SaveMetadata(meta data.DocumentMetadata, outputDir, filename string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	if filename == "" {
		filename = fmt.Sprintf("%s_%s_metadata.json",
			fetch.SanitizeFilename(meta.CompanyName), meta.DocumentID)
	}
	path := filepath.Join(outputDir, filename)

	encoded, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return "", fmt.Errorf("failed to write metadata file: %w", err)
	}

	return path, nil
}

// GenerateSummaryReport renders a human-readable report of one batch.
func (g *Generator) GenerateSummaryReport(meta data.DocumentMetadata, batch data.BatchResult) string {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	fmt.Fprintf(&b, "%s\nIPO Prospectus Download Report\n%s\n\n", rule, rule)
	fmt.Fprintf(&b, "Company:      %s\n", meta.CompanyName)
	fmt.Fprintf(&b, "Document ID:  %s\n", meta.DocumentID)
	fmt.Fprintf(&b, "Downloaded:   %s\n", meta.DownloadDate)
	fmt.Fprintf(&b, "Source URL:   %s\n\n", meta.OriginalURL)

	fmt.Fprintf(&b, "Download statistics:\n")
	fmt.Fprintf(&b, "  Total chapters:  %d\n", batch.TotalChapters)
	fmt.Fprintf(&b, "  Successful:      %d\n", batch.SuccessfulCount)
	fmt.Fprintf(&b, "  Failed:          %d\n", batch.FailedCount)
	if batch.TotalChapters > 0 {
		fmt.Fprintf(&b, "  Success rate:    %.1f%%\n",
			float64(batch.SuccessfulCount)/float64(batch.TotalChapters)*100)
	}
	fmt.Fprintf(&b, "  Total size:      %s\n", FormatFileSize(batch.TotalBytes))
	fmt.Fprintf(&b, "  Total time:      %.2fs\n\n", batch.TotalElapsedTime)

	if len(meta.Chapters) > 0 {
		fmt.Fprintf(&b, "Downloaded chapters:\n%s\n", strings.Repeat("-", 40))
		for _, chapter := range meta.Chapters {
			fmt.Fprintf(&b, "  %2d. %s (%s)\n",
				chapter.ChapterNumber, chapter.ChapterTitle, FormatFileSize(chapter.FileSize))
		}
		b.WriteString("\n")
	}

	if len(batch.ErrorMessages) > 0 {
		fmt.Fprintf(&b, "Errors:\n%s\n", strings.Repeat("-", 40))
		for _, msg := range batch.ErrorMessages {
			fmt.Fprintf(&b, "  - %s\n", msg)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Tool version: IPOFetch %s\n%s\n", ToolVersion, rule)
	return b.String()
}

// SaveReport writes the summary report next to the downloaded files.
func (g *Generator) SaveReport(meta data.DocumentMetadata, batch data.BatchResult, outputDir string) (string, error) {
	path := filepath.Join(outputDir, fmt.Sprintf("%s_%s_report.txt",
		fetch.SanitizeFilename(meta.CompanyName), meta.DocumentID))

	report := g.GenerateSummaryReport(meta, batch)
	if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}
	return path, nil
}

// FormatFileSize renders a byte count in human-readable units.
func FormatFileSize(size int64) string {
	if size == 0 {
		return "0 B"
	}

	units := []string{"B", "KB", "MB", "GB"}
	value := float64(size)
	unit := 0
	for value >= 1024 && unit < len(units)-1 {
		value /= 1024
		unit++
	}

	if unit == 0 {
		return fmt.Sprintf("%d %s", size, units[unit])
	}
	return fmt.Sprintf("%.1f %s", value, units[unit])
}
