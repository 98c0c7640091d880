package metadata

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kerbaras/ipofetch/pkg/data"
)

func sampleBatch() ([]data.ChapterDescriptor, data.BatchResult) {
	chapters := []data.ChapterDescriptor{
		{ChapterNumber: 1, ChapterTitle: "Cover", PDFURL: "https://example.com/c01.pdf"},
		{ChapterNumber: 2, ChapterTitle: "Summary", PDFURL: "https://example.com/c02.pdf"},
		{ChapterNumber: 3, ChapterTitle: "Risk Factors", PDFURL: "https://example.com/c03.pdf"},
	}
	batch := data.BatchResult{
		TotalChapters:   3,
		SuccessfulCount: 2,
		FailedCount:     1,
		Outcomes: []data.DownloadOutcome{
			{Success: true, LocalPath: "/out/c01.pdf", FileSize: 1024},
			{Success: false, ErrorMessage: "chapter not found (404): https://example.com/c02.pdf"},
			{Success: true, LocalPath: "/out/c03.pdf", FileSize: 2048},
		},
		TotalBytes:    3072,
		ErrorMessages: []string{"Chapter 2: chapter not found (404): https://example.com/c02.pdf"},
	}
	return chapters, batch
}

func sampleInfo() DocumentInfo {
	return DocumentInfo{
		DocumentID:  "2024010100123",
		CompanyName: "ACME Holdings",
		OriginalURL: "https://www1.hkexnews.hk/listedco/2024/0101/index.htm",
	}
}

func TestGenerateDocumentMetadata(t *testing.T) {
	chapters, batch := sampleBatch()

	meta := NewGenerator().GenerateDocumentMetadata(sampleInfo(), chapters, batch)

	if meta.TotalChapters != 3 {
		t.Errorf("Expected TotalChapters 3, got %d", meta.TotalChapters)
	}
	if len(meta.Chapters) != 2 {
		t.Fatalf("Expected 2 chapter entries (successes only), got %d", len(meta.Chapters))
	}
	if meta.Chapters[0].ChapterNumber != 1 {
		t.Errorf("Expected first entry chapter 1, got %d", meta.Chapters[0].ChapterNumber)
	}
	if meta.Chapters[1].ChapterNumber != 3 {
		t.Errorf("Expected second entry chapter 3, got %d", meta.Chapters[1].ChapterNumber)
	}
	if meta.Chapters[1].FileSize != 2048 {
		t.Errorf("Expected FileSize 2048, got %d", meta.Chapters[1].FileSize)
	}
	if meta.ToolVersion != ToolVersion {
		t.Errorf("Expected ToolVersion %q, got %q", ToolVersion, meta.ToolVersion)
	}
}

func TestSaveMetadata(t *testing.T) {
	chapters, batch := sampleBatch()
	g := NewGenerator()
	meta := g.GenerateDocumentMetadata(sampleInfo(), chapters, batch)

	dir := t.TempDir()
	path, err := g.SaveMetadata(meta, dir, "")
	if err != nil {
		t.Fatalf("SaveMetadata() error = %v", err)
	}

	want := "ACME Holdings_2024010100123_metadata.json"
	if filepath.Base(path) != want {
		t.Errorf("Expected filename %q, got %q", want, filepath.Base(path))
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Reading metadata file: %v", err)
	}

	var decoded data.DocumentMetadata
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Metadata file is not valid JSON: %v", err)
	}
	if decoded.DocumentID != "2024010100123" {
		t.Errorf("Expected DocumentID round-trip, got %q", decoded.DocumentID)
	}
	if len(decoded.Chapters) != 2 {
		t.Errorf("Expected 2 chapters after round-trip, got %d", len(decoded.Chapters))
	}
}

func TestGenerateSummaryReport(t *testing.T) {
	chapters, batch := sampleBatch()
	g := NewGenerator()
	meta := g.GenerateDocumentMetadata(sampleInfo(), chapters, batch)

	report := g.GenerateSummaryReport(meta, batch)

	for _, want := range []string{
		"ACME Holdings",
		"2024010100123",
		"Total chapters:  3",
		"Successful:      2",
		"Failed:          1",
		"66.7%",
		"3.0 KB",
		"Risk Factors",
		"chapter not found (404)",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("Report should contain %q:\n%s", want, report)
		}
	}
}

func TestSaveReport(t *testing.T) {
	chapters, batch := sampleBatch()
	g := NewGenerator()
	meta := g.GenerateDocumentMetadata(sampleInfo(), chapters, batch)

	dir := t.TempDir()
	path, err := g.SaveReport(meta, batch, dir)
	if err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	if !strings.HasSuffix(path, "_report.txt") {
		t.Errorf("Expected report filename suffix '_report.txt', got %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Report file should exist: %v", err)
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1024 * 1024, "1.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, tt := range tests {
		if got := FormatFileSize(tt.size); got != tt.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}
