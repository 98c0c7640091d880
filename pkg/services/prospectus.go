package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kerbaras/ipofetch/pkg/data"
	"github.com/kerbaras/ipofetch/pkg/fetch"
	"github.com/kerbaras/ipofetch/pkg/metadata"
	"github.com/kerbaras/ipofetch/pkg/parsers"
	"github.com/kerbaras/ipofetch/pkg/pdfmap"
)

// Structural failures. Individual chapter failures never surface as
// errors; they live inside the batch result.
var (
	ErrUnsupportedURL = errors.New("services: URL is not supported by any parser")
	ErrNoChapters     = errors.New("services: no chapters found in the prospectus page")
	ErrNoDocumentID   = errors.New("services: cannot extract document ID from URL")
)

// HistoryRepository records completed fetches.
type HistoryRepository interface {
	SaveDocument(doc *data.Document) error
}

// Result is what one complete prospectus fetch produced.
type Result struct {
	Metadata     data.DocumentMetadata
	Batch        data.BatchResult
	MetadataPath string
	ReportPath   string
	MappingPath  string
	MappingErr   error // mapping failure does not undo the downloads
}

// Prospectus orchestrates one prospectus fetch end to end: page parse,
// chapter batch download, metadata, report, page mapping, history row.
type Prospectus struct {
	parser     parsers.Parser
	downloader *fetch.BatchDownloader
	meta       *metadata.Generator
	mapper     *pdfmap.Generator
	repo       HistoryRepository
	client     *http.Client
	userAgent  string
}

func NewProspectus(
	parser parsers.Parser,
	downloader *fetch.BatchDownloader,
	mapper *pdfmap.Generator,
	repo HistoryRepository,
	userAgent string,
) *Prospectus {
	return &Prospectus{
		parser:     parser,
		downloader: downloader,
		meta:       metadata.NewGenerator(),
		mapper:     mapper,
		repo:       repo,
		client:     &http.Client{Timeout: 30 * time.Second},
		userAgent:  userAgent,
	}
}

// Fetch downloads all chapters of the prospectus at pageURL into
// outputDir and writes the metadata, report and mapping artifacts.
func (p *Prospectus) Fetch(ctx context.Context, pageURL, outputDir string) (*Result, error) {
	if !p.parser.IsSupported(pageURL) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedURL, pageURL)
	}

	documentID, err := p.parser.ExtractDocumentID(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoDocumentID, pageURL)
	}

	htmlContent, err := p.fetchPage(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page content: %w", err)
	}

	chapters, err := p.parser.ExtractChapters(pageURL, htmlContent)
	if err != nil {
		return nil, err
	}
	if len(chapters) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoChapters, pageURL)
	}

	companyName := p.parser.ExtractCompanyName(htmlContent)
	if companyName == "" {
		companyName = "Unknown Company"
	}

	naming := fetch.NamingContext{CompanyName: companyName, DocumentID: documentID}
	batch, err := p.downloader.DownloadAll(ctx, chapters, outputDir, naming)
	if err != nil {
		return nil, err
	}

	info := metadata.DocumentInfo{
		DocumentID:          documentID,
		CompanyName:         companyName,
		CompanyNameOriginal: companyName,
		OriginalURL:         pageURL,
	}
	meta := p.meta.GenerateDocumentMetadata(info, chapters, batch)

	result := &Result{Metadata: meta, Batch: batch}

	result.MetadataPath, err = p.meta.SaveMetadata(meta, outputDir, "")
	if err != nil {
		return result, err
	}

	result.ReportPath, err = p.meta.SaveReport(meta, batch, outputDir)
	if err != nil {
		return result, err
	}

	// A mapping over a partially failed batch would still be wrong for
	// the missing chapters, but the fetched files and metadata stand on
	// their own, so mapping failures are reported rather than fatal.
	result.MappingPath, result.MappingErr = p.mapper.GenerateAndSave(outputDir, "", "")

	if p.repo != nil {
		record := &data.Document{
			DocumentID:      documentID,
			CompanyName:     companyName,
			OriginalURL:     pageURL,
			TotalChapters:   batch.TotalChapters,
			SuccessfulCount: batch.SuccessfulCount,
			OutputDir:       outputDir,
			FetchedAt:       time.Now().Format(time.RFC3339),
		}
		if err := p.repo.SaveDocument(record); err != nil {
			return result, fmt.Errorf("failed to record fetch history: %w", err)
		}
	}

	return result, nil
}

func (p *Prospectus) fetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status fetching page: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
