package data

// ChapterDescriptor identifies one chapter of a prospectus and where its
// PDF lives. Produced by a parser; immutable afterwards.
type ChapterDescriptor struct {
	ChapterNumber        int    // 1-based, defines download and mapping order
	ChapterTitle         string // display-safe title
	ChapterTitleOriginal string // source-language title, no filesystem constraints
	PDFURL               string
	RelativePath         string
}

// DownloadOutcome is the terminal result of one chapter download attempt.
type DownloadOutcome struct {
	Success      bool
	LocalPath    string // empty if failed
	FileSize     int64
	ElapsedTime  float64 // seconds
	ErrorMessage string
}

// BatchResult aggregates the outcomes of one batch of chapter downloads.
// Outcomes is aligned to the input chapter order by index.
type BatchResult struct {
	TotalChapters    int
	SuccessfulCount  int
	FailedCount      int
	Outcomes         []DownloadOutcome
	TotalBytes       int64
	TotalElapsedTime float64
	ErrorMessages    []string
}

// MappingEntry records where one chapter file starts in the stitched
// page numbering of the whole document.
type MappingEntry struct {
	Filename  string `json:"filename"`
	PageCount int    `json:"page_count"`
	StartPage int    `json:"start_page"`
}

// MappingDocument is the page-number mapping across all chapter PDFs of
// one prospectus. Persisted as {basename}_mapping.json.
type MappingDocument struct {
	Basename   string         `json:"basename"`
	TotalFiles int            `json:"total_files"`
	TotalPages int            `json:"total_pages"`
	Files      []MappingEntry `json:"files"`
}

// ChapterMetadata describes one successfully downloaded chapter.
type ChapterMetadata struct {
	DocumentID           string `json:"document_id"`
	CompanyName          string `json:"company_name"`
	CompanyNameOriginal  string `json:"company_name_original,omitempty"`
	ChapterNumber        int    `json:"chapter_number"`
	ChapterTitle         string `json:"chapter_title"`
	ChapterTitleOriginal string `json:"chapter_title_original,omitempty"`
	PDFURL               string `json:"pdf_url"`
	LocalPath            string `json:"local_path"`
	FileSize             int64  `json:"file_size"`
	DownloadTime         string `json:"download_time"`
	Language             string `json:"language"`
}

// DocumentMetadata describes one fetched prospectus document.
type DocumentMetadata struct {
	DocumentID          string            `json:"document_id"`
	CompanyName         string            `json:"company_name"`
	CompanyNameOriginal string            `json:"company_name_original,omitempty"`
	OriginalURL         string            `json:"original_url"`
	TotalChapters       int               `json:"total_chapters"`
	DownloadDate        string            `json:"download_date"`
	Language            string            `json:"language"`
	ExchangeType        string            `json:"exchange_type"`
	ToolVersion         string            `json:"tool_version"`
	Chapters            []ChapterMetadata `json:"chapters"`
}

// Document is one row of the local fetch history.
type Document struct {
	DocumentID      string
	CompanyName     string
	OriginalURL     string
	TotalChapters   int
	SuccessfulCount int
	OutputDir       string
	FetchedAt       string
}
