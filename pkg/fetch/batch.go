package fetch

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kerbaras/ipofetch/pkg/data"
)

// Progress reports the state of one chapter within a running batch.
type Progress struct {
	ChapterNumber int
	ChapterTitle  string
	Status        string // "downloading", "complete", "error"
	Err           string
}

// BatchDownloader downloads all chapters of a prospectus concurrently,
// bounded by a counting semaphore, and aggregates a BatchResult whose
// outcomes are aligned to the input chapter order.
type BatchDownloader struct {
	fetcher       *Fetcher
	maxConcurrent int
	jitterMin     time.Duration
	jitterMax     time.Duration
	progressChan  chan Progress
	closeOnce     sync.Once
}

// NewBatchDownloader creates a batch downloader with concurrency limit
// maxConcurrent (default 3).
func NewBatchDownloader(fetcher *Fetcher, maxConcurrent int) *BatchDownloader {
	if maxConcurrent <= 0 {
		maxConcurrent = 3
	}
	return &BatchDownloader{
		fetcher:       fetcher,
		maxConcurrent: maxConcurrent,
		jitterMin:     time.Second,
		jitterMax:     3 * time.Second,
		progressChan:  make(chan Progress, 100),
	}
}

// SetJitter overrides the per-request delay range. The delay is applied
// after a concurrency slot is acquired, so it throttles the request rate
// seen by the server rather than task admission.
func (b *BatchDownloader) SetJitter(min, max time.Duration) {
	b.jitterMin = min
	b.jitterMax = max
}

// GetProgressChannel returns the channel for receiving progress updates.
func (b *BatchDownloader) GetProgressChannel() <-chan Progress {
	return b.progressChan
}

// DownloadAll downloads every chapter into outputDir, naming files via
// naming. A failed chapter never aborts its siblings: each failure is
// converted into a failed outcome and aggregated. An empty chapter list
// returns a zero result without touching the network or the filesystem.
func (b *BatchDownloader) DownloadAll(
	ctx context.Context,
	chapters []data.ChapterDescriptor,
	outputDir string,
	naming NamingContext,
) (data.BatchResult, error) {
	if len(chapters) == 0 {
		return data.BatchResult{Outcomes: []data.DownloadOutcome{}, ErrorMessages: []string{}}, nil
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return data.BatchResult{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	start := time.Now()
	outcomes := make([]data.DownloadOutcome, len(chapters))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, b.maxConcurrent)

	for i, chapter := range chapters {
		wg.Add(1)
		go func(i int, chapter data.ChapterDescriptor) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if err := sleep(ctx, b.jitter()); err != nil {
				outcomes[i] = data.DownloadOutcome{
					ErrorMessage: fmt.Sprintf("download cancelled: %v", err),
				}
				return
			}

			b.sendProgress(Progress{
				ChapterNumber: chapter.ChapterNumber,
				ChapterTitle:  chapter.ChapterTitle,
				Status:        "downloading",
			})

			destPath := filepath.Join(outputDir, naming.ChapterFilename(chapter))
			outcome := b.fetcher.FetchChapter(ctx, chapter.PDFURL, destPath)
			outcomes[i] = outcome

			if outcome.Success {
				b.sendProgress(Progress{
					ChapterNumber: chapter.ChapterNumber,
					ChapterTitle:  chapter.ChapterTitle,
					Status:        "complete",
				})
			} else {
				b.sendProgress(Progress{
					ChapterNumber: chapter.ChapterNumber,
					ChapterTitle:  chapter.ChapterTitle,
					Status:        "error",
					Err:           outcome.ErrorMessage,
				})
			}
		}(i, chapter)
	}

	wg.Wait()

	return assemble(chapters, outcomes, time.Since(start).Seconds()), nil
}

// assemble builds the aggregate result. Outcomes are already in input
// order; completion order is not observable here.
func assemble(chapters []data.ChapterDescriptor, outcomes []data.DownloadOutcome, elapsed float64) data.BatchResult {
	result := data.BatchResult{
		TotalChapters:    len(chapters),
		Outcomes:         outcomes,
		TotalElapsedTime: elapsed,
		ErrorMessages:    []string{},
	}

	for i, outcome := range outcomes {
		if outcome.Success {
			result.SuccessfulCount++
			result.TotalBytes += outcome.FileSize
		} else {
			result.FailedCount++
			if outcome.ErrorMessage != "" {
				result.ErrorMessages = append(result.ErrorMessages,
					fmt.Sprintf("Chapter %d: %s", chapters[i].ChapterNumber, outcome.ErrorMessage))
			}
		}
	}

	return result
}

func (b *BatchDownloader) jitter() time.Duration {
	if b.jitterMax <= b.jitterMin {
		return b.jitterMin
	}
	return b.jitterMin + time.Duration(rand.Int64N(int64(b.jitterMax-b.jitterMin)))
}

// sendProgress sends a progress update (non-blocking).
func (b *BatchDownloader) sendProgress(progress Progress) {
	select {
	case b.progressChan <- progress:
	default:
		// Channel full, skip this update
	}
}

// Close releases the progress channel.
func (b *BatchDownloader) Close() {
	b.closeOnce.Do(func() { close(b.progressChan) })
}
