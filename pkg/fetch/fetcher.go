package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/kerbaras/ipofetch/pkg/data"
)

// Options configures the retrying fetcher.
type Options struct {
	// MaxRetries is the attempt budget per chapter.
	// Default: 3
	MaxRetries int

	// Timeout for individual requests.
	// Default: 30s
	Timeout time.Duration

	// UserAgent sent with every request.
	UserAgent string

	// BackoffUnit scales the exponential backoff for transient failures
	// (unit * 2^attempt). Default: 1s. Tests shrink it.
	BackoffUnit time.Duration

	// RateLimitUnit scales the linear wait after a 429
	// (unit * (attempt+1)). Default: 60s. Tests shrink it.
	RateLimitUnit time.Duration
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		MaxRetries:    3,
		Timeout:       30 * time.Second,
		UserAgent:     "IPOFetch/1.0.0 (Research Tool; Contact: research@example.com)",
		BackoffUnit:   time.Second,
		RateLimitUnit: 60 * time.Second,
	}
}

// Fetcher retrieves a single remote resource to a local file with a
// bounded retry budget and status-code-aware backoff.
type Fetcher struct {
	client *http.Client
	opts   Options
}

func NewFetcher(opts Options) *Fetcher {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.BackoffUnit <= 0 {
		opts.BackoffUnit = time.Second
	}
	if opts.RateLimitUnit <= 0 {
		opts.RateLimitUnit = 60 * time.Second
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			// Connect timeout stays below the total request timeout so a
			// dead host fails fast and counts as a retryable transport error.
			Timeout: opts.Timeout / 3,
		}).DialContext,
		IdleConnTimeout: 90 * time.Second,
	}

	return &Fetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		opts: opts,
	}
}

// FetchChapter downloads one resource to destPath and reports the outcome.
// Chapter-level failures are returned inside the outcome, never as an
// error; the batch layer aggregates them.
//
// If destPath already exists the fetch is skipped and reported as an
// immediate success with the existing file's size, so a re-run of a
// partially completed batch costs no network requests for finished files.
func (f *Fetcher) FetchChapter(ctx context.Context, url, destPath string) data.DownloadOutcome {
	if info, err := os.Stat(destPath); err == nil {
		return data.DownloadOutcome{
			Success:   true,
			LocalPath: destPath,
			FileSize:  info.Size(),
		}
	}

	start := time.Now()
	var lastErr error

	for attempt := 0; attempt < f.opts.MaxRetries; attempt++ {
		body, err := f.get(ctx, url)
		if err == nil {
			if werr := writeFile(destPath, body); werr != nil {
				return failure(start, fmt.Sprintf("failed to write %s: %v", destPath, werr))
			}
			return data.DownloadOutcome{
				Success:     true,
				LocalPath:   destPath,
				FileSize:    int64(len(body)),
				ElapsedTime: time.Since(start).Seconds(),
			}
		}

		var wait time.Duration
		switch e := err.(type) {
		case *statusError:
			if e.code == http.StatusNotFound {
				// Chapter genuinely absent, retrying is pointless.
				return failure(start, fmt.Sprintf("chapter not found (404): %s", url))
			}
			if e.code == http.StatusTooManyRequests {
				wait = f.opts.RateLimitUnit * time.Duration(attempt+1)
			} else {
				wait = f.opts.BackoffUnit * (1 << uint(attempt))
			}
		default:
			wait = f.opts.BackoffUnit * (1 << uint(attempt))
		}
		lastErr = err

		if attempt == f.opts.MaxRetries-1 {
			break
		}
		if err := sleep(ctx, wait); err != nil {
			return failure(start, fmt.Sprintf("download cancelled: %v", err))
		}
	}

	return failure(start, fmt.Sprintf("failed after %d attempts: %v", f.opts.MaxRetries, lastErr))
}

// get performs one GET and returns the full body, or a *statusError for
// non-2xx responses.
func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{code: resp.StatusCode, status: resp.Status}
	}

	return io.ReadAll(resp.Body)
}

// writeFile persists the full body before the caller reports success.
// A failed write removes the partial file so a resumed batch does not
// mistake it for a finished chapter.
func writeFile(path string, body []byte) error {
	if err := os.WriteFile(path, body, 0o644); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

// sleep suspends for d or until ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func failure(start time.Time, msg string) data.DownloadOutcome {
	return data.DownloadOutcome{
		ElapsedTime:  time.Since(start).Seconds(),
		ErrorMessage: msg,
	}
}

type statusError struct {
	code   int
	status string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.status)
}
