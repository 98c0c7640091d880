package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kerbaras/ipofetch/pkg/config"
	"github.com/kerbaras/ipofetch/pkg/data"
	"github.com/kerbaras/ipofetch/pkg/fetch"
	"github.com/kerbaras/ipofetch/pkg/metadata"
	"github.com/kerbaras/ipofetch/pkg/parsers"
	"github.com/kerbaras/ipofetch/pkg/pdfmap"
	"github.com/kerbaras/ipofetch/pkg/services"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [url]",
	Short: "Download all chapters of a prospectus",
	Long:  "Download every chapter PDF of the prospectus page at the given URL, then generate metadata, a report and a page-number mapping",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		url := args[0]
		settings := config.Load()

		if output, _ := cmd.Flags().GetString("output"); output != "" {
			settings.OutputDir = output
		}
		if concurrent, _ := cmd.Flags().GetInt("concurrent"); concurrent > 0 {
			settings.MaxConcurrent = concurrent
		}
		verbose, _ := cmd.Flags().GetBool("verbose")

		if verbose {
			fmt.Printf("Starting download from: %s\n", url)
			fmt.Printf("Output directory: %s\n", settings.OutputDir)
		}

		opts := fetch.DefaultOptions()
		opts.MaxRetries = settings.RetryAttempts
		opts.Timeout = time.Duration(settings.RequestTimeout) * time.Second
		opts.UserAgent = settings.UserAgent

		downloader := fetch.NewBatchDownloader(fetch.NewFetcher(opts), settings.MaxConcurrent)
		defer downloader.Close()

		repo, err := data.NewRepository(settings.HistoryDB)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("failed to open history database: %w", err))
		}
		defer repo.Close()

		svc := services.NewProspectus(
			parsers.NewHKEXNews(),
			downloader,
			pdfmap.NewGenerator(pdfmap.DefaultCounter()),
			repo,
			settings.UserAgent,
		)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go renderProgress(downloader.GetProgressChannel(), verbose)

		result, err := svc.Fetch(ctx, url, settings.OutputDir)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("download failed: %w", err))
		}

		fmt.Printf("\nDownloaded %d/%d chapters (%s)\n",
			result.Batch.SuccessfulCount,
			result.Batch.TotalChapters,
			metadata.FormatFileSize(result.Batch.TotalBytes))

		for _, msg := range result.Batch.ErrorMessages {
			fmt.Printf("  error: %s\n", msg)
		}

		if verbose {
			fmt.Printf("Metadata: %s\n", result.MetadataPath)
			fmt.Printf("Report:   %s\n", result.ReportPath)
		}
		if result.MappingErr != nil {
			fmt.Printf("Mapping generation failed: %v\n", result.MappingErr)
		} else if result.MappingPath != "" {
			fmt.Printf("Mapping:  %s\n", result.MappingPath)
		}
	},
}

// renderProgress draws one bar tick per finished chapter.
func renderProgress(updates <-chan fetch.Progress, verbose bool) {
	var bar *progressbar.ProgressBar

	for progress := range updates {
		if bar == nil {
			bar = progressbar.NewOptions(-1,
				progressbar.OptionSetDescription("Downloading chapters"),
				progressbar.OptionShowCount(),
				progressbar.OptionThrottle(65*time.Millisecond),
			)
		}
		switch progress.Status {
		case "complete":
			bar.Add(1)
		case "error":
			bar.Add(1)
			if verbose {
				fmt.Printf("\n  chapter %d: %s\n", progress.ChapterNumber, progress.Err)
			}
		}
	}
}

func init() {
	fetchCmd.Flags().StringP("output", "o", "", "Output directory for downloaded files (default: ./prospectus/)")
	fetchCmd.Flags().IntP("concurrent", "c", 0, "Maximum concurrent downloads (default: 3)")
	fetchCmd.Flags().BoolP("verbose", "v", false, "Enable verbose output")
}
