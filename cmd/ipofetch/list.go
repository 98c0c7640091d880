package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kerbaras/ipofetch/pkg/config"
	"github.com/kerbaras/ipofetch/pkg/data"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List previously fetched prospectus documents",
	Long:  "Display the local fetch history: every prospectus downloaded by this tool, with counts and output location",
	Run: func(cmd *cobra.Command, args []string) {
		settings := config.Load()

		repo, err := data.NewRepository(settings.HistoryDB)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("failed to open history database: %w", err))
		}
		defer repo.Close()

		docs, err := repo.ListDocuments()
		if err != nil {
			cobra.CheckErr(err)
		}

		if len(docs) == 0 {
			fmt.Println("No documents fetched yet. Use 'ipofetch fetch <url>' to download a prospectus.")
			return
		}

		fmt.Printf("Fetched documents (%d)\n\n", len(docs))
		fmt.Printf("%-15s %-30s %-10s %s\n", "DOCUMENT ID", "COMPANY", "CHAPTERS", "FETCHED")
		for _, doc := range docs {
			fmt.Printf("%-15s %-30s %3d/%-6d %s\n",
				doc.DocumentID,
				truncate(doc.CompanyName, 30),
				doc.SuccessfulCount,
				doc.TotalChapters,
				doc.FetchedAt,
			)
		}
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
