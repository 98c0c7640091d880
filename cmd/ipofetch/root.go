package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kerbaras/ipofetch/pkg/metadata"
)

var rootCmd = &cobra.Command{
	Use:   "ipofetch",
	Short: "Download IPO prospectus PDFs from stock exchanges",
	Long:  "A CLI tool for downloading multi-chapter IPO prospectus PDFs from HKEXnews, with metadata and page-number mapping generation",
	Run: func(cmd *cobra.Command, args []string) {
		if version, _ := cmd.Flags().GetBool("version"); version {
			fmt.Printf("IPOFetch version %s\n", metadata.ToolVersion)
			return
		}
		cmd.Help()
	},
}

func init() {
	rootCmd.Flags().Bool("version", false, "Show version information and exit")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(mappingCmd)
	rootCmd.AddCommand(listCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
