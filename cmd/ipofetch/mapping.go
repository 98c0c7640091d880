package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kerbaras/ipofetch/pkg/pdfmap"
)

var mappingCmd = &cobra.Command{
	Use:   "mapping [directory]",
	Short: "Generate a page-number mapping for downloaded chapter PDFs",
	Long:  "Scan a directory of chapter PDFs and write a {basename}_mapping.json describing each file's page count and cumulative start page",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := args[0]
		metadataFile, _ := cmd.Flags().GetString("metadata")
		outputFile, _ := cmd.Flags().GetString("output")

		generator := pdfmap.NewGenerator(pdfmap.DefaultCounter())
		path, err := generator.GenerateAndSave(dir, metadataFile, outputFile)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("mapping generation failed: %w", err))
		}

		fmt.Printf("Mapping written to %s\n", path)
	},
}

func init() {
	mappingCmd.Flags().StringP("metadata", "m", "", "Metadata filename whose stem becomes the mapping basename")
	mappingCmd.Flags().StringP("output", "o", "", "Output filename for the mapping (default: {basename}_mapping.json)")
}
