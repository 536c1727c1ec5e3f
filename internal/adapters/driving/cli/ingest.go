package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [dir]",
	Short: "Index the knowledge directory",
	Long: `Chunks, embeds and indexes every supported document (.txt, .pdf,
.docx) under the knowledge directory and reports the result. The index
is rebuilt from disk on every run, so this doubles as a validation pass
over the document collection.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	dir := appSettings.KnowledgeDir
	if len(args) == 1 {
		dir = args[0]
	}

	eng, err := buildEngine(appSettings)
	if err != nil {
		return err
	}

	report, err := eng.ingest.IngestDirectory(cmd.Context(), dir)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", dir, err)
	}

	cmd.Printf("Indexed %d documents (%d chunks, %d dimensions)\n",
		report.DocumentsIndexed, report.ChunksIndexed, eng.index.Dimensions())
	if len(report.Skipped) > 0 {
		cmd.Printf("Skipped %d:\n", len(report.Skipped))
		for _, path := range report.Skipped {
			cmd.Printf("  %s\n", path)
		}
	}
	return nil
}
