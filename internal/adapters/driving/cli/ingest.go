package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest a document or directory",
	Long: `Chunks, embeds and indexes the given file, or every supported file
(.txt, .md) under the given directory. Re-ingesting an unchanged file is
a no-op; changed files supersede their earlier version atomically.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ids, err := ingestService.IngestPath(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Ingested %d document(s)\n", len(ids))
	for _, id := range ids {
		cmd.Printf("  %s\n", id)
	}
	return nil
}
