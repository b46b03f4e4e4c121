package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage ingested documents",
	Long:  `List or remove the documents in the corpus.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentRemoveCmd = &cobra.Command{
	Use:   "remove [doc-id]",
	Short: "Remove a document, its chunks and its vectors",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentRemove,
}

func init() {
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentRemoveCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	docs, err := ingestService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents ingested.")
		return nil
	}

	for _, doc := range docs {
		source := doc.SourcePath
		if source == "" {
			source = "(inline)"
		}
		cmd.Printf("%s  %s  %s\n", doc.ID, doc.IngestedAt.Format("2006-01-02 15:04"), source)
	}
	return nil
}

func runDocumentRemove(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	if err := ingestService.Remove(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("remove failed: %w", err)
	}

	cmd.Printf("Removed %s\n", args[0])
	return nil
}
