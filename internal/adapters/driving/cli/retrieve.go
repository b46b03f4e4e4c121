package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/praxos-ai/groundwork/internal/core/domain"
)

var (
	retrieveTopK int
	retrieveJSON bool
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Find the passages most relevant to a query",
	Long: `Embeds the query, searches the vector index and re-ranks the
candidates with maximal marginal relevance, trading relevance against
diversity. Prints the selected passages without calling the LLM.`,
	Args: cobra.ExactArgs(1),
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().IntVarP(&retrieveTopK, "top-k", "k", 0, "number of passages (0 = configured default)")
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	result, err := retrievalService.Retrieve(cmd.Context(), args[0], retrieveTopK)
	if err != nil {
		return fmt.Errorf("retrieve failed: %w", err)
	}

	if retrieveJSON {
		return outputRetrieveJSON(cmd, result)
	}
	return outputRetrieveText(cmd, result)
}

func outputRetrieveJSON(cmd *cobra.Command, result domain.RetrievalResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputRetrieveText(cmd *cobra.Command, result domain.RetrievalResult) error {
	if len(result.Chunks) == 0 {
		cmd.Println("No relevant passages found.")
		return nil
	}

	for _, c := range result.Chunks {
		cmd.Printf("[%d] %s (relevance %.3f)\n", c.DiversityRank+1, c.Chunk.ID, c.Relevance)
		cmd.Println(c.Chunk.Content)
		cmd.Println()
	}
	return nil
}
