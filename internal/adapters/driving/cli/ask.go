package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var askConversationID string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question grounded in the ingested documents",
	Long: `Retrieves the most relevant passages, assembles them with the
conversation history into a bounded prompt and asks the configured LLM.
The exchange is recorded so follow-up questions can refer back to it.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard a conversation's memory",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func init() {
	askCmd.Flags().StringVarP(&askConversationID, "conversation", "c", "default", "conversation identifier")
	resetCmd.Flags().StringVarP(&askConversationID, "conversation", "c", "default", "conversation identifier")
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(resetCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	answer, err := chatService.Answer(cmd.Context(), askConversationID, args[0])
	if err != nil {
		return fmt.Errorf("answer failed: %w", err)
	}

	cmd.Println(answer.Text)
	if verbose && len(answer.CitedChunkIDs) > 0 {
		cmd.Println()
		cmd.Printf("Cited chunks: %v\n", answer.CitedChunkIDs)
	}
	return nil
}

func runReset(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	if err := chatService.ResetConversation(cmd.Context(), askConversationID); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}

	cmd.Printf("Conversation %q reset\n", askConversationID)
	return nil
}
