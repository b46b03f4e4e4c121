package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/praxos-ai/groundwork/internal/watcher"
)

var watchPath string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the corpus directory and keep the index current",
	Long: `Ingests the corpus directory, then watches it for changes. Created
and modified files are re-ingested, removed files are dropped from the
index. Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchPath, "path", "", "corpus directory (default from configuration)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	path := watchPath
	if path == "" {
		path = appSettings.CorpusPath
	}
	if path == "" {
		return errors.New("no corpus directory: pass --path or set corpus_path in the config")
	}

	w := watcher.New(ingestService, path, 0)
	err := w.Run(cmd.Context())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
