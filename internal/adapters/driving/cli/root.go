// Package cli provides the cobra command tree. Commands depend on the
// driving ports; the wiring of concrete adapters happens once per
// invocation in initServices.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/praxos-ai/groundwork/internal/adapters/driven/ai"
	configfile "github.com/praxos-ai/groundwork/internal/adapters/driven/config/file"
	"github.com/praxos-ai/groundwork/internal/adapters/driven/storage/sqlite"
	"github.com/praxos-ai/groundwork/internal/chunker"
	"github.com/praxos-ai/groundwork/internal/core/domain"
	"github.com/praxos-ai/groundwork/internal/core/ports/driving"
	"github.com/praxos-ai/groundwork/internal/core/services"
	"github.com/praxos-ai/groundwork/internal/logger"
	"github.com/praxos-ai/groundwork/internal/tokens"
)

// version is set by Execute.
var version = "dev"

// Persistent flags.
var (
	configPath string
	dataDir    string
	verbose    bool
)

// Services wired by initServices. Tests may inject their own.
var (
	ingestService    driving.IngestService
	retrievalService driving.RetrievalService
	chatService      driving.ChatService
	appSettings      domain.Settings

	closers []io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "groundwork",
	Short: "Grounded question answering over your documents",
	Long: `Groundwork ingests documents, indexes them for semantic retrieval and
answers questions grounded in their content, with per-conversation memory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if cmd.Name() == "version" {
			return nil
		}
		return initServices(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.groundwork/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.groundwork/data)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging to stderr")
}

// Execute runs the root command. Interrupt signals cancel the command
// context so long-running commands shut down cleanly.
func Execute(v string) error {
	version = v
	defer closeServices()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

// initServices wires the concrete adapters behind the driving ports.
// It is a no-op when services were already injected (by tests).
func initServices(cmd *cobra.Command) error {
	if ingestService != nil && retrievalService != nil && chatService != nil {
		return nil
	}

	settingsStore, err := configfile.NewSettingsStore(configPath)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	settings, err := settingsStore.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	appSettings = settings
	logger.Debug("Config loaded from %s", settingsStore.Path())

	embedder, err := ai.CreateEmbeddingService(settings)
	if err != nil {
		return fmt.Errorf("embedding service: %w", err)
	}
	closers = append(closers, embedder)

	llm, err := ai.CreateLLMService(settings)
	if err != nil {
		return fmt.Errorf("LLM service: %w", err)
	}
	closers = append(closers, llm)

	vectorIndex, err := ai.CreateVectorIndex(cmd.Context(), settings, embedder.Dimensions())
	if err != nil {
		return fmt.Errorf("vector index: %w", err)
	}
	closers = append(closers, vectorIndex)

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	closers = append(closers, store)
	docStore := store.DocumentStore()
	convStore := store.ConversationStore(settings.Memory.WindowSize)

	splitter, err := chunker.New(settings.Chunking, embedder)
	if err != nil {
		return fmt.Errorf("chunker: %w", err)
	}

	ingestService = services.NewIngesterService(
		docStore, vectorIndex, embedder, splitter,
		settings.MaxDocumentBytes, settings.Providers.Retry,
	)
	retrievalService = services.NewRetrieverService(
		embedder, vectorIndex, docStore,
		settings.Retrieval, settings.Providers.Retry,
	)
	chatService = services.NewChatService(
		retrievalService, convStore, llm,
		tokens.NewCounter(settings.Providers.LLMModel),
		services.ChatConfig{
			CompanyName: settings.CompanyName,
			Memory:      settings.Memory,
			Prompt:      settings.Prompt,
			CallTimeout: settings.Providers.CallTimeout,
			Retry:       settings.Providers.Retry,
		},
	)

	return nil
}

// closeServices releases everything initServices opened.
func closeServices() {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			logger.Warn("Close failed: %v", err)
		}
	}
	closers = nil
}
