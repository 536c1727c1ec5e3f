// Package cli implements the mira command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/casaverde-labs/mira-cli/internal/adapters/driven/config/file"
	"github.com/casaverde-labs/mira-cli/internal/core/domain"
	"github.com/casaverde-labs/mira-cli/internal/core/services"
	"github.com/casaverde-labs/mira-cli/internal/logger"
)

var (
	version = "dev"

	verbose   bool
	configDir string

	configStore     *file.ConfigStore
	settingsService *services.SettingsService
	appSettings     domain.AppSettings
)

// defaultEntityMarkers are the Miami areas the knowledge base covers.
// A query mentioning one of them routes toward local retrieval.
var defaultEntityMarkers = []string{
	"miami", "miami beach", "south beach", "brickell", "wynwood",
	"coral gables", "coconut grove", "little havana", "key biscayne",
	"downtown miami", "edgewater", "midtown", "doral", "aventura",
	"kendall", "pinecrest", "palmetto bay", "hialeah", "homestead",
	"sunny isles", "bal harbour", "north miami",
}

var rootCmd = &cobra.Command{
	Use:   "mira",
	Short: "Miami real-estate assistant",
	Long: `Mira answers Miami real-estate questions from a local knowledge base,
augmented with live web search for time-sensitive information.

Documents in the knowledge directory are chunked, embedded and indexed
on startup. Each question is routed to the knowledge base, the web, or
both, and the gathered context grounds the generated answer.`,
	SilenceUsage:      true,
	PersistentPreRunE: initApp,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.mira)")
}

// Execute runs the root command. v overrides the build version when
// set by the linker.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}

// initApp loads configuration and environment before any command runs.
func initApp(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	// A .env file in the working directory is a convenience for local
	// use; absence is not an error.
	_ = godotenv.Load()

	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	configStore = store
	settingsService = services.NewSettingsService(store)

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	appSettings = settings
	applyEnvKeys(&appSettings)

	return nil
}

// applyEnvKeys injects API keys from the environment. Keys are never
// written to the config file.
func applyEnvKeys(s *domain.AppSettings) {
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		s.Embedding.APIKey = k
		s.LLM.APIKey = k
	}
	if k := os.Getenv("SERPER_API_KEY"); k != "" {
		s.WebSearch.APIKey = k
	}
}
