package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/casaverde-labs/mira-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the knowledge directory, chunking, retrieval,
provider and context settings. API keys are read from the environment
(OPENAI_API_KEY, SERPER_API_KEY) and never stored in the config file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Sets one configuration value and persists it. Run 'mira settings'
to see the available keys.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	s, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}

	cmd.Println("Current settings")
	cmd.Println()
	cmd.Printf("  %-24s %s\n", "knowledge.dir", s.KnowledgeDir)
	cmd.Printf("  %-24s %d\n", "chunking.size", s.Chunking.Size)
	cmd.Printf("  %-24s %d\n", "chunking.overlap", s.Chunking.Overlap)
	cmd.Printf("  %-24s %d\n", "retrieval.top_k", s.Retrieval.TopK)
	cmd.Printf("  %-24s %.2f\n", "retrieval.min_score", s.Retrieval.MinScore)
	cmd.Printf("  %-24s %s\n", "embedding.provider", s.Embedding.Provider)
	cmd.Printf("  %-24s %s\n", "embedding.model", s.Embedding.Model)
	cmd.Printf("  %-24s %d\n", "embedding.dimensions", s.Embedding.Dimensions)
	if s.Embedding.BaseURL != "" {
		cmd.Printf("  %-24s %s\n", "embedding.base_url", s.Embedding.BaseURL)
	}
	cmd.Printf("  %-24s %s\n", "llm.provider", s.LLM.Provider)
	cmd.Printf("  %-24s %s\n", "llm.model", s.LLM.Model)
	if s.LLM.BaseURL != "" {
		cmd.Printf("  %-24s %s\n", "llm.base_url", s.LLM.BaseURL)
	}
	cmd.Printf("  %-24s %d\n", "web_search.results", s.WebSearch.Results)
	cmd.Printf("  %-24s %d\n", "context.max_units", s.Context.MaxUnits)
	cmd.Printf("  %-24s %d\n", "context.history_turns", s.Context.HistoryTurns)
	cmd.Println()
	cmd.Printf("Config file: %s\n", configStore.Path())

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	s, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	if err := applySetting(&s, key, value); err != nil {
		return err
	}
	if err := settingsService.Save(s); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

// applySetting maps a dotted key to its settings field, parsing the
// value to the field's type.
func applySetting(s *domain.AppSettings, key, value string) error {
	switch key {
	case "knowledge.dir":
		s.KnowledgeDir = value
	case "chunking.size":
		return setInt(&s.Chunking.Size, key, value)
	case "chunking.overlap":
		return setInt(&s.Chunking.Overlap, key, value)
	case "retrieval.top_k":
		return setInt(&s.Retrieval.TopK, key, value)
	case "retrieval.min_score":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number, got %q", domain.ErrInvalidInput, key, value)
		}
		s.Retrieval.MinScore = f
	case "embedding.provider":
		s.Embedding.Provider = domain.Provider(value)
	case "embedding.model":
		s.Embedding.Model = value
	case "embedding.base_url":
		s.Embedding.BaseURL = value
	case "embedding.dimensions":
		return setInt(&s.Embedding.Dimensions, key, value)
	case "llm.provider":
		s.LLM.Provider = domain.Provider(value)
	case "llm.model":
		s.LLM.Model = value
	case "llm.base_url":
		s.LLM.BaseURL = value
	case "web_search.results":
		return setInt(&s.WebSearch.Results, key, value)
	case "context.max_units":
		return setInt(&s.Context.MaxUnits, key, value)
	case "context.history_turns":
		return setInt(&s.Context.HistoryTurns, key, value)
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	return nil
}

func setInt(target *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%w: %s must be an integer, got %q", domain.ErrInvalidInput, key, value)
	}
	*target = n
	return nil
}
