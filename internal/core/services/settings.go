package services

import (
	"fmt"

	"github.com/casaverde-labs/mira-cli/internal/core/domain"
	"github.com/casaverde-labs/mira-cli/internal/core/ports/driven"
	"github.com/casaverde-labs/mira-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyKnowledgeDir    = "knowledge.dir"
	keyChunkSize       = "chunking.size"
	keyChunkOverlap    = "chunking.overlap"
	keyRetrievalTopK   = "retrieval.top_k"
	keyRetrievalScore  = "retrieval.min_score"
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedDims       = "embedding.dimensions"
	keyLLMProvider     = "llm.provider"
	keyLLMModel        = "llm.model"
	keyLLMBaseURL      = "llm.base_url"
	keyWebResults      = "web_search.results"
	keyContextMaxUnits = "context.max_units"
	keyContextHistory  = "context.history_turns"
)

// SettingsService manages application settings on top of the config
// store. API keys are deliberately not stored here; they come from the
// environment.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current settings, falling back to defaults for unset
// keys.
func (s *SettingsService) Get() (domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()

	settings.KnowledgeDir = s.getString(keyKnowledgeDir, settings.KnowledgeDir)
	settings.Chunking.Size = s.getInt(keyChunkSize, settings.Chunking.Size)
	settings.Chunking.Overlap = s.getIntAllowZero(keyChunkOverlap, settings.Chunking.Overlap)
	settings.Retrieval.TopK = s.getInt(keyRetrievalTopK, settings.Retrieval.TopK)
	settings.Retrieval.MinScore = s.getFloat(keyRetrievalScore, settings.Retrieval.MinScore)
	settings.Embedding.Provider = s.getProvider(keyEmbedProvider, settings.Embedding.Provider)
	settings.Embedding.Model = s.getString(keyEmbedModel, settings.Embedding.Model)
	settings.Embedding.BaseURL = s.configStore.GetString(keyEmbedBaseURL)
	settings.Embedding.Dimensions = s.getInt(keyEmbedDims, settings.Embedding.Dimensions)
	settings.LLM.Provider = s.getProvider(keyLLMProvider, settings.LLM.Provider)
	settings.LLM.Model = s.getString(keyLLMModel, settings.LLM.Model)
	settings.LLM.BaseURL = s.configStore.GetString(keyLLMBaseURL)
	settings.WebSearch.Results = s.getInt(keyWebResults, settings.WebSearch.Results)
	settings.Context.MaxUnits = s.getInt(keyContextMaxUnits, settings.Context.MaxUnits)
	settings.Context.HistoryTurns = s.getInt(keyContextHistory, settings.Context.HistoryTurns)

	return settings, nil
}

// Save validates and persists settings.
func (s *SettingsService) Save(settings domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{keyKnowledgeDir, settings.KnowledgeDir},
		{keyChunkSize, settings.Chunking.Size},
		{keyChunkOverlap, settings.Chunking.Overlap},
		{keyRetrievalTopK, settings.Retrieval.TopK},
		{keyRetrievalScore, settings.Retrieval.MinScore},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedDims, settings.Embedding.Dimensions},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyWebResults, settings.WebSearch.Results},
		{keyContextMaxUnits, settings.Context.MaxUnits},
		{keyContextHistory, settings.Context.HistoryTurns},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

func (s *SettingsService) getString(key, fallback string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return fallback
}

func (s *SettingsService) getInt(key string, fallback int) int {
	if v := s.configStore.GetInt(key); v > 0 {
		return v
	}
	return fallback
}

// getIntAllowZero distinguishes an explicit zero from an unset key.
func (s *SettingsService) getIntAllowZero(key string, fallback int) int {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetInt(key)
	}
	return fallback
}

func (s *SettingsService) getFloat(key string, fallback float64) float64 {
	if v := s.configStore.GetFloat(key); v > 0 {
		return v
	}
	return fallback
}

func (s *SettingsService) getProvider(key string, fallback domain.Provider) domain.Provider {
	switch domain.Provider(s.configStore.GetString(key)) {
	case domain.ProviderOpenAI:
		return domain.ProviderOpenAI
	case domain.ProviderOllama:
		return domain.ProviderOllama
	case domain.ProviderHashing:
		return domain.ProviderHashing
	default:
		return fallback
	}
}
