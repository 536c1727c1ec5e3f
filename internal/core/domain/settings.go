package domain

import "fmt"

// Provider identifies an embedding or LLM backend.
type Provider string

// Known providers.
const (
	ProviderOpenAI  Provider = "openai"
	ProviderOllama  Provider = "ollama"
	ProviderHashing Provider = "hashing"
)

// String returns the provider name.
func (p Provider) String() string { return string(p) }

// ChunkingSettings configure how documents are split.
type ChunkingSettings struct {
	// Size is the maximum chunk length in runes.
	Size int

	// Overlap is the number of runes shared between consecutive
	// chunks. Must be non-negative and smaller than Size.
	Overlap int
}

// RetrievalSettings configure query-time retrieval.
type RetrievalSettings struct {
	// TopK is the number of candidates requested from the index.
	TopK int

	// MinScore filters out low-similarity matches so that
	// irrelevant-but-nonzero cosine hits never reach generation.
	MinScore float64
}

// EmbeddingSettings configure the embedding capability.
type EmbeddingSettings struct {
	Provider   Provider
	Model      string
	BaseURL    string
	APIKey     string
	Dimensions int
}

// LLMSettings configure the text generation capability.
type LLMSettings struct {
	Provider Provider
	Model    string
	BaseURL  string
	APIKey   string
}

// WebSearchSettings configure the external search provider.
type WebSearchSettings struct {
	APIKey string

	// Results is the number of snippets requested per query.
	Results int
}

// ContextSettings bound the assembled grounding payload.
type ContextSettings struct {
	// MaxUnits is the payload budget in runes.
	MaxUnits int

	// HistoryTurns is the number of recent conversation turns
	// considered for assembly.
	HistoryTurns int
}

// AppSettings is the root application configuration.
type AppSettings struct {
	// KnowledgeDir is the directory scanned for documents.
	KnowledgeDir string

	Chunking  ChunkingSettings
	Retrieval RetrievalSettings
	Embedding EmbeddingSettings
	LLM       LLMSettings
	WebSearch WebSearchSettings
	Context   ContextSettings
}

// DefaultAppSettings returns the default configuration. The chunking
// defaults mirror the knowledge-base ingestion the engine was built
// for: 1000-rune chunks with 200 runes of overlap.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		KnowledgeDir: "./knowledge",
		Chunking:     ChunkingSettings{Size: 1000, Overlap: 200},
		Retrieval:    RetrievalSettings{TopK: 5, MinScore: 0.3},
		Embedding: EmbeddingSettings{
			Provider:   ProviderHashing,
			Model:      "hashing-bow",
			Dimensions: 384,
		},
		LLM: LLMSettings{
			Provider: ProviderOpenAI,
			Model:    "gpt-4o-mini",
		},
		WebSearch: WebSearchSettings{Results: 5},
		Context:   ContextSettings{MaxUnits: 8000, HistoryTurns: 6},
	}
}

// Validate checks construction-time invariants. Violations are fatal
// and reported as ErrInvalidConfig.
func (s AppSettings) Validate() error {
	if s.Chunking.Size <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidConfig, s.Chunking.Size)
	}
	if s.Chunking.Overlap < 0 || s.Chunking.Overlap >= s.Chunking.Size {
		return fmt.Errorf("%w: overlap %d must be in [0, %d)", ErrInvalidConfig, s.Chunking.Overlap, s.Chunking.Size)
	}
	if s.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: top-k must be positive, got %d", ErrInvalidConfig, s.Retrieval.TopK)
	}
	if s.Embedding.Dimensions <= 0 {
		return fmt.Errorf("%w: embedding dimensions must be positive, got %d", ErrInvalidConfig, s.Embedding.Dimensions)
	}
	if s.Context.MaxUnits <= 0 {
		return fmt.Errorf("%w: context budget must be positive, got %d", ErrInvalidConfig, s.Context.MaxUnits)
	}
	return nil
}
