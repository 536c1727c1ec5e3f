package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	ollamaembed "github.com/casaverde-labs/mira-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/casaverde-labs/mira-cli/internal/adapters/driven/embedding/openai"

	"github.com/casaverde-labs/mira-cli/internal/adapters/driven/embedding/hashing"
	ollamallm "github.com/casaverde-labs/mira-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/casaverde-labs/mira-cli/internal/adapters/driven/llm/openai"
	"github.com/casaverde-labs/mira-cli/internal/adapters/driven/session/sqlite"
	"github.com/casaverde-labs/mira-cli/internal/adapters/driven/websearch/serper"
	"github.com/casaverde-labs/mira-cli/internal/chunker"
	"github.com/casaverde-labs/mira-cli/internal/core/domain"
	"github.com/casaverde-labs/mira-cli/internal/core/ports/driven"
	"github.com/casaverde-labs/mira-cli/internal/core/services"
	"github.com/casaverde-labs/mira-cli/internal/logger"
	"github.com/casaverde-labs/mira-cli/internal/normalisers"
	"github.com/casaverde-labs/mira-cli/internal/vectorindex/memory"
)

// engine bundles the ingestion and retrieval halves of the pipeline.
// The vector index lives in memory, so every command builds it fresh
// from the knowledge directory.
type engine struct {
	embedder  driven.EmbeddingService
	index     *memory.Index
	ingest    *services.IngestService
	retrieval *services.RetrievalService
}

// buildEngine wires the embedder, index, normalisers and chunker.
func buildEngine(settings domain.AppSettings) (*engine, error) {
	embedder, err := buildEmbedder(settings)
	if err != nil {
		return nil, err
	}

	index, err := memory.New(embedder.Dimensions())
	if err != nil {
		return nil, err
	}

	splitter, err := chunker.New(settings.Chunking.Size, settings.Chunking.Overlap)
	if err != nil {
		return nil, err
	}

	registry := normalisers.NewDefaultRegistry()
	return &engine{
		embedder:  embedder,
		index:     index,
		ingest:    services.NewIngestService(registry, splitter, embedder, index),
		retrieval: services.NewRetrievalService(embedder, index),
	}, nil
}

// buildEmbedder selects the embedding backend from settings.
func buildEmbedder(settings domain.AppSettings) (driven.EmbeddingService, error) {
	e := settings.Embedding
	switch e.Provider {
	case domain.ProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     e.APIKey,
			BaseURL:    e.BaseURL,
			Model:      e.Model,
			Dimensions: e.Dimensions,
		})
	case domain.ProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    e.BaseURL,
			Model:      e.Model,
			Dimensions: e.Dimensions,
		}), nil
	case domain.ProviderHashing:
		return hashing.New(e.Dimensions)
	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q", domain.ErrInvalidConfig, e.Provider)
	}
}

// buildLLM selects the generation backend from settings.
func buildLLM(settings domain.AppSettings) (driven.LLMService, error) {
	l := settings.LLM
	switch l.Provider {
	case domain.ProviderOpenAI:
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  l.APIKey,
			BaseURL: l.BaseURL,
			Model:   l.Model,
		})
	case domain.ProviderOllama:
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: l.BaseURL,
			Model:   l.Model,
		}), nil
	default:
		return nil, fmt.Errorf("%w: unknown LLM provider %q", domain.ErrInvalidConfig, l.Provider)
	}
}

// buildWebSearcher returns nil when no web search key is configured;
// web routes then degrade to the remaining sources.
func buildWebSearcher(settings domain.AppSettings) (driven.WebSearcher, error) {
	if settings.WebSearch.APIKey == "" {
		logger.Debug("no web search key configured, web routes will degrade")
		return nil, nil
	}
	return serper.New(serper.Config{APIKey: settings.WebSearch.APIKey})
}

// buildChat assembles the full question-answering pipeline: it indexes
// the knowledge directory and wires routing, web search, generation
// and session persistence. The returned cleanup closes the session
// store.
func buildChat(ctx context.Context, settings domain.AppSettings, resumeID string) (*services.ChatService, *engine, func(), error) {
	eng, err := buildEngine(settings)
	if err != nil {
		return nil, nil, nil, err
	}

	if info, err := os.Stat(settings.KnowledgeDir); err == nil && info.IsDir() {
		report, err := eng.ingest.IngestDirectory(ctx, settings.KnowledgeDir)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("index knowledge base: %w", err)
		}
		logger.Info("knowledge base ready: %d documents, %d chunks", report.DocumentsIndexed, report.ChunksIndexed)
	} else {
		logger.Warn("knowledge dir %s not found, answering without local retrieval", settings.KnowledgeDir)
	}

	llm, err := buildLLM(settings)
	if err != nil {
		return nil, nil, nil, err
	}
	web, err := buildWebSearcher(settings)
	if err != nil {
		return nil, nil, nil, err
	}
	assembler, err := services.NewAssembler(settings.Context.MaxUnits, settings.Context.HistoryTurns)
	if err != nil {
		return nil, nil, nil, err
	}

	sessions, err := sqlite.New(sessionDBPath())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open session store: %w", err)
	}
	conversation := services.NewConversationStore(sessions)
	if resumeID != "" {
		if err := conversation.Resume(ctx, resumeID); err != nil {
			sessions.Close()
			return nil, nil, nil, fmt.Errorf("resume session %s: %w", resumeID, err)
		}
	}

	router := services.NewRuleRouter(defaultEntityMarkers)
	chat := services.NewChatService(
		eng.retrieval, router, web, llm, assembler, conversation, settings,
	)

	cleanup := func() { _ = sessions.Close() }
	return chat, eng, cleanup, nil
}

// sessionDBPath places the session database next to the config file.
func sessionDBPath() string {
	return filepath.Join(filepath.Dir(configStore.Path()), "sessions.db")
}
