package services

import (
	"context"
	"sync"

	"github.com/casaverde-labs/mira-cli/internal/core/domain"
	"github.com/casaverde-labs/mira-cli/internal/core/ports/driven"
)

// vocabEmbedder is a deterministic test embedder: every distinct token
// gets its own dimension, so texts sharing words have positive cosine
// similarity and unrelated texts score zero. No network, no collisions
// for small test vocabularies.
type vocabEmbedder struct {
	mu    sync.Mutex
	dims  int
	vocab map[string]int

	// failures makes the first N calls fail with
	// domain.ErrEmbeddingUnavailable to exercise retry paths.
	failures int
}

func newVocabEmbedder(dims int) *vocabEmbedder {
	return &vocabEmbedder{dims: dims, vocab: make(map[string]int)}
}

func (e *vocabEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failures > 0 {
		e.failures--
		return nil, domain.ErrEmbeddingUnavailable
	}
	vec := make([]float32, e.dims)
	for _, tok := range tokeniseWords(text) {
		idx, ok := e.vocab[tok]
		if !ok {
			idx = len(e.vocab) % e.dims
			e.vocab[tok] = idx
		}
		vec[idx]++
	}
	return vec, nil
}

func (e *vocabEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		vec, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, vec)
	}
	return out, nil
}

func (e *vocabEmbedder) Dimensions() int              { return e.dims }
func (e *vocabEmbedder) ModelName() string            { return "vocab-test" }
func (e *vocabEmbedder) Ping(_ context.Context) error { return nil }
func (e *vocabEmbedder) Close() error                 { return nil }

// tokeniseWords lowercases and splits on non-alphanumerics.
func tokeniseWords(text string) []string {
	var words []string
	var cur []rune
	for _, r := range text {
		switch {
		case r >= 'A' && r <= 'Z':
			cur = append(cur, r+('a'-'A'))
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			cur = append(cur, r)
		default:
			if len(cur) > 0 {
				words = append(words, string(cur))
				cur = nil
			}
		}
	}
	if len(cur) > 0 {
		words = append(words, string(cur))
	}
	return words
}

// stubWebSearcher returns canned results and records queries.
type stubWebSearcher struct {
	mu      sync.Mutex
	results []driven.WebResult
	err     error
	queries []string
}

func (s *stubWebSearcher) Search(_ context.Context, query string, limit int) ([]driven.WebResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	if limit < len(s.results) {
		return s.results[:limit], nil
	}
	return s.results, nil
}

// stubLLM echoes a fixed reply and records the messages it was given.
type stubLLM struct {
	mu       sync.Mutex
	reply    string
	err      error
	messages [][]driven.ChatMessage
}

func (s *stubLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.GenerateOptions) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, messages)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubLLM) lastSystemPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.messages) == 0 {
		return ""
	}
	for _, m := range s.messages[len(s.messages)-1] {
		if m.Role == "system" {
			return m.Content
		}
	}
	return ""
}

func (s *stubLLM) ModelName() string            { return "llm-test" }
func (s *stubLLM) Ping(_ context.Context) error { return nil }
func (s *stubLLM) Close() error                 { return nil }

// memSessionStore keeps sessions in a map.
type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	saveErr  error
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *memSessionStore) Save(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.sessions[session.ID] = session
	return nil
}

func (s *memSessionStore) Load(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return session, nil
}

func (s *memSessionStore) Close() error { return nil }

// memConfigStore is an in-memory ConfigStore.
type memConfigStore struct {
	values map[string]any
}

func newMemConfigStore() *memConfigStore {
	return &memConfigStore{values: make(map[string]any)}
}

func (s *memConfigStore) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *memConfigStore) GetString(key string) string {
	if v, ok := s.values[key].(string); ok {
		return v
	}
	return ""
}

func (s *memConfigStore) GetInt(key string) int {
	switch v := s.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func (s *memConfigStore) GetFloat(key string) float64 {
	switch v := s.values[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func (s *memConfigStore) GetBool(key string) bool {
	if v, ok := s.values[key].(bool); ok {
		return v
	}
	return false
}

func (s *memConfigStore) Set(key string, value any) error {
	s.values[key] = value
	return nil
}
