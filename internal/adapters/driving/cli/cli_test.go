package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casaverde-labs/mira-cli/internal/adapters/driven/config/file"
	"github.com/casaverde-labs/mira-cli/internal/core/domain"
	"github.com/casaverde-labs/mira-cli/internal/core/services"
)

// execute runs the root command against a temp config dir and returns
// the combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append([]string{"--config-dir", t.TempDir()}, args...))

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "mira version")
}

func TestSettingsShow_Defaults(t *testing.T) {
	out, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "knowledge.dir")
	assert.Contains(t, out, "retrieval.top_k")
	assert.Contains(t, out, "embedding.provider")
}

func TestSettingsSet_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"--config-dir", dir, "settings", "set", "retrieval.top_k", "8"})
	require.NoError(t, rootCmd.Execute())

	// A fresh store sees the persisted value.
	store, err := file.NewConfigStore(dir)
	require.NoError(t, err)
	s, err := services.NewSettingsService(store).Get()
	require.NoError(t, err)
	assert.Equal(t, 8, s.Retrieval.TopK)
}

func TestSettingsSet_UnknownKey(t *testing.T) {
	_, err := execute(t, "settings", "set", "no.such.key", "1")
	assert.Error(t, err)
}

func TestApplySetting(t *testing.T) {
	s := domain.DefaultAppSettings()

	require.NoError(t, applySetting(&s, "knowledge.dir", "/data/kb"))
	assert.Equal(t, "/data/kb", s.KnowledgeDir)

	require.NoError(t, applySetting(&s, "chunking.size", "800"))
	assert.Equal(t, 800, s.Chunking.Size)

	require.NoError(t, applySetting(&s, "retrieval.min_score", "0.45"))
	assert.InDelta(t, 0.45, s.Retrieval.MinScore, 1e-9)

	require.NoError(t, applySetting(&s, "llm.provider", "ollama"))
	assert.Equal(t, domain.ProviderOllama, s.LLM.Provider)

	err := applySetting(&s, "chunking.size", "not-a-number")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = applySetting(&s, "bogus", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApplyEnvKeys(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("SERPER_API_KEY", "serper-test")

	s := domain.DefaultAppSettings()
	applyEnvKeys(&s)

	assert.Equal(t, "sk-test", s.Embedding.APIKey)
	assert.Equal(t, "sk-test", s.LLM.APIKey)
	assert.Equal(t, "serper-test", s.WebSearch.APIKey)
}

func TestBuildEmbedder_Providers(t *testing.T) {
	s := domain.DefaultAppSettings()

	// Hashing needs no key.
	emb, err := buildEmbedder(s)
	require.NoError(t, err)
	assert.Equal(t, s.Embedding.Dimensions, emb.Dimensions())

	// OpenAI without a key is a config error.
	s.Embedding.Provider = domain.ProviderOpenAI
	s.Embedding.APIKey = ""
	_, err = buildEmbedder(s)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	// Unknown provider is rejected.
	s.Embedding.Provider = domain.Provider("mystery")
	_, err = buildEmbedder(s)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}
