package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casaverde-labs/mira-cli/internal/core/domain"
)

func TestSettingsGet_Defaults(t *testing.T) {
	svc := NewSettingsService(newMemConfigStore())

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), settings)
}

func TestSettingsGet_StoredValuesOverrideDefaults(t *testing.T) {
	store := newMemConfigStore()
	require.NoError(t, store.Set(keyChunkSize, 500))
	require.NoError(t, store.Set(keyRetrievalScore, 0.5))
	require.NoError(t, store.Set(keyEmbedProvider, "ollama"))

	svc := NewSettingsService(store)
	settings, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, 500, settings.Chunking.Size)
	assert.Equal(t, 0.5, settings.Retrieval.MinScore)
	assert.Equal(t, domain.ProviderOllama, settings.Embedding.Provider)
	// Untouched keys keep their defaults.
	assert.Equal(t, domain.DefaultAppSettings().Retrieval.TopK, settings.Retrieval.TopK)
}

func TestSettingsGet_ExplicitZeroOverlapRespected(t *testing.T) {
	store := newMemConfigStore()
	require.NoError(t, store.Set(keyChunkOverlap, 0))

	svc := NewSettingsService(store)
	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, settings.Chunking.Overlap)
}

func TestSettingsGet_UnknownProviderFallsBack(t *testing.T) {
	store := newMemConfigStore()
	require.NoError(t, store.Set(keyLLMProvider, "mainframe"))

	svc := NewSettingsService(store)
	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings().LLM.Provider, settings.LLM.Provider)
}

func TestSettingsSave_RoundTrip(t *testing.T) {
	svc := NewSettingsService(newMemConfigStore())

	want := domain.DefaultAppSettings()
	want.KnowledgeDir = "/data/kb"
	want.Chunking = domain.ChunkingSettings{Size: 800, Overlap: 100}
	want.Retrieval = domain.RetrievalSettings{TopK: 3, MinScore: 0.4}
	want.LLM.Model = "llama3.2"

	require.NoError(t, svc.Save(want))

	got, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSettingsSave_RejectsInvalid(t *testing.T) {
	svc := NewSettingsService(newMemConfigStore())

	bad := domain.DefaultAppSettings()
	bad.Chunking.Overlap = bad.Chunking.Size
	assert.ErrorIs(t, svc.Save(bad), domain.ErrInvalidConfig)
}
