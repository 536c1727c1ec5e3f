package hashing

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casaverde-labs/mira-cli/internal/core/domain"
)

func TestNew_InvalidDimensions(t *testing.T) {
	_, err := New(0)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestEmbed_Deterministic(t *testing.T) {
	svc, err := New(DefaultDimensions)
	require.NoError(t, err)
	ctx := context.Background()

	text := "Coral Gables median price is $1,275,000"
	first, err := svc.Embed(ctx, text)
	require.NoError(t, err)
	second, err := svc.Embed(ctx, text)
	require.NoError(t, err)

	require.Len(t, first, DefaultDimensions)
	assert.Equal(t, first, second, "identical text must yield bit-identical vectors")

	// A fresh instance produces the same vector too.
	other, err := New(DefaultDimensions)
	require.NoError(t, err)
	third, err := other.Embed(ctx, text)
	require.NoError(t, err)
	assert.Equal(t, first, third)
}

func TestEmbed_UnitLength(t *testing.T) {
	svc, err := New(64)
	require.NoError(t, err)

	vec, err := svc.Embed(context.Background(), "brickell condo tower")
	require.NoError(t, err)

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-6)
}

func TestEmbed_EmptyTextIsZeroVector(t *testing.T) {
	svc, err := New(64)
	require.NoError(t, err)

	vec, err := svc.Embed(context.Background(), "")
	require.NoError(t, err)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestEmbed_CaseAndPunctuationInsensitive(t *testing.T) {
	svc, err := New(64)
	require.NoError(t, err)
	ctx := context.Background()

	a, err := svc.Embed(ctx, "Coral Gables!")
	require.NoError(t, err)
	b, err := svc.Embed(ctx, "coral, gables")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEmbedBatch_MatchesSingleCalls(t *testing.T) {
	svc, err := New(64)
	require.NoError(t, err)
	ctx := context.Background()

	texts := []string{"first text", "second text", "third text"}
	batch, err := svc.EmbedBatch(ctx, texts)
	require.NoError(t, err)
	require.Len(t, batch, len(texts))

	for i, text := range texts {
		single, err := svc.Embed(ctx, text)
		require.NoError(t, err)
		assert.Equal(t, single, batch[i])
	}
}

func TestMetadata(t *testing.T) {
	svc, err := New(128)
	require.NoError(t, err)

	assert.Equal(t, 128, svc.Dimensions())
	assert.Equal(t, ModelNameValue, svc.ModelName())
	assert.NoError(t, svc.Ping(context.Background()))
	assert.NoError(t, svc.Close())
}
