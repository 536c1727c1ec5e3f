package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casaverde-labs/mira-cli/internal/core/domain"
	"github.com/casaverde-labs/mira-cli/internal/core/ports/driven"
)

func scored(text string, score float64) domain.ScoredChunk {
	return domain.ScoredChunk{Chunk: domain.Chunk{Text: text}, Score: score}
}

func turn(role domain.Role, text string) domain.Turn {
	return domain.Turn{Role: role, Text: text, Timestamp: time.Now()}
}

func TestNewAssembler_InvalidConfig(t *testing.T) {
	_, err := NewAssembler(0, 4)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	_, err = NewAssembler(100, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestAssemble_PriorityOrder(t *testing.T) {
	a, err := NewAssembler(10000, 4)
	require.NoError(t, err)

	out := a.Assemble(
		domain.RetrievalResult{scored("chunk one", 0.9), scored("chunk two", 0.7)},
		[]driven.WebResult{{Title: "Rates", Snippet: "rates rose", URL: "https://x.test"}},
		[]domain.Turn{turn(domain.RoleUser, "earlier question")},
	)

	assert.Equal(t, 2, out.ChunksIncluded)
	assert.Equal(t, 1, out.SnippetsIncluded)
	assert.Equal(t, 1, out.TurnsIncluded)
	assert.False(t, out.Truncated)

	kb := strings.Index(out.Text, sectionKnowledge)
	web := strings.Index(out.Text, sectionWeb)
	conv := strings.Index(out.Text, sectionConversation)
	require.True(t, kb >= 0 && web >= 0 && conv >= 0)
	assert.Less(t, kb, web)
	assert.Less(t, web, conv)

	// Chunks appear highest score first.
	assert.Less(t, strings.Index(out.Text, "chunk one"), strings.Index(out.Text, "chunk two"))
}

func TestAssemble_HistoryOnlyIsValid(t *testing.T) {
	a, err := NewAssembler(10000, 4)
	require.NoError(t, err)

	out := a.Assemble(nil, nil, []domain.Turn{turn(domain.RoleUser, "hello")})
	assert.False(t, out.Empty())
	assert.Equal(t, 0, out.ChunksIncluded)
	assert.Equal(t, 0, out.SnippetsIncluded)
	assert.Equal(t, 1, out.TurnsIncluded)
	assert.NotContains(t, out.Text, sectionKnowledge)
	assert.NotContains(t, out.Text, sectionWeb)
}

func TestAssemble_NothingAvailable(t *testing.T) {
	a, err := NewAssembler(10000, 4)
	require.NoError(t, err)

	out := a.Assemble(nil, nil, nil)
	assert.True(t, out.Empty())
	assert.False(t, out.Truncated)
}

func TestAssemble_TruncatesWholeItemsOnly(t *testing.T) {
	// Budget fits the header plus the first chunk but not the second.
	first := strings.Repeat("a", 40)
	second := strings.Repeat("z", 40)
	budget := len(sectionKnowledge) + 1 + len(first) + 1 + 10

	a, err := NewAssembler(budget, 4)
	require.NoError(t, err)

	out := a.Assemble(
		domain.RetrievalResult{scored(first, 0.9), scored(second, 0.8)},
		[]driven.WebResult{{Title: "t", Snippet: "s"}},
		[]domain.Turn{turn(domain.RoleUser, "q")},
	)

	assert.Equal(t, 1, out.ChunksIncluded)
	assert.Equal(t, 0, out.SnippetsIncluded)
	assert.Equal(t, 0, out.TurnsIncluded)
	assert.True(t, out.Truncated)
	assert.Contains(t, out.Text, first)
	// Never a partial item: the second chunk's text must be absent
	// entirely, not cut.
	assert.NotContains(t, out.Text, "z")
}

func TestAssemble_HistoryCappedToConfiguredTurns(t *testing.T) {
	a, err := NewAssembler(10000, 2)
	require.NoError(t, err)

	history := []domain.Turn{
		turn(domain.RoleUser, "first"),
		turn(domain.RoleAssistant, "second"),
		turn(domain.RoleUser, "third"),
	}
	out := a.Assemble(nil, nil, history)

	assert.Equal(t, 2, out.TurnsIncluded)
	assert.NotContains(t, out.Text, "first")
	assert.Contains(t, out.Text, "second")
	assert.Contains(t, out.Text, "third")
	// Oldest of the kept turns comes first.
	assert.Less(t, strings.Index(out.Text, "second"), strings.Index(out.Text, "third"))
}

func TestAssemble_BudgetCountsRunes(t *testing.T) {
	// Multibyte text: budget in runes, not bytes.
	item := strings.Repeat("ü", 20)
	budget := len([]rune(sectionKnowledge)) + 1 + 20 + 1

	a, err := NewAssembler(budget, 0)
	require.NoError(t, err)

	out := a.Assemble(domain.RetrievalResult{scored(item, 0.9)}, nil, nil)
	assert.Equal(t, 1, out.ChunksIncluded)
	assert.Contains(t, out.Text, item)
}
