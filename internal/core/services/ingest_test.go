package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casaverde-labs/mira-cli/internal/chunker"
	"github.com/casaverde-labs/mira-cli/internal/core/domain"
	"github.com/casaverde-labs/mira-cli/internal/normalisers"
	"github.com/casaverde-labs/mira-cli/internal/vectorindex/memory"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newIngestFixture(t *testing.T, dims int) (*IngestService, *vocabEmbedder, *memory.Index) {
	t.Helper()
	embedder := newVocabEmbedder(dims)
	ix, err := memory.New(dims)
	require.NoError(t, err)
	ck, err := chunker.New(50, 10)
	require.NoError(t, err)
	svc := NewIngestService(normalisers.NewDefaultRegistry(), ck, embedder, ix)
	svc.SetWorkers(2)
	return svc, embedder, ix
}

func TestIngestDirectory_IndexesSupportedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "gables.txt", "Coral Gables median price is $1,275,000")
	writeFile(t, dir, "brickell.txt", "Brickell condo inventory rose in July")
	writeFile(t, dir, "ignored.csv", "a,b,c")

	svc, _, ix := newIngestFixture(t, 64)

	report, err := svc.IngestDirectory(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 2, report.DocumentsIndexed)
	assert.Equal(t, 2, report.ChunksIndexed)
	assert.Empty(t, report.Skipped)
	assert.Equal(t, 2, ix.Size())
}

func TestIngestDirectory_SkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.txt", "Wynwood art district guide")
	badPath := writeFile(t, dir, "bad.pdf", "this is not a pdf")

	svc, _, ix := newIngestFixture(t, 64)

	report, err := svc.IngestDirectory(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 1, report.DocumentsIndexed)
	assert.Equal(t, []string{badPath}, report.Skipped)
	assert.Equal(t, 1, ix.Size())
}

func TestIngestDirectory_EmptyDocumentIndexesNothing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.txt", "")

	svc, _, ix := newIngestFixture(t, 64)

	report, err := svc.IngestDirectory(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 1, report.DocumentsIndexed)
	assert.Equal(t, 0, report.ChunksIndexed)
	assert.True(t, ix.IsEmpty())
}

func TestIngestDirectory_DimensionMismatchAborts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "doc.txt", "some content here")

	embedder := newVocabEmbedder(64)
	ix, err := memory.New(32) // deliberately different dimension
	require.NoError(t, err)
	ck, err := chunker.New(50, 10)
	require.NoError(t, err)
	svc := NewIngestService(normalisers.NewDefaultRegistry(), ck, embedder, ix)

	_, err = svc.IngestDirectory(context.Background(), dir)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestIngestDirectory_MissingDir(t *testing.T) {
	svc, _, _ := newIngestFixture(t, 64)

	_, err := svc.IngestDirectory(context.Background(), "/does/not/exist")
	assert.Error(t, err)
}

func TestIngestFile_Single(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "gables.txt", "Coral Gables median price is $1,275,000")

	svc, _, ix := newIngestFixture(t, 64)

	require.NoError(t, svc.IngestFile(context.Background(), path))
	assert.Equal(t, 1, ix.Size())
}

func TestIngestFile_UnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.csv", "a,b")

	svc, _, _ := newIngestFixture(t, 64)

	err := svc.IngestFile(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestIngestDirectory_ChunkBoundaries(t *testing.T) {
	// 40-rune document with chunkSize=50: exactly one chunk covering
	// the whole text.
	text := "Coral Gables median price is $1,275,000"
	dir := t.TempDir()
	writeFile(t, dir, "gables.txt", text)

	svc, embedder, ix := newIngestFixture(t, 64)

	_, err := svc.IngestDirectory(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, 1, ix.Size())

	vec, err := embedder.Embed(context.Background(), text)
	require.NoError(t, err)
	res, err := ix.Query(context.Background(), vec, 1)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, text, res[0].Chunk.Text)
	assert.Equal(t, 0, res[0].Chunk.StartOffset)
	assert.Equal(t, len([]rune(text)), res[0].Chunk.EndOffset)
}
