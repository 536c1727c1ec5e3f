package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// DocumentFormat identifies the source file type of a document.
type DocumentFormat string

// Supported document formats.
const (
	FormatTXT  DocumentFormat = "txt"
	FormatPDF  DocumentFormat = "pdf"
	FormatDOCX DocumentFormat = "docx"
)

// FormatForPath derives the document format from a file extension.
// Returns ErrUnsupportedFormat for anything else.
func FormatForPath(path string) (DocumentFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return FormatTXT, nil
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// Document represents a knowledge-base document at ingestion time.
// It is immutable after loading; once its chunks are embedded the raw
// Content may be released, only chunk text must remain live.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// SourcePath is the original file location.
	SourcePath string

	// Title is a human-readable title derived from the file name
	// or embedded document metadata.
	Title string

	// Format is the source file type (txt, pdf, docx).
	Format DocumentFormat

	// Content is the full extracted text before chunking.
	Content string

	// CreatedAt is when the document was loaded.
	CreatedAt time.Time
}

// Chunk is a bounded text segment of a document, the unit of embedding
// and retrieval. Chunks are immutable; consecutive chunks from the same
// document overlap by a configured number of runes so that information
// on chunk boundaries is not lost.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID is a non-owning back-reference to the parent document.
	DocumentID string

	// SourcePath is carried from the parent document so results can be
	// attributed after the document content is released.
	SourcePath string

	// Text is the chunk content.
	Text string

	// Position is the ordinal position within the document.
	Position int

	// StartOffset and EndOffset are rune offsets into the normalised
	// document text. EndOffset is always greater than StartOffset.
	StartOffset int
	EndOffset   int

	// OverlapWithPrev is the number of runes shared with the previous
	// chunk of the same document. Zero for the first chunk.
	OverlapWithPrev int
}
