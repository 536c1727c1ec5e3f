// Package plaintext normalises .txt files.
package plaintext

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/casaverde-labs/mira-cli/internal/core/domain"
	"github.com/casaverde-labs/mira-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns the document format this normaliser handles.
func (n *Normaliser) Format() domain.DocumentFormat {
	return domain.FormatTXT
}

// Normalise converts raw bytes to a document. The content must be
// valid UTF-8.
func (n *Normaliser) Normalise(_ context.Context, path string, content []byte) (*domain.Document, error) {
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8", domain.ErrInvalidInput, path)
	}

	return &domain.Document{
		ID:         uuid.New().String(),
		SourcePath: path,
		Title:      TitleFromPath(path),
		Format:     domain.FormatTXT,
		Content:    strings.TrimSpace(string(content)),
		CreatedAt:  time.Now(),
	}, nil
}

// TitleFromPath derives a human-readable title from a file path.
func TitleFromPath(path string) string {
	filename := filepath.Base(path)
	if ext := filepath.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}
