// Package pdf normalises PDF files.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/casaverde-labs/mira-cli/internal/core/domain"
	"github.com/casaverde-labs/mira-cli/internal/core/ports/driven"
	"github.com/casaverde-labs/mira-cli/internal/normalisers/plaintext"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser extracts plain text from PDF documents.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns the document format this normaliser handles.
func (n *Normaliser) Format() domain.DocumentFormat {
	return domain.FormatPDF
}

// Normalise parses the PDF and extracts its plain text. Malformed or
// encrypted files fail with domain.ErrInvalidInput so callers can skip
// them without aborting a whole ingestion run.
func (n *Normaliser) Normalise(_ context.Context, path string, content []byte) (*domain.Document, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: cannot parse %s as PDF: %v", domain.ErrInvalidInput, path, err)
	}

	text, err := extractText(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot extract text from %s: %v", domain.ErrInvalidInput, path, err)
	}

	return &domain.Document{
		ID:         uuid.New().String(),
		SourcePath: path,
		Title:      plaintext.TitleFromPath(path),
		Format:     domain.FormatPDF,
		Content:    strings.TrimSpace(text),
		CreatedAt:  time.Now(),
	}, nil
}

// extractText drains the reader's plain-text stream. The library can
// panic on pathological files, so the call is fenced with recover and
// surfaced as a normal error.
func extractText(reader *pdf.Reader) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf extraction panicked: %v", r)
		}
	}()

	stream, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, stream); err != nil {
		return "", err
	}
	return buf.String(), nil
}
