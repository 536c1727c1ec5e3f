package normalisers

import (
	"fmt"

	"github.com/casaverde-labs/mira-cli/internal/core/domain"
	"github.com/casaverde-labs/mira-cli/internal/core/ports/driven"
	"github.com/casaverde-labs/mira-cli/internal/normalisers/docx"
	"github.com/casaverde-labs/mira-cli/internal/normalisers/pdf"
	"github.com/casaverde-labs/mira-cli/internal/normalisers/plaintext"
)

// Registry selects a normaliser for a file by its extension.
type Registry struct {
	byFormat map[domain.DocumentFormat]driven.Normaliser
}

// NewRegistry creates a registry with the given normalisers. Later
// entries for the same format replace earlier ones.
func NewRegistry(normalisers ...driven.Normaliser) *Registry {
	r := &Registry{byFormat: make(map[domain.DocumentFormat]driven.Normaliser, len(normalisers))}
	for _, n := range normalisers {
		r.byFormat[n.Format()] = n
	}
	return r
}

// NewDefaultRegistry creates a registry with all built-in normalisers.
func NewDefaultRegistry() *Registry {
	return NewRegistry(plaintext.New(), pdf.New(), docx.New())
}

// ForPath returns the normaliser for the file's extension. Fails with
// domain.ErrUnsupportedFormat when no normaliser handles it.
func (r *Registry) ForPath(path string) (driven.Normaliser, error) {
	format, err := domain.FormatForPath(path)
	if err != nil {
		return nil, err
	}
	n, ok := r.byFormat[format]
	if !ok {
		return nil, fmt.Errorf("%w: no normaliser registered for %q", domain.ErrUnsupportedFormat, format)
	}
	return n, nil
}

// Formats returns the formats the registry can handle.
func (r *Registry) Formats() []domain.DocumentFormat {
	formats := make([]domain.DocumentFormat, 0, len(r.byFormat))
	for f := range r.byFormat {
		formats = append(formats, f)
	}
	return formats
}
