package normalisers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casaverde-labs/mira-cli/internal/core/domain"
)

func TestForPath_SelectsByExtension(t *testing.T) {
	r := NewDefaultRegistry()

	cases := map[string]domain.DocumentFormat{
		"/kb/notes.txt":    domain.FormatTXT,
		"/kb/report.PDF":   domain.FormatPDF,
		"/kb/listing.docx": domain.FormatDOCX,
	}
	for path, want := range cases {
		n, err := r.ForPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, n.Format(), path)
	}
}

func TestForPath_UnsupportedExtension(t *testing.T) {
	r := NewDefaultRegistry()

	for _, path := range []string{"/kb/image.png", "/kb/data.csv", "/kb/noext"} {
		_, err := r.ForPath(path)
		assert.ErrorIs(t, err, domain.ErrUnsupportedFormat, path)
	}
}

func TestFormats(t *testing.T) {
	r := NewDefaultRegistry()
	assert.ElementsMatch(t, []domain.DocumentFormat{
		domain.FormatTXT, domain.FormatPDF, domain.FormatDOCX,
	}, r.Formats())
}
