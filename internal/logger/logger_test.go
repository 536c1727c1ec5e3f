package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerboseToggle(t *testing.T) {
	defer SetVerbose(false)

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestSilentWhenDisabled(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	SetVerbose(false)
	Debug("debug %d", 1)
	Info("info")
	Warn("warn")
	Section("section")

	assert.Empty(t, buf.String())
}

func TestOutputWhenEnabled(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	SetVerbose(true)
	defer SetVerbose(false)

	Debug("routing query %q", "test")
	Info("indexed %d chunks", 3)
	Warn("skipped %s", "bad.pdf")
	Section("Ingestion")

	out := buf.String()
	assert.Contains(t, out, `[DEBUG] routing query "test"`)
	assert.Contains(t, out, "[INFO] indexed 3 chunks")
	assert.Contains(t, out, "[WARN] skipped bad.pdf")
	assert.Contains(t, out, "=== Ingestion ===")
}
