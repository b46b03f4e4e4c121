package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
	})
	return &buf
}

func TestVerboseGating(t *testing.T) {
	buf := capture(t)

	Debug("hidden %d", 1)
	Info("also hidden")
	Section("Retrieval")
	assert.Empty(t, buf.String())

	SetVerbose(true)
	Debug("shown %d", 2)
	Info("now visible")
	Section("Retrieval")
	out := buf.String()
	assert.Contains(t, out, "[DEBUG] shown 2")
	assert.Contains(t, out, "[INFO] now visible")
	assert.Contains(t, out, "=== Retrieval ===")
}

func TestWarnIsNotGated(t *testing.T) {
	buf := capture(t)

	Warn("skipped %s", "bad.docx")
	assert.Contains(t, buf.String(), "[WARN] skipped bad.docx")
}
