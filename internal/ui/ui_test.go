package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, quiet bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevQuiet := Out, Quiet
	Out, Quiet = &buf, quiet
	t.Cleanup(func() { Out, Quiet = prevOut, prevQuiet })
	return &buf
}

func TestPrintFileStatus(t *testing.T) {
	buf := capture(t, false)
	PrintFileStatus("a.tif", nil)
	PrintFileStatus("b.tif", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, ColorGreen+"✓ a.tif")
	assert.Contains(t, out, ColorRed+"✗ b.tif: boom")
}

func TestQuietKeepsErrors(t *testing.T) {
	buf := capture(t, true)
	PrintInfo("info")
	PrintSuccess("done")
	PrintBanner()
	PrintWarning("careful")
	PrintError("broken")

	out := buf.String()
	assert.NotContains(t, out, "info")
	assert.NotContains(t, out, "done")
	assert.Contains(t, out, "Warning: careful")
	assert.Contains(t, out, "Error: broken")
}
