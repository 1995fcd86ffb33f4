// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/leapstack-labs/pkginfo/internal/cli/output"
)

// FixedTime is the clock reading of renderers created by this package.
var FixedTime = time.Date(2019, 3, 18, 9, 30, 0, 0, time.UTC)

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers and the clock is frozen at FixedTime.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	r := output.NewRendererWithTTY(out, errOut, isTTY, mode)
	r.SetClock(clockwork.NewFakeClockAt(FixedTime))
	return &TestRenderer{
		Renderer: r,
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererAuto creates a new test renderer with auto mode detection.
// In tests, non-TTY defaults to markdown output.
func NewTestRendererAuto() *TestRenderer {
	return NewTestRenderer(output.ModeAuto, false)
}

// NewTestRendererText creates a new test renderer in text mode (simulated TTY).
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// NewTestRendererJSON creates a new test renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}
