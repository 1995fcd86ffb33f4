// Package testutil provides test utilities for structured logging.
package testutil

import (
	"context"
	"log/slog"
	"testing"

	"github.com/leapstack-labs/pkginfo/internal/logging"
)

// NewTestLogger returns a debug-level logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return logging.New(testWriter{t}, true, true)
}

// ContextWithLogger returns ctx carrying a test logger under key.
func ContextWithLogger(ctx context.Context, t testing.TB, key any) context.Context {
	t.Helper()
	return context.WithValue(ctx, key, NewTestLogger(t))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}
