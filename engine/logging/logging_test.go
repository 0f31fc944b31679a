package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestDefaultLoggerSilent(t *testing.T) {
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if Logger().Enabled(context.Background(), level) {
			t.Errorf("default logger enabled for %v", level)
		}
	}
}

func TestSetLoggerAndFor(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	For("buffer").Debug("allocated", "bytes", 64)

	out := buf.String()
	if !strings.Contains(out, "component=buffer") || !strings.Contains(out, "bytes=64") {
		t.Errorf("unexpected log output %q", out)
	}

	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should restore the silent logger")
	}
}

func TestForResolvesLoggerPerCall(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	SetLogger(nil)

	log := For("renderer2d").With("kind", "rect")
	log.Info("dropped while silent")

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	log.WithGroup("stats").Debug("flush", "items", 3)

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("record logged before SetLogger: %q", out)
	}
	for _, want := range []string{"component=renderer2d", "kind=rect", "stats.items=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}
