package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newCaptured() (Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(slog.New(slog.NewTextHandler(&buf, nil))), &buf
}

func TestRedactedHidesValue(t *testing.T) {
	log, buf := newCaptured()

	log.Info(context.Background(), "request served", Redacted("result"))

	out := buf.String()
	if !strings.Contains(out, "result="+redactedPlaceholder) {
		t.Fatalf("expected redacted attribute, got %q", out)
	}
}

func TestWithCarriesAttributes(t *testing.T) {
	log, buf := newCaptured()

	log.With("role", "server").Warn(context.Background(), "request rejected")

	out := buf.String()
	if !strings.Contains(out, "role=server") {
		t.Fatalf("expected role attribute, got %q", out)
	}
	if !strings.Contains(out, "request rejected") {
		t.Fatalf("expected message, got %q", out)
	}
}

func TestDiscardDropsEverything(t *testing.T) {
	// Must be safe to use without any configuration.
	Discard().Error(context.Background(), "dropped", "key", "value")
}
