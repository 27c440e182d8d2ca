package obs

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestStartRunCreatesDirectory(t *testing.T) {
	base := t.TempDir()
	run, err := StartRun(context.Background(), base, "analyze:Apple Inc")
	if err != nil {
		t.Fatalf("StartRun returned error: %v", err)
	}
	defer run.End()

	if run.Dir() == "" {
		t.Fatal("expected a run directory")
	}
	info, err := os.Stat(run.Dir())
	if err != nil || !info.IsDir() {
		t.Fatalf("run directory missing: %v", err)
	}
	// Spaces and colons in the run name must not reach the filesystem.
	name := filepath.Base(run.Dir())
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-' || r == '_':
		default:
			t.Fatalf("unsanitized rune %q in run directory name %q", r, name)
		}
	}
}

func TestStartRunWithoutBaseDir(t *testing.T) {
	run, err := StartRun(context.Background(), "", "analyze:Apple Inc")
	if err != nil {
		t.Fatalf("StartRun returned error: %v", err)
	}
	defer run.End()

	if run.Dir() != "" {
		t.Errorf("expected no run directory, got %q", run.Dir())
	}
	// Artifact calls become no-ops, not errors.
	if err := run.LogText("news/newsdesc.txt", "content"); err != nil {
		t.Errorf("LogText without a dir should be a no-op, got %v", err)
	}
	if err := run.LogDict("sentiment/sentiment.json", map[string]string{"k": "v"}); err != nil {
		t.Errorf("LogDict without a dir should be a no-op, got %v", err)
	}
}

func TestLogTextAndDict(t *testing.T) {
	run, err := StartRun(context.Background(), t.TempDir(), "artifacts")
	if err != nil {
		t.Fatalf("StartRun returned error: %v", err)
	}
	defer run.End()

	if err := run.LogText("news/newsdesc.txt", "- headline"); err != nil {
		t.Fatalf("LogText returned error: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(run.Dir(), "news", "newsdesc.txt"))
	if err != nil {
		t.Fatalf("failed to read text artifact: %v", err)
	}
	if string(b) != "- headline" {
		t.Errorf("text artifact = %q, want - headline", b)
	}

	if err := run.LogDict("sentiment/sentiment.json", map[string]any{"sentiment": "Neutral"}); err != nil {
		t.Fatalf("LogDict returned error: %v", err)
	}
	b, err = os.ReadFile(filepath.Join(run.Dir(), "sentiment", "sentiment.json"))
	if err != nil {
		t.Fatalf("failed to read json artifact: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("json artifact does not parse: %v", err)
	}
	if decoded["sentiment"] != "Neutral" {
		t.Errorf("json artifact = %v, want sentiment Neutral", decoded)
	}
}

func TestLogDictRejectsUnmarshalable(t *testing.T) {
	run, err := StartRun(context.Background(), t.TempDir(), "bad-dict")
	if err != nil {
		t.Fatalf("StartRun returned error: %v", err)
	}
	defer run.End()

	if err := run.LogDict("bad.json", make(chan int)); err == nil {
		t.Error("expected error for unmarshalable artifact value")
	}
}

func TestSpanEndWithError(t *testing.T) {
	run, err := StartRun(context.Background(), "", "spans")
	if err != nil {
		t.Fatalf("StartRun returned error: %v", err)
	}
	defer run.End()

	// Span bookkeeping must be safe whether the stage failed or not.
	_, end := run.Span(run.Context(), "ticker", map[string]string{"company_name": "Apple Inc"})
	end(nil)

	_, end = run.Span(run.Context(), "news", nil)
	end(errors.New("fetch failed"))

	run.LogParams(map[string]string{"ticker.symbol": "AAPL"})
	run.LogMetric("confidence_score", 0.2)
}
