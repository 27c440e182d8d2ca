package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "test-key")
	t.Setenv("GOOGLE_GENAI_USE_VERTEXAI", "")
	t.Setenv("NEWS_LOOKBACK_DAYS", "")
	t.Setenv("NEWS_TOP_K", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.LLM.Model != "gemini-2.0-flash" {
		t.Errorf("default model = %q, want gemini-2.0-flash", cfg.LLM.Model)
	}
	if cfg.News.LookbackDays != 7 || cfg.News.TopK != 5 {
		t.Errorf("default news knobs = (%d, %d), want (7, 5)", cfg.News.LookbackDays, cfg.News.TopK)
	}
	if !cfg.Search.PreferEquity {
		t.Error("prefer_equity should default to true")
	}
	if cfg.Obs.RunDir != "runs" {
		t.Errorf("default run dir = %q, want runs", cfg.Obs.RunDir)
	}
}

func TestLoadConfigFileOverrides(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "test-key")
	t.Setenv("GOOGLE_GENAI_USE_VERTEXAI", "")
	t.Setenv("NEWS_LOOKBACK_DAYS", "")
	t.Setenv("NEWS_TOP_K", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `llm:
  model: gemini-2.5-pro
news:
  lookback_days: 3
  top_k: 10
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.LLM.Model != "gemini-2.5-pro" {
		t.Errorf("model = %q, want gemini-2.5-pro", cfg.LLM.Model)
	}
	if cfg.News.LookbackDays != 3 || cfg.News.TopK != 10 {
		t.Errorf("news knobs = (%d, %d), want (3, 10)", cfg.News.LookbackDays, cfg.News.TopK)
	}
	// Untouched sections keep their defaults.
	if cfg.Search.Count != 8 {
		t.Errorf("search count = %d, want default 8", cfg.Search.Count)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "test-key")
	t.Setenv("GOOGLE_GENAI_USE_VERTEXAI", "")
	t.Setenv("NEWS_LOOKBACK_DAYS", "14")
	t.Setenv("NEWS_TOP_K", "-2")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.News.LookbackDays != 14 {
		t.Errorf("lookback = %d, want env override 14", cfg.News.LookbackDays)
	}
	// Negative top_k clamps to zero rather than failing startup.
	if cfg.News.TopK != 0 {
		t.Errorf("top_k = %d, want 0 after clamp", cfg.News.TopK)
	}
}

func TestLoadConfigMissingAPIKey(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GOOGLE_GENAI_USE_VERTEXAI", "")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing GOOGLE_API_KEY")
	}
	if !strings.Contains(err.Error(), "GOOGLE_API_KEY") {
		t.Errorf("error should name the missing variable: %v", err)
	}
}

func TestLoadConfigRejectsVertexBackend(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "test-key")
	t.Setenv("GOOGLE_GENAI_USE_VERTEXAI", "true")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for vertex backend toggle")
	}
	if !strings.Contains(err.Error(), "GOOGLE_GENAI_USE_VERTEXAI") {
		t.Errorf("error should name the offending variable: %v", err)
	}
}

func TestAsBool(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", "yes", "Y", "on"} {
		if !asBool(v, false) {
			t.Errorf("asBool(%q) = false, want true", v)
		}
	}
	for _, v := range []string{"0", "false", "no", "off", "banana"} {
		if asBool(v, true) {
			t.Errorf("asBool(%q) = true, want false", v)
		}
	}
	if !asBool("", true) || asBool("", false) {
		t.Error("empty value should return the default")
	}
}
