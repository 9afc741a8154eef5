package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Database.Path != "data/babelmark.db" {
		t.Errorf("unexpected database path: %q", cfg.Database.Path)
	}
	if cfg.Limits.MaxTextLength != 5000 {
		t.Errorf("unexpected max text length: %d", cfg.Limits.MaxTextLength)
	}
	if cfg.Limits.ProviderTimeout != 2*time.Minute {
		t.Errorf("unexpected provider timeout: %s", cfg.Limits.ProviderTimeout)
	}
	if cfg.Embedding.Model != "nomic-embed-text" {
		t.Errorf("unexpected embedding model: %q", cfg.Embedding.Model)
	}
	if !cfg.Metrics.Semantic.Enabled || cfg.Metrics.Semantic.Weight != 0.50 {
		t.Errorf("unexpected semantic metric defaults: %+v", cfg.Metrics.Semantic)
	}
	if cfg.Metrics.LengthRatioMin != 0.5 || cfg.Metrics.LengthRatioMax != 2.0 {
		t.Errorf("unexpected length band: [%f, %f]",
			cfg.Metrics.LengthRatioMin, cfg.Metrics.LengthRatioMax)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "babelmark.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
limits:
  max_text_length: 1000
  provider_timeout: 30s
metrics:
  bleu:
    enabled: false
    weight: 0
providers:
  - type: local
    model: qwen3:14b
    base_url: http://localhost:11434/v1
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Limits.MaxTextLength != 1000 {
		t.Errorf("expected max text length 1000, got %d", cfg.Limits.MaxTextLength)
	}
	if cfg.Limits.ProviderTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %s", cfg.Limits.ProviderTimeout)
	}
	if cfg.Metrics.BLEU.Enabled {
		t.Error("expected bleu disabled")
	}
	// Untouched defaults survive a partial file.
	if !cfg.Metrics.ChrF.Enabled {
		t.Error("expected chrf to keep its default")
	}
	if len(cfg.Providers) != 1 || cfg.Providers[0].Type != "local" {
		t.Errorf("unexpected providers: %+v", cfg.Providers)
	}
	if cfg.Providers[0].BaseURL != "http://localhost:11434/v1" {
		t.Errorf("unexpected base url: %q", cfg.Providers[0].BaseURL)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load("/nonexistent/babelmark.yaml"); err == nil {
		t.Error("expected an error for a missing explicit config file")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"bad port", "server:\n  port: -1\n"},
		{"zero text length", "limits:\n  max_text_length: 0\n"},
		{"inverted length band", "metrics:\n  length_ratio_min: 3.0\n  length_ratio_max: 2.0\n"},
		{"provider without type", "providers:\n  - model: gpt-4\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			if _, err := Load(path); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}
