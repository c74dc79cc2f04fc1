package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// Run from an empty directory so no config file is picked up.
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.DataFile != "feedback.csv" {
		t.Errorf("expected default data file, got %q", cfg.DataFile)
	}
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("expected default provider openai, got %q", cfg.Provider)
	}
	if cfg.Temperature != 0.4 {
		t.Errorf("expected default temperature 0.4, got %v", cfg.Temperature)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "data_file: /tmp/fb.csv\nport: 9000\nprovider: gemini\nmodel: gemini-2.0-flash\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.DataFile != "/tmp/fb.csv" {
		t.Errorf("expected data file override, got %q", cfg.DataFile)
	}
	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.Provider != ProviderGemini {
		t.Errorf("expected provider gemini, got %q", cfg.Provider)
	}
	// Unset fields keep defaults.
	if cfg.Temperature != 0.4 {
		t.Errorf("expected default temperature, got %v", cfg.Temperature)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadUnknownProvider(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("provider: cohere\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestAPIKeysFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GEMINI_API_KEY", "g-test")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.OpenAIAPIKey != "sk-test" {
		t.Errorf("expected OpenAI key from env, got %q", cfg.OpenAIAPIKey)
	}
	if cfg.GeminiAPIKey != "g-test" {
		t.Errorf("expected Gemini key from env, got %q", cfg.GeminiAPIKey)
	}
}
