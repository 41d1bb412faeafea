package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFirstRunCreatesTemplates(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Defaults apply on a first run.
	if cfg.Analysis.Quarters != 4 {
		t.Errorf("Quarters = %d, want 4", cfg.Analysis.Quarters)
	}
	if cfg.Analysis.PriceHistoryYears != 4 {
		t.Errorf("PriceHistoryYears = %d, want 4", cfg.Analysis.PriceHistoryYears)
	}
	if cfg.Advisor.Provider != "anthropic" {
		t.Errorf("Provider = %q, want anthropic", cfg.Advisor.Provider)
	}
	if cfg.Advisor.Model != "claude-3-haiku-20240307" {
		t.Errorf("Model = %q, want provider default", cfg.Advisor.Model)
	}
	if cfg.Database.Path == "" {
		t.Errorf("Database.Path is empty, want default path")
	}

	// Template files are created for the next run.
	for _, name := range []string{"config.toml", "credentials.toml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("template %s not created: %v", name, err)
		}
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[analysis]
quarters = 8
workers = 3

[advisor]
provider = "openai"

[database]
path = "/tmp/custom.db"
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Analysis.Quarters != 8 {
		t.Errorf("Quarters = %d, want 8", cfg.Analysis.Quarters)
	}
	if cfg.Analysis.Workers != 3 {
		t.Errorf("Workers = %d, want 3", cfg.Analysis.Workers)
	}
	if cfg.Advisor.Provider != "openai" {
		t.Errorf("Provider = %q, want openai", cfg.Advisor.Provider)
	}
	if cfg.Advisor.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, want openai default", cfg.Advisor.Model)
	}
	if cfg.Database.Path != "/tmp/custom.db" {
		t.Errorf("Database.Path = %q, want /tmp/custom.db", cfg.Database.Path)
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("ANALYST_DB_PATH", "/tmp/env.db")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Credentials.Anthropic.APIKey != "sk-ant-test" {
		t.Errorf("Anthropic key not taken from env")
	}
	if cfg.Database.Path != "/tmp/env.db" {
		t.Errorf("Database.Path = %q, want env override", cfg.Database.Path)
	}
	if !cfg.HasAdvisorCredentials() {
		t.Errorf("HasAdvisorCredentials = false with key set")
	}
}

func TestValidate(t *testing.T) {
	valid := &Config{}
	valid.Analysis.Quarters = 4
	valid.Analysis.PriceHistoryYears = 4
	valid.Advisor.MaxTokens = 2000

	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad provider", func(c *Config) { c.Advisor.Provider = "gemini" }},
		{"too few quarters", func(c *Config) { c.Analysis.Quarters = 1 }},
		{"no price history", func(c *Config) { c.Analysis.PriceHistoryYears = 0 }},
		{"negative workers", func(c *Config) { c.Analysis.Workers = -1 }},
		{"zero max tokens", func(c *Config) { c.Advisor.MaxTokens = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *valid
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Validate() = nil, want error")
			}
		})
	}
}
