package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Stock Analyst Configuration

[analysis]
# Fundamental quarters to fetch per ticker
quarters = 4
# Years of daily price history for moving averages
price_history_years = 4
# Concurrent per-ticker analyses (0 = number of CPUs)
workers = 0

[advisor]
# LLM provider: "anthropic" or "openai"
provider = "anthropic"
# Model name (empty = provider default)
model = ""
# Maximum tokens for generated reports
max_tokens = 2000
# Portfolio amount used for allocation strategy reports
portfolio_amount = 100000.0

[database]
# SQLite database path (empty = ~/.config/stock-analyst/analyst.db)
path = ""

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "02-Jan-2006"
`

const credentialsTemplate = `# Stock Analyst Credentials
# WARNING: Keep this file secure! Do not commit to version control.

[anthropic]
api_key = ""

[openai]
api_key = ""
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	// Missing config is not fatal: defaults cover a first run.
	return nil
}

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "credentials.toml")
	// Use restricted permissions for credentials file
	if err := os.WriteFile(path, []byte(credentialsTemplate), 0600); err != nil {
		return fmt.Errorf("writing credentials template: %w", err)
	}

	return nil
}
