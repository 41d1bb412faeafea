// Package config provides configuration management for the analysis application.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Analysis    AnalysisConfig `mapstructure:"analysis"`
	Advisor     AdvisorConfig  `mapstructure:"advisor"`
	Database    DatabaseConfig `mapstructure:"database"`
	UI          UIConfig       `mapstructure:"ui"`
	Credentials Credentials    `mapstructure:"-"` // Loaded separately
}

// AnalysisConfig holds analysis-related configuration.
type AnalysisConfig struct {
	Quarters          int `mapstructure:"quarters"`            // fundamental quarters to fetch
	PriceHistoryYears int `mapstructure:"price_history_years"` // daily price history depth
	Workers           int `mapstructure:"workers"`             // concurrent per-ticker analyses, 0 = NumCPU
}

// AdvisorConfig holds LLM advisor configuration.
type AdvisorConfig struct {
	Provider        string  `mapstructure:"provider"` // "anthropic", "openai"
	Model           string  `mapstructure:"model"`
	MaxTokens       int     `mapstructure:"max_tokens"`
	PortfolioAmount float64 `mapstructure:"portfolio_amount"`
}

// DatabaseConfig holds persistence configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// Credentials holds API credentials.
type Credentials struct {
	Anthropic AnthropicCredentials `mapstructure:"anthropic"`
	OpenAI    OpenAICredentials    `mapstructure:"openai"`
}

// AnthropicCredentials holds Anthropic API credentials.
type AnthropicCredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// OpenAICredentials holds OpenAI API credentials.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/stock-analyst"
	}
	return filepath.Join(home, ".config", "stock-analyst")
}

// DefaultDatabasePath returns the default sqlite database path.
func DefaultDatabasePath() string {
	return filepath.Join(DefaultConfigDir(), "analyst.db")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	// Load main config
	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	// Load credentials
	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	applyDefaults(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target interface{}) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("analysis.quarters", 4)
	v.SetDefault("analysis.price_history_years", 4)
	v.SetDefault("analysis.workers", 0)
	v.SetDefault("advisor.provider", "anthropic")
	v.SetDefault("advisor.max_tokens", 2000)
	v.SetDefault("advisor.portfolio_amount", 100000.0)
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "02-Jan-2006")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, create template
			if err := createTemplateConfig(configDir); err != nil {
				return err
			}
			return v.Unmarshal(target)
		}
		return err
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Credentials.Anthropic.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}
	if v := os.Getenv("ANALYST_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("ANALYST_LLM_PROVIDER"); v != "" {
		cfg.Advisor.Provider = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Database.Path == "" {
		cfg.Database.Path = DefaultDatabasePath()
	}
	if cfg.Advisor.Model == "" {
		switch cfg.Advisor.Provider {
		case "openai":
			cfg.Advisor.Model = "gpt-4o-mini"
		default:
			cfg.Advisor.Model = "claude-3-haiku-20240307"
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Advisor.Provider != "" && c.Advisor.Provider != "anthropic" && c.Advisor.Provider != "openai" {
		return fmt.Errorf("invalid advisor provider: %s (must be 'anthropic' or 'openai')", c.Advisor.Provider)
	}
	if c.Analysis.Quarters < 2 {
		return fmt.Errorf("analysis.quarters must be at least 2 (quarter-over-quarter growth needs two quarters)")
	}
	if c.Analysis.PriceHistoryYears < 1 {
		return fmt.Errorf("analysis.price_history_years must be at least 1")
	}
	if c.Analysis.Workers < 0 {
		return fmt.Errorf("analysis.workers must be non-negative")
	}
	if c.Advisor.MaxTokens <= 0 {
		return fmt.Errorf("advisor.max_tokens must be positive")
	}
	return nil
}

// HasAdvisorCredentials reports whether the configured LLM provider has an
// API key available.
func (c *Config) HasAdvisorCredentials() bool {
	switch c.Advisor.Provider {
	case "openai":
		return c.Credentials.OpenAI.APIKey != ""
	default:
		return c.Credentials.Anthropic.APIKey != ""
	}
}
