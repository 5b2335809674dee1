package config

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// CLIOptions holds command-line argument overrides
type CLIOptions struct {
	Path              string  // --path: file or directory to validate
	SampleSize        float64 // --sample-size: share of lines to parse (0 = from env)
	CheckFileNameOnly bool    // --check-file-name-only: skip content sampling
	OutputFormat      string  // --output: text or json
	IncludePattern    string  // --include: doublestar glob for directory mode
	CollectionsConfig string  // --collections-config: path to collections.json
	FailOnInvalid     bool    // --fail-on-invalid: exit 2 when a file is invalid
}

// Config holds all application configuration
type Config struct {
	// Target
	Path              string
	CheckFileNameOnly bool

	// Sampling and thresholds
	SampleSize       float64
	MinRemotePercent float64 // MIN_ACCEPTABLE_PERCENT_OF_REMOTE_IPS
	DaysDelta        int
	MaxLineBytes     int

	// Output
	OutputFormat   string // "text" (default) or "json"
	IncludePattern string
	FailOnInvalid  bool

	// Application
	LogLevel string
	LogDir   string

	// Collection identifiers (loaded from collections.json, nil for the built-in table)
	Collections     *CollectionsConfig
	CollectionsPath string
}

// LoadWithCLI loads configuration with CLI argument overrides
// Priority: CLI args > .env file > OS environment variables
func LoadWithCLI(cli *CLIOptions) (*Config, error) {
	// Set up viper first to read OS environment variables
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// godotenv.Load() sets OS env vars from .env, which viper will then read
	_ = godotenv.Load()

	setDefaults()

	config := &Config{
		SampleSize:       viper.GetFloat64("SAMPLE_SIZE"),
		MinRemotePercent: viper.GetFloat64("MIN_ACCEPTABLE_PERCENT_OF_REMOTE_IPS"),
		DaysDelta:        viper.GetInt("DAYS_DELTA"),
		MaxLineBytes:     viper.GetInt("MAX_LINE_BYTES"),
		OutputFormat:     strings.ToLower(viper.GetString("OUTPUT_FORMAT")),
		IncludePattern:   viper.GetString("INCLUDE_PATTERN"),
		LogLevel:         viper.GetString("LOG_LEVEL"),
		LogDir:           viper.GetString("LOG_DIR"),
		CollectionsPath:  viper.GetString("COLLECTIONS_CONFIG"),
	}

	// Apply CLI overrides (highest priority)
	if cli != nil {
		config.Path = cli.Path
		config.CheckFileNameOnly = cli.CheckFileNameOnly
		config.FailOnInvalid = cli.FailOnInvalid
		if cli.SampleSize != 0 {
			config.SampleSize = cli.SampleSize
		}
		if cli.OutputFormat != "" {
			config.OutputFormat = strings.ToLower(cli.OutputFormat)
		}
		if cli.IncludePattern != "" {
			config.IncludePattern = cli.IncludePattern
		}
		if cli.CollectionsConfig != "" {
			config.CollectionsPath = cli.CollectionsConfig
		}
	}

	if err := config.applyCollectionsConfig(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// applyCollectionsConfig loads collections.json from the configured path or
// the standard locations. Without a file the built-in table is used.
func (c *Config) applyCollectionsConfig() error {
	collections, foundPath, err := LoadCollectionsConfig(c.CollectionsPath)
	if err != nil {
		return fmt.Errorf("failed to load collections config: %w", err)
	}

	c.Collections = collections
	c.CollectionsPath = foundPath
	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("SAMPLE_SIZE", 0.1)
	viper.SetDefault("MIN_ACCEPTABLE_PERCENT_OF_REMOTE_IPS", 10.0)
	viper.SetDefault("DAYS_DELTA", 2)
	viper.SetDefault("MAX_LINE_BYTES", 1<<20)
	viper.SetDefault("OUTPUT_FORMAT", "text")
	viper.SetDefault("INCLUDE_PATTERN", "**")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_DIR", "./logs")
	viper.SetDefault("COLLECTIONS_CONFIG", "")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Path) == "" {
		return fmt.Errorf("path is required")
	}

	if !(c.SampleSize > 0 && c.SampleSize <= 1) {
		return fmt.Errorf("SAMPLE_SIZE must be greater than 0 and at most 1 (got: %v)", c.SampleSize)
	}

	if c.MinRemotePercent < 0 || c.MinRemotePercent > 100 {
		return fmt.Errorf("MIN_ACCEPTABLE_PERCENT_OF_REMOTE_IPS must be between 0 and 100")
	}

	if c.DaysDelta < 0 || c.DaysDelta > 366 {
		return fmt.Errorf("DAYS_DELTA must be between 0 and 366")
	}

	if c.MaxLineBytes < 1024 {
		return fmt.Errorf("MAX_LINE_BYTES must be at least 1024")
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validFormats[c.OutputFormat] {
		return fmt.Errorf("OUTPUT_FORMAT must be 'text' or 'json' (got: %s)", c.OutputFormat)
	}

	if !doublestar.ValidatePattern(c.IncludePattern) {
		return fmt.Errorf("INCLUDE_PATTERN is not a valid glob (got: %s)", c.IncludePattern)
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error")
	}

	return nil
}

// CollectionTable returns the identifier table from collections.json, or
// nil when the built-in table applies.
func (c *Config) CollectionTable() map[string]string {
	if c.Collections == nil {
		return nil
	}
	return c.Collections.Collections
}
