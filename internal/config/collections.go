package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CollectionsConfig represents the collections.json file
type CollectionsConfig struct {
	Version     string            `json:"version"`     // Config file version
	Collections map[string]string `json:"collections"` // Collection codes keyed by file name identifier
}

// Validate checks the configuration for errors
func (c *CollectionsConfig) Validate() error {
	if len(c.Collections) == 0 {
		return fmt.Errorf("no collections defined in configuration")
	}

	for _, identifier := range c.ListIdentifiers() {
		code := c.Collections[identifier]
		if strings.TrimSpace(identifier) == "" {
			return fmt.Errorf("collection identifiers cannot be empty")
		}
		if strings.TrimSpace(code) == "" {
			return fmt.Errorf("collection '%s': code is required", identifier)
		}
	}

	return nil
}

// ListIdentifiers returns all file name identifiers in sorted order
func (c *CollectionsConfig) ListIdentifiers() []string {
	ids := make([]string, 0, len(c.Collections))
	for id := range c.Collections {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LoadCollectionsConfig loads and parses the collections.json file
// If configPath is empty, it searches standard locations.
// Returns nil, "", nil if no config file is found (the built-in table is used).
func LoadCollectionsConfig(configPath string) (*CollectionsConfig, string, error) {
	var searchPaths []string

	// If explicit path provided, only search that
	if configPath != "" {
		searchPaths = append(searchPaths, configPath)
	} else {
		searchPaths = append(searchPaths,
			"./collections.json",
			"./configs/collections.json",
		)

		if home := os.Getenv("HOME"); home != "" {
			searchPaths = append(searchPaths,
				filepath.Join(home, ".config", "scielo-log-validator", "collections.json"),
			)
		}
	}

	for _, path := range searchPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue // Try next path
			}
			return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
		}

		var config CollectionsConfig
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, "", fmt.Errorf("failed to parse %s: %w", path, err)
		}

		if err := config.Validate(); err != nil {
			return nil, "", fmt.Errorf("invalid config in %s: %w", path, err)
		}

		return &config, path, nil
	}

	// If explicit path was provided but not found, that's an error
	if configPath != "" {
		return nil, "", fmt.Errorf("collections config not found: %s", configPath)
	}

	return nil, "", nil
}
