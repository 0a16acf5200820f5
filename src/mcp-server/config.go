// Copyright (c) 2025 The certident Authors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	x509cert "github.com/go-pkix/certident/src/internal/x509/cert"
)

// configFormat represents supported configuration file formats.
type configFormat int

const (
	// configFormatJSON represents JSON configuration format (.json)
	configFormatJSON configFormat = iota
	// configFormatYAML represents YAML configuration format (.yaml, .yml)
	configFormatYAML
)

// flagNames maps configuration names to identity-check flag bits.
var flagNames = map[string]x509cert.CheckFlags{
	"alwaysCheckSubject":    x509cert.AlwaysCheckSubject,
	"neverCheckSubject":     x509cert.NeverCheckSubject,
	"noWildcards":           x509cert.NoWildcards,
	"noPartialWildcards":    x509cert.NoPartialWildcards,
	"multiLabelWildcards":   x509cert.MultiLabelWildcards,
	"singleLabelSubdomains": x509cert.SingleLabelSubdomains,
}

// Config represents the MCP server configuration structure.
//
// The configuration can be loaded from a JSON or YAML file specified by the
// MCP_CERTIDENT_CONFIG_FILE environment variable, with defaults applied for
// any missing values. Supported file extensions: .json, .yaml, .yml
type Config struct {
	// Defaults: Default settings for certificate operations
	Defaults struct {
		// Format: Default output format for inspect results ("json" or "text")
		Format string `json:"format" yaml:"format"`
		// CheckFlags: Default identity-check flag names applied when a tool
		// call does not set its own (see flagNames for accepted values)
		CheckFlags []string `json:"checkFlags" yaml:"checkFlags"`
	} `json:"defaults" yaml:"defaults"`
}

// checkFlags resolves the configured default flag names to a bitmask.
// Unknown names are rejected at load time, so this cannot fail here.
func (c *Config) checkFlags() x509cert.CheckFlags {
	var flags x509cert.CheckFlags
	for _, name := range c.Defaults.CheckFlags {
		flags |= flagNames[name]
	}
	return flags
}

// detectConfigFormat determines the configuration file format based on file
// extension, using case-insensitive matching.
func detectConfigFormat(configPath string) configFormat {
	ext := strings.ToLower(filepath.Ext(configPath))
	switch ext {
	case ".yaml", ".yml":
		return configFormatYAML
	default:
		return configFormatJSON
	}
}

// unmarshalConfig unmarshals configuration data based on the specified format.
func unmarshalConfig(data []byte, config *Config, format configFormat) error {
	switch format {
	case configFormatYAML:
		return yaml.Unmarshal(data, config)
	default:
		return json.Unmarshal(data, config)
	}
}

// loadConfig loads the server configuration from the given path, applying
// defaults when the path is empty or values are missing.
func loadConfig(configPath string) (*Config, error) {
	config := &Config{}
	config.Defaults.Format = "text"

	if configPath == "" {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := unmarshalConfig(data, config, detectConfigFormat(configPath)); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if config.Defaults.Format == "" {
		config.Defaults.Format = "text"
	}
	for _, name := range config.Defaults.CheckFlags {
		if _, ok := flagNames[name]; !ok {
			return nil, fmt.Errorf("unknown check flag %q in config", name)
		}
	}
	return config, nil
}
