package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".siteaudit"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML configuration file layout.
// Every field is optional; CLI flags take precedence over file values.
type File struct {
	// MaxPages is the page budget per audit.
	MaxPages int `yaml:"maxPages,omitempty"`

	// CrawlDelay is the delay between page fetches, e.g. "500ms" or "2s".
	CrawlDelay string `yaml:"crawlDelay,omitempty"`

	// Timeout is the per-request HTTP timeout, e.g. "15s".
	Timeout string `yaml:"timeout,omitempty"`

	// UserAgent overrides the default User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// DataForSEO holds enrichment API credentials. Keeping credentials
	// in the config file avoids leaking them into shell history.
	DataForSEO DataForSEOConfig `yaml:"dataforseo,omitempty"`
}

// DataForSEOConfig holds DataForSEO API credentials.
type DataForSEOConfig struct {
	Login    string `yaml:"login,omitempty"`
	Password string `yaml:"password,omitempty"`

	// Sandbox routes requests to the free sandbox endpoint.
	Sandbox bool `yaml:"sandbox,omitempty"`
}

// LoadConfigFile loads configuration overrides from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .siteaudit in the current directory
// 3. Look for .siteaudit in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	// Check current directory
	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	// Check home directory
	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// ApplyTo copies file values into cfg for every field the user has not
// already set on the command line. Flag values win over file values, so
// only fields still at their defaults are replaced.
func (cf *File) ApplyTo(cfg *Config) error {
	if cf.MaxPages > 0 && cfg.MaxPages == DefaultMaxPages {
		cfg.MaxPages = cf.MaxPages
	}
	if cf.CrawlDelay != "" && cfg.CrawlDelay == DefaultCrawlDelay {
		d, err := time.ParseDuration(cf.CrawlDelay)
		if err != nil {
			return fmt.Errorf("parse crawlDelay: %w", err)
		}
		cfg.CrawlDelay = d
	}
	if cf.Timeout != "" && cfg.Timeout == DefaultTimeout {
		d, err := time.ParseDuration(cf.Timeout)
		if err != nil {
			return fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if cf.UserAgent != "" && cfg.UserAgent == DefaultUserAgent {
		cfg.UserAgent = cf.UserAgent
	}
	if cf.DataForSEO.Login != "" && cfg.DataForSEOLogin == "" {
		cfg.DataForSEOLogin = cf.DataForSEO.Login
	}
	if cf.DataForSEO.Password != "" && cfg.DataForSEOPassword == "" {
		cfg.DataForSEOPassword = cf.DataForSEO.Password
	}
	if cf.DataForSEO.Sandbox {
		cfg.DataForSEOSandbox = true
	}
	return nil
}
