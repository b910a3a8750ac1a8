// Package config provides configuration management for forcelift.
package config

import (
	"time"
)

// Config is the root configuration for forcelift.
type Config struct {
	// Devhub configures the Dev Hub org connection.
	Devhub DevhubConfig `mapstructure:"devhub" json:"devhub"`
	// Promote configures promotion behavior.
	Promote PromoteConfig `mapstructure:"promote" json:"promote"`
	// Output configures output settings.
	Output OutputConfig `mapstructure:"output" json:"output"`
}

// DevhubConfig configures the Dev Hub org connection.
type DevhubConfig struct {
	// InstanceURL is the Dev Hub instance URL
	// (e.g., https://devhub.my.salesforce.com).
	InstanceURL string `mapstructure:"instance_url" json:"instance_url"`
	// APIVersion is the Tooling API version (e.g., "50.0").
	APIVersion string `mapstructure:"api_version" json:"api_version"`
	// AccessToken is the session token for the Dev Hub org
	// (can use env var expansion, e.g., ${SF_ACCESS_TOKEN}).
	AccessToken string `mapstructure:"access_token" json:"-"`
	// Timeout is the per-request timeout for Tooling API calls.
	Timeout time.Duration `mapstructure:"timeout" json:"timeout,omitempty"`
	// RateLimitRPM caps Tooling API calls per minute (0 = disabled).
	// Calls are paced, never retried.
	RateLimitRPM int `mapstructure:"rate_limit_rpm" json:"rate_limit_rpm,omitempty"`
}

// PromoteConfig configures promotion behavior.
type PromoteConfig struct {
	// AutoPromote promotes unpromoted 2GP dependencies before the root
	// package version instead of stopping after the report.
	AutoPromote bool `mapstructure:"auto_promote" json:"auto_promote"`
}

// Report output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// OutputConfig configures output settings.
type OutputConfig struct {
	// Format is the report output format (text, json, yaml).
	Format string `mapstructure:"format" json:"format"`
	// Color enables colored terminal output.
	Color bool `mapstructure:"color" json:"color"`
	// Verbose enables verbose output.
	Verbose bool `mapstructure:"verbose" json:"verbose"`
	// Quiet suppresses non-essential output.
	Quiet bool `mapstructure:"quiet" json:"quiet"`
	// LogLevel is the logging level (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level" json:"log_level"`
	// LogFile is an optional file to write logs to.
	LogFile string `mapstructure:"log_file" json:"log_file,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Devhub: DevhubConfig{
			APIVersion:   "50.0",
			AccessToken:  "${SF_ACCESS_TOKEN}",
			Timeout:      30 * time.Second,
			RateLimitRPM: 0,
		},
		Promote: PromoteConfig{
			AutoPromote: false,
		},
		Output: OutputConfig{
			Format:   FormatText,
			Color:    true,
			Verbose:  false,
			Quiet:    false,
			LogLevel: "info",
		},
	}
}

// ConfigFileNames to search for, in order. The dotted form follows Go
// ecosystem conventions (.goreleaser.yaml, .golangci.yml, etc.).
var ConfigFileNames = []string{
	".forcelift",
	"forcelift",
}

// ConfigFileExtensions supported by Viper.
var ConfigFileExtensions = []string{
	"yaml",
	"yml",
	"json",
}
