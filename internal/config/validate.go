// Package config provides configuration management for forcelift.
package config

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"
)

// apiVersionPattern matches Salesforce API version strings like "50.0".
var apiVersionPattern = regexp.MustCompile(`^\d+\.0$`)

// ValidationError contains all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if len(e.Errors) > 0 {
		parts = append(parts, fmt.Sprintf("Errors:\n  - %s", strings.Join(e.Errors, "\n  - ")))
	}

	if len(e.Warnings) > 0 {
		parts = append(parts, fmt.Sprintf("Warnings:\n  - %s", strings.Join(e.Warnings, "\n  - ")))
	}

	return fmt.Sprintf("configuration validation failed:\n%s", strings.Join(parts, "\n"))
}

// HasErrors returns true if there are validation errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// HasWarnings returns true if there are validation warnings.
func (e *ValidationError) HasWarnings() bool {
	return len(e.Warnings) > 0
}

// Validate checks the configuration for errors and warnings.
// It returns nil when the configuration has no errors; warnings alone do
// not fail validation but are reported on the returned *ValidationError.
func Validate(cfg *Config) error {
	result := &ValidationError{}

	validateDevhub(cfg, result)
	validatePromote(cfg, result)
	validateOutput(cfg, result)

	if result.HasErrors() {
		return result
	}
	return nil
}

// ValidateWithWarnings validates and returns warnings even on success.
func ValidateWithWarnings(cfg *Config) *ValidationError {
	result := &ValidationError{}

	validateDevhub(cfg, result)
	validatePromote(cfg, result)
	validateOutput(cfg, result)

	return result
}

func validateDevhub(cfg *Config, result *ValidationError) {
	if cfg.Devhub.InstanceURL != "" {
		u, err := url.Parse(cfg.Devhub.InstanceURL)
		if err != nil || u.Host == "" {
			result.Errors = append(result.Errors,
				fmt.Sprintf("devhub.instance_url %q is not a valid URL", cfg.Devhub.InstanceURL))
		} else if u.Scheme != "https" {
			result.Errors = append(result.Errors,
				"devhub.instance_url must use https")
		}
	} else {
		result.Warnings = append(result.Warnings,
			"devhub.instance_url is not set; it must be provided before running promote or report")
	}

	if !apiVersionPattern.MatchString(cfg.Devhub.APIVersion) {
		result.Errors = append(result.Errors,
			fmt.Sprintf("devhub.api_version %q is invalid (expected e.g. \"50.0\")", cfg.Devhub.APIVersion))
	}

	if cfg.Devhub.Timeout < 0 {
		result.Errors = append(result.Errors, "devhub.timeout cannot be negative")
	}

	if cfg.Devhub.RateLimitRPM < 0 {
		result.Errors = append(result.Errors, "devhub.rate_limit_rpm cannot be negative")
	}

	// Unexpanded env references mean the variable was unset at load time.
	if strings.HasPrefix(cfg.Devhub.AccessToken, "${") {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("devhub.access_token references an unset environment variable (%s)", cfg.Devhub.AccessToken))
	}
}

func validatePromote(_ *Config, _ *ValidationError) {
	// auto_promote is a plain boolean; nothing to validate today.
}

func validateOutput(cfg *Config, result *ValidationError) {
	validFormats := []string{FormatText, FormatJSON, FormatYAML}
	if !slices.Contains(validFormats, cfg.Output.Format) {
		result.Errors = append(result.Errors,
			fmt.Sprintf("output.format %q is invalid (valid: %s)", cfg.Output.Format, strings.Join(validFormats, ", ")))
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, cfg.Output.LogLevel) {
		result.Errors = append(result.Errors,
			fmt.Sprintf("output.log_level %q is invalid (valid: %s)", cfg.Output.LogLevel, strings.Join(validLevels, ", ")))
	}

	if cfg.Output.Quiet && cfg.Output.Verbose {
		result.Warnings = append(result.Warnings,
			"output.quiet and output.verbose are both set; quiet wins")
	}
}
