package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func cleanupEnv(keys ...string) func() {
	original := make(map[string]string)
	for _, key := range keys {
		original[key] = os.Getenv(key)
	}
	return func() {
		for _, key := range keys {
			if val, ok := original[key]; ok && val != "" {
				os.Setenv(key, val)
			} else {
				os.Unsetenv(key)
			}
		}
	}
}

func TestLoaderExpandEnvVar(t *testing.T) {
	cleanup := cleanupEnv("TOKEN_VALUE", "FALLBACK")
	defer cleanup()

	os.Setenv("TOKEN_VALUE", "abc123")
	os.Setenv("FALLBACK", "fallback")

	value := expandEnvVar("prefix-${TOKEN_VALUE}-suffix:$MISSING:${MISSING:-default}:${FALLBACK}")

	if !strings.Contains(value, "abc123") {
		t.Fatalf("expected TOKEN_VALUE to expand, got %q", value)
	}
	if !strings.Contains(value, "default") {
		t.Fatalf("expected default to be used, got %q", value)
	}
	if !strings.Contains(value, "fallback") {
		t.Fatalf("expected FALLBACK to expand, got %q", value)
	}
}

func TestLoaderDefaults(t *testing.T) {
	loader := NewLoader().WithSearchPaths(t.TempDir())
	loader.searchPaths = loader.searchPaths[1:] // drop "." so local config files do not leak in

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Devhub.APIVersion != "50.0" {
		t.Errorf("APIVersion = %q, want 50.0", cfg.Devhub.APIVersion)
	}
	if cfg.Devhub.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Devhub.Timeout)
	}
	if cfg.Promote.AutoPromote {
		t.Error("AutoPromote default should be false")
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Format = %q, want text", cfg.Output.Format)
	}
	if cfg.Output.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.Output.LogLevel)
	}
}

func TestLoaderLoadFromFile(t *testing.T) {
	cleanup := cleanupEnv("TEST_SF_TOKEN")
	defer cleanup()
	os.Setenv("TEST_SF_TOKEN", "session-token")

	dir := t.TempDir()
	path := filepath.Join(dir, ".forcelift.yaml")
	content := `
devhub:
  instance_url: https://devhub.my.salesforce.com
  api_version: "52.0"
  access_token: ${TEST_SF_TOKEN}
  rate_limit_rpm: 120
promote:
  auto_promote: true
output:
  format: json
  log_level: debug
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Devhub.InstanceURL != "https://devhub.my.salesforce.com" {
		t.Errorf("InstanceURL = %q", cfg.Devhub.InstanceURL)
	}
	if cfg.Devhub.APIVersion != "52.0" {
		t.Errorf("APIVersion = %q, want 52.0", cfg.Devhub.APIVersion)
	}
	if cfg.Devhub.AccessToken != "session-token" {
		t.Errorf("AccessToken = %q, want expanded env value", cfg.Devhub.AccessToken)
	}
	if cfg.Devhub.RateLimitRPM != 120 {
		t.Errorf("RateLimitRPM = %d, want 120", cfg.Devhub.RateLimitRPM)
	}
	if !cfg.Promote.AutoPromote {
		t.Error("AutoPromote should be true")
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Output.Format)
	}
}

func TestLoaderLoadFromMissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoaderSearchPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".forcelift.yml")
	if err := os.WriteFile(path, []byte("output:\n  format: yaml\n"), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	loader := NewLoader()
	loader.searchPaths = []string{dir}

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output.Format != "yaml" {
		t.Errorf("Format = %q, want yaml", cfg.Output.Format)
	}
	if loader.GetConfigPath() != path {
		t.Errorf("GetConfigPath() = %q, want %q", loader.GetConfigPath(), path)
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()

	if _, err := FindConfigFile(dir); err == nil {
		t.Fatal("expected not-found error in empty dir")
	}

	path := filepath.Join(dir, ".forcelift.yaml")
	if err := os.WriteFile(path, []byte(""), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	found, err := FindConfigFile(dir)
	if err != nil {
		t.Fatalf("FindConfigFile() error = %v", err)
	}
	if found != path {
		t.Errorf("FindConfigFile() = %q, want %q", found, path)
	}
}
