// Package config handles loading and validating the updater configuration from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Failure classes callers can branch on with errors.Is.
var (
	// ErrNotFound indicates the path does not resolve to a readable file.
	ErrNotFound = errors.New("config file not found")
	// ErrMalformed indicates the file exists but is not valid YAML.
	ErrMalformed = errors.New("malformed config")
)

// MissingKeyError indicates a required key is absent or empty.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("missing required key: %s", e.Key)
}

// Config holds the credentials and record identity for one run.
type Config struct {
	APIToken string `yaml:"api_token"`
	ZoneID   string `yaml:"zone_id"`
	Domain   string `yaml:"domain"`
}

// Load reads the configuration file at path.
// All three keys (api_token, zone_id, domain) are required;
// unknown keys are ignored. Load has no side effects beyond reading the file.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is from CLI argument
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	required := []struct {
		key   string
		value string
	}{
		{"api_token", cfg.APIToken},
		{"zone_id", cfg.ZoneID},
		{"domain", cfg.Domain},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, &MissingKeyError{Key: r.key}
		}
	}

	return &cfg, nil
}

// CheckPermissions returns an error when the file at path is accessible by
// group or world. The file holds an API token, so owner-only access is expected.
// Callers treat this as advisory; an unreadable path is left for Load to classify.
func CheckPermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		return fmt.Errorf("config file %s has mode %04o, expected owner-only access (0600)", path, perm)
	}
	return nil
}
