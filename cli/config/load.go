package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is consulted when Load is called with an empty path and the
// CUE_CONFIG environment variable is unset.
const DefaultPath = "cue.yaml"

// Load reads a YAML session config, expanding ${VAR} references against the
// environment before unmarshaling. An empty path falls back to $CUE_CONFIG,
// then DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CUE_CONFIG")
	}
	if path == "" {
		path = DefaultPath
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("cannot read config file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(ExpandEnv(string(raw))), &cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	return &cfg, nil
}
