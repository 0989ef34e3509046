package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultListen is the server address used when the config omits one.
const DefaultListen = ":8080"

// Config describes a server deployment: the listen address, the lock tree
// topology, and the guard selection.
type Config struct {
	Listen    string   `yaml:"listen"`
	Branching int      `yaml:"branching"`
	Nodes     []string `yaml:"nodes"`
	Ordered   bool     `yaml:"ordered"`
}

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates YAML config data.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	if cfg.Branching < 1 {
		return nil, fmt.Errorf("config: branching must be at least 1, got %d", cfg.Branching)
	}
	if len(cfg.Nodes) == 0 {
		return nil, fmt.Errorf("config: at least one node is required")
	}
	return &cfg, nil
}
