package config

import (
	"fmt"
	"os"

	"dirsize/internal/query"

	"gopkg.in/yaml.v3"
)

type Config struct {
	query.Params `yaml:",inline"`

	// Strict aborts on unrecognized transcript lines instead of skipping them.
	Strict    bool     `yaml:"strict"`
	Exclude   []string `yaml:"exclude"`
	OutputDir string   `yaml:"output_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Params: query.DefaultParams(),
		Exclude: []string{
			".git/",
			".svn/",
			"node_modules/",
			"vendor/",
			"__pycache__/",
			".DS_Store",
			"Thumbs.db",
		},
		OutputDir: "output",
	}
}

// LoadConfig reads a YAML config. A missing file yields DefaultConfig, and
// keys absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if cfg.Exclude == nil {
		cfg.Exclude = []string{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Threshold < 0 {
		return fmt.Errorf("threshold must not be negative, got %d", c.Threshold)
	}
	if c.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive, got %d", c.Capacity)
	}
	if c.TargetFree < 0 || c.TargetFree > c.Capacity {
		return fmt.Errorf("target_free must be between 0 and capacity, got %d", c.TargetFree)
	}
	return nil
}
