package bot

import (
	"fmt"
	"os"

	coreconfig "github.com/elphone/storebot/core/config"
	coredatabase "github.com/elphone/storebot/core/database"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config aggregates the core bot configuration with the database settings
// the storefront needs.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Core
}

// LoadConfig reads configuration from a YAML file, applies environment
// overrides, and validates the result.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if len(cfg.Core.Telegram.AdminIDs) == 0 {
		return nil, fmt.Errorf("telegram.admin_ids must list at least one administrator")
	}
	return &cfg, nil
}
