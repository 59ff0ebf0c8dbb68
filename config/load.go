package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Load reads the optional YAML file at path and then applies ITSM_* environment
// overrides. An empty path means environment only.
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig
	path = strings.TrimSpace(path)
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("config %s: %w", path, err)
			}
			path = ""
		}
	}
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if cfg.Assistant.APIKey == "" {
		cfg.Assistant.APIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if strings.TrimSpace(c.ListenAddr) == "" {
		return errors.New("listen_addr is required")
	}
	if c.Storage.EffectiveDriver() == DriverPostgres && strings.TrimSpace(c.Storage.URL) == "" {
		return errors.New("storage.url is required for postgres")
	}
	if c.Security.AssistantRatePerMin < 0 {
		return errors.New("security.assistant_rate_per_min must not be negative")
	}
	return nil
}
