package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load reads the configuration from a TOML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	expandEnvVars(&cfg)
	applyDefaults(&cfg)

	return &cfg, nil
}

// LoadOptional behaves like Load but falls back to defaults when the file
// does not exist. The bot runs without any config file.
func LoadOptional(path string) (*Config, bool, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), false, nil
	}
	return nil, false, err
}

// expandEnvVars expands environment references in string settings.
func expandEnvVars(c *Config) {
	c.Transport.Address = expandEnv(c.Transport.Address)
	c.Transport.AccessToken = expandEnv(c.Transport.AccessToken)

	c.Handlers.EatDataPath = expandHome(expandEnv(c.Handlers.EatDataPath))
	c.Handlers.CatAPIURL = expandEnv(c.Handlers.CatAPIURL)
	c.Handlers.DogAPIURL = expandEnv(c.Handlers.DogAPIURL)
	c.Handlers.PoemAPIURL = expandEnv(c.Handlers.PoemAPIURL)

	c.Broadcast.Timezone = expandEnv(c.Broadcast.Timezone)

	c.Logging.Output = expandHome(expandEnv(c.Logging.Output))
	c.Metrics.ListenAddr = expandEnv(c.Metrics.ListenAddr)
}

// expandEnv expands a ${VAR:default} reference.
func expandEnv(s string) string {
	if !strings.HasPrefix(s, "${") {
		return s
	}

	end := strings.Index(s, "}")
	if end == -1 {
		return s
	}

	content := s[2:end]
	if parts := strings.SplitN(content, ":", 2); len(parts) == 2 {
		if val := os.Getenv(parts[0]); val != "" {
			return val
		}
		return parts[1]
	}

	return os.Getenv(content)
}

// expandHome expands a leading ~ in a path.
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
