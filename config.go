package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config keys.
const (
	ConfigKeyModel     = "model"
	ConfigKeyBudget    = "budget"
	ConfigKeyAddr      = "addr"
	ConfigKeyWrapWidth = "wrap-width"
)

// Environment variable fallbacks.
const (
	envModel  = "DOCTRANS_MODEL"
	envBudget = "DOCTRANS_BUDGET"
	envAddr   = "DOCTRANS_ADDR"
)

// Defaults applied when neither the config file nor the environment sets
// a value.
const (
	defaultListenAddr = "127.0.0.1:5000"
)

// Config holds user configuration loaded from
// ~/.config/go-doctrans/config.yaml.
type Config struct {
	Model     string `yaml:"model"`
	Budget    int    `yaml:"budget"`
	Addr      string `yaml:"addr"`
	WrapWidth int    `yaml:"wrap-width"`
}

// configDir returns the configuration directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/go-doctrans.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "go-doctrans"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "go-doctrans"), nil
}

// configPath returns the full path to the config file.
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadConfig reads the configuration file and environment variables.
// Precedence: config file values, then environment fallbacks, then
// defaults. A missing file is not an error.
func LoadConfig() (Config, error) {
	var cfg Config

	path, err := configPath()
	if err != nil {
		return cfg, err
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("invalid config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	applyEnvFallbacks(&cfg)
	applyDefaults(&cfg)

	return cfg, nil
}

func applyEnvFallbacks(cfg *Config) {
	if cfg.Model == "" {
		cfg.Model = os.Getenv(envModel)
	}
	if cfg.Addr == "" {
		cfg.Addr = os.Getenv(envAddr)
	}
	if cfg.Budget == 0 {
		if v := os.Getenv(envBudget); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				cfg.Budget = n
			}
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Model == "" {
		cfg.Model = defaultTranslateModel
	}
	if cfg.Budget <= 0 {
		cfg.Budget = defaultTokenBudget
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultListenAddr
	}
	if cfg.WrapWidth <= 0 {
		cfg.WrapWidth = defaultWrapWidth
	}
}

// readConfigMap loads the raw config document, preserving keys this
// version does not know about.
func readConfigMap(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	values := make(map[string]any)
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return values, nil
}

// SaveConfigValue writes a single key to the config file, creating the
// directory and file if needed and preserving other values.
func SaveConfigValue(key string, value any) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	values, err := readConfigMap(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		values = make(map[string]any)
	}
	values[key] = value

	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("cannot encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("cannot write config: %w", err)
	}
	return nil
}
