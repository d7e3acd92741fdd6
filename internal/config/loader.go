package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load loads and merges configuration from global and project sources
func Load() (*Config, error) {
	cfg := DefaultConfig()

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, nil // Return defaults if no home dir
	}

	cwd, err := os.Getwd()
	if err != nil {
		return cfg, nil // Return defaults if no cwd
	}

	// Load global config first
	globalPath := filepath.Join(home, ".hub", "config.yaml")
	if err := loadFile(globalPath, cfg); err != nil && !os.IsNotExist(err) {
		// Log warning but continue with defaults
	}

	// Load project config (overrides global)
	projectPath := filepath.Join(cwd, "hub.yaml")
	if err := loadFile(projectPath, cfg); err != nil && !os.IsNotExist(err) {
		// Log warning but continue
	}

	applyEnv(cfg)

	// Auto-detect project name if not set
	if cfg.Project.Name == "" {
		cfg.Project.Name = filepath.Base(cwd)
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	if err := v.Unmarshal(cfg); err != nil {
		return err
	}
	// Unmarshal merges slices element-wise over the defaults; a file that
	// narrows the allow-list must replace it outright.
	if v.IsSet("relay.allowed_origins") {
		cfg.Relay.AllowedOrigins = v.GetStringSlice("relay.allowed_origins")
	}
	return nil
}

// applyEnv layers deployment environment variables over the file config.
func applyEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("HUB_ADDR"); v != "" {
		cfg.Server.Addr = v
	} else if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Addr = ":" + v
	}
	if v := os.Getenv("RELAY_TELEMETRY_URL"); v != "" {
		cfg.Relay.TelemetryURL = v
	}
	if v := os.Getenv("RELAY_COMMAND_URL"); v != "" {
		cfg.Relay.CommandURL = v
	}
	if v := os.Getenv("RELAY_ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.Relay.AllowedOrigins = origins
	}
}

// GlobalConfigPath returns the path to the global config file
func GlobalConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".hub", "config.yaml")
}

// ProjectConfigPath returns the path to the project config file
func ProjectConfigPath() string {
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, "hub.yaml")
}

// GlobalHubPath returns the path to the global hub directory
func GlobalHubPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".hub")
}
