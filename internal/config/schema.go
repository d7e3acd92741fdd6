package config

// Config represents the full hub configuration
type Config struct {
	Version string `yaml:"version" mapstructure:"version"`

	// Project-specific settings (only in project config)
	Project ProjectConfig `yaml:"project" mapstructure:"project"`

	// Dashboard server configuration
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// Database configuration
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`

	// Relay configuration
	Relay RelayConfig `yaml:"relay" mapstructure:"relay"`
}

// ProjectConfig holds project-specific settings
type ProjectConfig struct {
	Name string `yaml:"name" mapstructure:"name"`
}

// ServerConfig configures the dashboard HTTP server
type ServerConfig struct {
	Addr    string `yaml:"addr" mapstructure:"addr"`
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// DatabaseConfig configures the backing store
type DatabaseConfig struct {
	// URL is a postgres:// DSN or a SQLite file path
	URL           string `yaml:"url" mapstructure:"url"`
	RunMigrations bool   `yaml:"run_migrations" mapstructure:"run_migrations"`
}

// RelayConfig configures the automation backend relay
type RelayConfig struct {
	Addr           string   `yaml:"addr" mapstructure:"addr"`
	TelemetryURL   string   `yaml:"telemetry_url" mapstructure:"telemetry_url"`
	CommandURL     string   `yaml:"command_url" mapstructure:"command_url"`
	TimeoutSeconds int      `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}
