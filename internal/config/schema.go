// Package config provides configuration loading and validation for cqbot.
// It supports TOML configuration files with environment variable expansion,
// default values, and validation.
//
// Configuration structure:
//   - [transport]: websocket address and connection settings
//   - [dispatch]: optional bound on concurrent handler tasks
//   - [handlers]: external service endpoints, timeouts and data files
//   - [broadcast]: the weekly scheduled group message
//   - [logging]: logging level, format, output and rotation
//   - [metrics]: Prometheus endpoint
//
// Environment variables:
// Values can reference ${VAR} or ${VAR:default}.
// For example: access_token = "${CQBOT_ACCESS_TOKEN:}"
package config

// Config represents the main application configuration.
type Config struct {
	Transport TransportConfig `toml:"transport"`
	Dispatch  DispatchConfig  `toml:"dispatch"`
	Handlers  HandlersConfig  `toml:"handlers"`
	Broadcast BroadcastConfig `toml:"broadcast"`
	Logging   LoggingConfig   `toml:"logging"`
	Metrics   MetricsConfig   `toml:"metrics"`
}

// TransportConfig describes the websocket connection.
type TransportConfig struct {
	Address             string `toml:"address"`
	AccessToken         string `toml:"access_token"`
	ReadLimitBytes      int64  `toml:"read_limit_bytes"`
	WriteTimeoutSeconds int    `toml:"write_timeout_seconds"`
	DialTimeoutSeconds  int    `toml:"dial_timeout_seconds"`
}

// DispatchConfig controls how handler tasks are scheduled.
// MaxWorkers = 0 spawns one goroutine per message with no bound.
type DispatchConfig struct {
	MaxWorkers int `toml:"max_workers"`
	QueueSize  int `toml:"queue_size"`
}

// HandlersConfig configures the command handlers.
type HandlersConfig struct {
	HTTPTimeoutSeconds int    `toml:"http_timeout_seconds"`
	EatDataPath        string `toml:"eat_data_path"`
	CatAPIURL          string `toml:"cat_api_url"`
	DogAPIURL          string `toml:"dog_api_url"`
	PoemAPIURL         string `toml:"poem_api_url"`
}

// BroadcastConfig describes the recurring group broadcast.
// Schedule is a standard five-field cron expression evaluated in Timezone.
type BroadcastConfig struct {
	Enabled  *bool  `toml:"enabled"`
	Schedule string `toml:"schedule"`
	Timezone string `toml:"timezone"`
	GroupID  uint64 `toml:"group_id"`
	Message  string `toml:"message"`
}

// IsEnabled reports whether the broadcast should run. Unset means enabled.
func (b BroadcastConfig) IsEnabled() bool {
	return b.Enabled == nil || *b.Enabled
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	Output     string `toml:"output"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled    bool   `toml:"enabled"`
	ListenAddr string `toml:"listen_addr"`
}
