package constants

// DefaultEnvPath is the default path to the .env file
const DefaultEnvPath = "./.env"

// DefaultConfigPath is the default path to the config.toml file
const DefaultConfigPath = "./config.toml"

// MetricsNamespace prefixes every Prometheus metric name.
const MetricsNamespace = "cqbot"
