package config

// Defaults match the deployment the bot was written for: a local OneBot
// websocket and the Saturday evening lottery reminder.
const (
	DefaultAddress          = "ws://127.0.0.1:54321"
	DefaultHTTPTimeout      = 5
	DefaultWriteTimeout     = 10
	DefaultDialTimeout      = 10
	DefaultReadLimitBytes   = 1 << 20
	DefaultDispatchQueue    = 100
	DefaultEatDataPath      = "./data/eat.yml"
	DefaultCatAPIURL        = "https://api.thecatapi.com/v1/images/search"
	DefaultDogAPIURL        = "https://api.thedogapi.com/v1/images/search"
	DefaultPoemAPIURL       = "https://v1.jinrishici.com/all.json"
	DefaultBroadcastCron    = "0 21 * * 6"
	DefaultBroadcastTZ      = "Local"
	DefaultBroadcastGroupID = 790720353
	DefaultBroadcastMessage = "仙人仙彩开奖啦，请记得到金碟游乐场 (X: 8.6, Y: 5.7)处兑换奖励哦~"
	DefaultMetricsAddr      = "127.0.0.1:9464"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills unset fields.
func applyDefaults(c *Config) {
	if c.Transport.Address == "" {
		c.Transport.Address = DefaultAddress
	}
	if c.Transport.ReadLimitBytes == 0 {
		c.Transport.ReadLimitBytes = DefaultReadLimitBytes
	}
	if c.Transport.WriteTimeoutSeconds == 0 {
		c.Transport.WriteTimeoutSeconds = DefaultWriteTimeout
	}
	if c.Transport.DialTimeoutSeconds == 0 {
		c.Transport.DialTimeoutSeconds = DefaultDialTimeout
	}

	if c.Dispatch.QueueSize == 0 {
		c.Dispatch.QueueSize = DefaultDispatchQueue
	}

	if c.Handlers.HTTPTimeoutSeconds == 0 {
		c.Handlers.HTTPTimeoutSeconds = DefaultHTTPTimeout
	}
	if c.Handlers.EatDataPath == "" {
		c.Handlers.EatDataPath = DefaultEatDataPath
	}
	if c.Handlers.CatAPIURL == "" {
		c.Handlers.CatAPIURL = DefaultCatAPIURL
	}
	if c.Handlers.DogAPIURL == "" {
		c.Handlers.DogAPIURL = DefaultDogAPIURL
	}
	if c.Handlers.PoemAPIURL == "" {
		c.Handlers.PoemAPIURL = DefaultPoemAPIURL
	}

	if c.Broadcast.Schedule == "" {
		c.Broadcast.Schedule = DefaultBroadcastCron
	}
	if c.Broadcast.Timezone == "" {
		c.Broadcast.Timezone = DefaultBroadcastTZ
	}
	if c.Broadcast.GroupID == 0 {
		c.Broadcast.GroupID = DefaultBroadcastGroupID
	}
	if c.Broadcast.Message == "" {
		c.Broadcast.Message = DefaultBroadcastMessage
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}

	if c.Metrics.ListenAddr == "" {
		c.Metrics.ListenAddr = DefaultMetricsAddr
	}
}
