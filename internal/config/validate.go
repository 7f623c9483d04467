package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Validate checks the configuration and collects every problem found.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, c.Transport.validate()...)

	if c.Dispatch.MaxWorkers < 0 {
		errs = append(errs, fmt.Errorf("dispatch.max_workers must be >= 0"))
	}
	if c.Dispatch.MaxWorkers > 0 && c.Dispatch.QueueSize < 1 {
		errs = append(errs, fmt.Errorf("dispatch.queue_size must be >= 1 when dispatch.max_workers > 0"))
	}

	if c.Handlers.HTTPTimeoutSeconds < 1 {
		errs = append(errs, fmt.Errorf("handlers.http_timeout_seconds must be >= 1"))
	}
	for field, raw := range map[string]string{
		"handlers.cat_api_url":  c.Handlers.CatAPIURL,
		"handlers.dog_api_url":  c.Handlers.DogAPIURL,
		"handlers.poem_api_url": c.Handlers.PoemAPIURL,
	} {
		if err := validateHTTPURL(raw, field); err != nil {
			errs = append(errs, err)
		}
	}

	if c.Broadcast.IsEnabled() {
		if err := c.Broadcast.validate(); err != nil {
			errs = append(errs, err)
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid logging.level: %s (expected: debug, info, warn, error)", c.Logging.Level))
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Errorf("invalid logging.format: %s (expected: json, text)", c.Logging.Format))
	}
	if c.Logging.Output == "" {
		errs = append(errs, fmt.Errorf("logging.output is required"))
	}

	if c.Metrics.Enabled && c.Metrics.ListenAddr == "" {
		errs = append(errs, fmt.Errorf("metrics.listen_addr is required when metrics are enabled"))
	}

	return errs
}

func (t TransportConfig) validate() []error {
	var errs []error

	u, err := url.Parse(t.Address)
	switch {
	case t.Address == "":
		errs = append(errs, fmt.Errorf("transport.address is required"))
	case err != nil:
		errs = append(errs, fmt.Errorf("transport.address is not a valid URL: %w", err))
	case u.Scheme != "ws" && u.Scheme != "wss":
		errs = append(errs, fmt.Errorf("transport.address must use ws:// or wss:// (got %q)", u.Scheme))
	}

	if t.AccessToken != "" && len(t.AccessToken) < 4 {
		errs = append(errs, fmt.Errorf("transport.access_token is too short (got %s)", maskSecret(t.AccessToken)))
	}
	if t.ReadLimitBytes < 0 {
		errs = append(errs, fmt.Errorf("transport.read_limit_bytes must be >= 0"))
	}
	if t.WriteTimeoutSeconds < 1 {
		errs = append(errs, fmt.Errorf("transport.write_timeout_seconds must be >= 1"))
	}
	if t.DialTimeoutSeconds < 1 {
		errs = append(errs, fmt.Errorf("transport.dial_timeout_seconds must be >= 1"))
	}
	return errs
}

func (b BroadcastConfig) validate() error {
	if _, err := time.LoadLocation(b.Timezone); err != nil {
		return fmt.Errorf("broadcast.timezone %q: %w", b.Timezone, err)
	}
	if strings.HasPrefix(b.Schedule, "TZ=") || strings.HasPrefix(b.Schedule, "CRON_TZ=") {
		return fmt.Errorf("broadcast.schedule must not embed a timezone; use broadcast.timezone")
	}
	if _, err := cron.ParseStandard(b.Schedule); err != nil {
		return fmt.Errorf("broadcast.schedule %q: %w", b.Schedule, err)
	}
	if b.GroupID == 0 {
		return fmt.Errorf("broadcast.group_id is required")
	}
	if strings.TrimSpace(b.Message) == "" {
		return fmt.Errorf("broadcast.message is required")
	}
	return nil
}

func validateHTTPURL(raw, fieldName string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", fieldName, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL", fieldName)
	}
	return nil
}
