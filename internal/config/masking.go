package config

import (
	"strings"
)

// maskSecret hides a secret, keeping only its first and last 4 characters.
func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}

	if len(secret) < 8 {
		return "***"
	}

	return secret[:4] + strings.Repeat("*", len(secret)-8) + secret[len(secret)-4:]
}

// MaskedAccessToken returns the transport token safe for logs.
func (c *Config) MaskedAccessToken() string {
	return maskSecret(c.Transport.AccessToken)
}
