// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"IOTC_DB_PATH" envDefault:"./data/iotcentral.db"`
	SessionSecret string `env:"IOTC_SESSION_SECRET,required"`
	ServerHost    string `env:"IOTC_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"IOTC_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"IOTC_ENV" envDefault:"development"`
	LogLevel      string `env:"IOTC_LOG_LEVEL" envDefault:"info"`

	// Cache configuration
	RedisURL    string `env:"IOTC_REDIS_URL"`                       // Optional Redis URL for chat transcripts
	CachePrefix string `env:"IOTC_CACHE_PREFIX" envDefault:"iotc:"` // Redis key prefix

	// Chat completion service
	ChatAPIURL string `env:"IOTC_CHAT_API_URL" envDefault:"https://api.groq.com/openai/v1"`
	ChatAPIKey string `env:"IOTC_CHAT_API_KEY"`
	ChatModel  string `env:"IOTC_CHAT_MODEL" envDefault:"llama-3.3-70b-versatile"`

	// reCAPTCHA v3 for sign-up
	RecaptchaSiteKey   string `env:"IOTC_RECAPTCHA_SITE_KEY"`
	RecaptchaSecretKey string `env:"IOTC_RECAPTCHA_SECRET_KEY"`

	// Live dashboard timing
	FeedInterval   time.Duration `env:"IOTC_FEED_INTERVAL" envDefault:"3s"`
	StreamInterval time.Duration `env:"IOTC_STREAM_INTERVAL" envDefault:"2s"`

	// Retention of persisted warning/error events
	EventRetentionDays int `env:"IOTC_EVENT_RETENTION_DAYS" envDefault:"30"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// ChatEnabled returns true if a chat completion credential is configured.
func (c Config) ChatEnabled() bool {
	return c.ChatAPIKey != ""
}

// RecaptchaEnabled returns true if reCAPTCHA is configured.
func (c Config) RecaptchaEnabled() bool {
	return c.RecaptchaSiteKey != "" && c.RecaptchaSecretKey != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("IOTC_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("IOTC_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if cfg.FeedInterval <= 0 || cfg.StreamInterval <= 0 {
		return nil, fmt.Errorf("IOTC_FEED_INTERVAL and IOTC_STREAM_INTERVAL must be positive")
	}
	if cfg.EventRetentionDays < 1 {
		return nil, fmt.Errorf("IOTC_EVENT_RETENTION_DAYS must be at least 1, got %d", cfg.EventRetentionDays)
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("IOTC_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
