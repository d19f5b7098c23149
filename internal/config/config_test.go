// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"testing"
	"time"
)

const testSecret = "test-secret-key-32-bytes-long!!!"

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	setEnv(t, "IOTC_SESSION_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/iotcentral.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/iotcentral.db")
	}
	if cfg.ServerAddr() != "localhost:8080" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "localhost:8080")
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.ChatModel != "llama-3.3-70b-versatile" {
		t.Errorf("ChatModel = %q, want %q", cfg.ChatModel, "llama-3.3-70b-versatile")
	}
	if cfg.ChatAPIURL != "https://api.groq.com/openai/v1" {
		t.Errorf("ChatAPIURL = %q", cfg.ChatAPIURL)
	}
	if cfg.FeedInterval != 3*time.Second {
		t.Errorf("FeedInterval = %v, want 3s", cfg.FeedInterval)
	}
	if cfg.StreamInterval != 2*time.Second {
		t.Errorf("StreamInterval = %v, want 2s", cfg.StreamInterval)
	}
	if cfg.EventRetentionDays != 30 {
		t.Errorf("EventRetentionDays = %d, want 30", cfg.EventRetentionDays)
	}
	if cfg.UseRedisCache() || cfg.ChatEnabled() || cfg.RecaptchaEnabled() {
		t.Error("optional integrations should be disabled by default")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	setEnv(t, "IOTC_SESSION_SECRET", testSecret)
	setEnv(t, "IOTC_SERVER_HOST", "0.0.0.0")
	setEnv(t, "IOTC_SERVER_PORT", "3000")
	setEnv(t, "IOTC_ENV", "production")
	setEnv(t, "IOTC_REDIS_URL", "redis://localhost:6379/0")
	setEnv(t, "IOTC_CHAT_API_KEY", "gsk_test")
	setEnv(t, "IOTC_RECAPTCHA_SITE_KEY", "site")
	setEnv(t, "IOTC_RECAPTCHA_SECRET_KEY", "secret")
	setEnv(t, "IOTC_FEED_INTERVAL", "500ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "0.0.0.0:3000")
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false")
	}
	if !cfg.UseRedisCache() {
		t.Error("UseRedisCache() = false, want true")
	}
	if !cfg.ChatEnabled() {
		t.Error("ChatEnabled() = false, want true")
	}
	if !cfg.RecaptchaEnabled() {
		t.Error("RecaptchaEnabled() = false, want true")
	}
	if cfg.FeedInterval != 500*time.Millisecond {
		t.Errorf("FeedInterval = %v, want 500ms", cfg.FeedInterval)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	os.Clearenv()
	if _, err := Load(); err == nil {
		t.Error("Load() should fail without IOTC_SESSION_SECRET")
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	os.Clearenv()
	setEnv(t, "IOTC_SESSION_SECRET", "short")
	if _, err := Load(); err == nil {
		t.Error("Load() should reject a short secret")
	}
}

func TestLoad_WeakSecret(t *testing.T) {
	os.Clearenv()
	setEnv(t, "IOTC_SESSION_SECRET", "change-me-to-32-byte-secret-key!")
	if _, err := Load(); err == nil {
		t.Error("Load() should reject a known default secret")
	}
}

func TestLoad_InvalidRetention(t *testing.T) {
	os.Clearenv()
	setEnv(t, "IOTC_SESSION_SECRET", testSecret)
	setEnv(t, "IOTC_EVENT_RETENTION_DAYS", "0")
	if _, err := Load(); err == nil {
		t.Error("Load() should reject zero retention")
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", false},
		{"abcABC123", true},
		{"abc-123", true},
		{"ABCDEF", false},
	}
	for _, tt := range tests {
		if got := hasMinimumEntropy(tt.in); got != tt.want {
			t.Errorf("hasMinimumEntropy(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}
}
