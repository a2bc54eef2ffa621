// LodgeLink - Property Management System Integration Bridge
// Copyright 2026 LodgeLink Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodgelink/lodgelink

package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.PMS.URL = "https://pms.example-retreat.com"
	cfg.PMS.SiteID = "site-42"
	cfg.PMS.Token = "secret"
	return cfg
}

func TestValidateAcceptsDefaultsWithCredentials(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{
			name:   "missing pms url",
			mutate: func(c *Config) { c.PMS.URL = "" },
		},
		{
			name:   "malformed pms url",
			mutate: func(c *Config) { c.PMS.URL = "not a url" },
		},
		{
			name:   "missing site id",
			mutate: func(c *Config) { c.PMS.SiteID = "" },
		},
		{
			name:   "missing token",
			mutate: func(c *Config) { c.PMS.Token = "" },
		},
		{
			name:    "ping timeout exceeds timeout",
			mutate:  func(c *Config) { c.PMS.PingTimeout = time.Minute },
			wantSub: "ping_timeout",
		},
		{
			name:    "zero domain timeout",
			mutate:  func(c *Config) { c.Sync.DomainTimeout = 0 },
			wantSub: "domain_timeout",
		},
		{
			name: "periodic sync interval too short",
			mutate: func(c *Config) {
				c.Sync.Enabled = true
				c.Sync.Interval = 10 * time.Second
			},
			wantSub: "sync.interval",
		},
		{
			name: "missing store path without in-memory",
			mutate: func(c *Config) {
				c.Store.Path = ""
				c.Store.InMemory = false
			},
			wantSub: "store.path",
		},
		{
			name:   "page size out of range",
			mutate: func(c *Config) { c.PMS.PageSize = 5000 },
		},
		{
			name:   "invalid log level",
			mutate: func(c *Config) { c.Logging.Level = "verbose" },
		},
		{
			name:   "port out of range",
			mutate: func(c *Config) { c.Server.Port = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if tt.wantSub != "" && !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("expected error to mention %q, got %q", tt.wantSub, err.Error())
			}
		})
	}
}

func TestDefaultConfigValues(t *testing.T) {
	cfg := defaultConfig()
	if cfg.PMS.Timeout != 30*time.Second || cfg.PMS.PingTimeout != 5*time.Second {
		t.Errorf("unexpected PMS timeouts: %+v", cfg.PMS)
	}
	if cfg.PMS.PageSize != 200 {
		t.Errorf("unexpected page size %d", cfg.PMS.PageSize)
	}
	if cfg.Sync.Enabled {
		t.Error("periodic sync must be off by default")
	}
	if cfg.Sync.Concurrency != 6 || cfg.Sync.DomainTimeout != 30*time.Second {
		t.Errorf("unexpected sync defaults: %+v", cfg.Sync)
	}
	if cfg.Server.Port != 8480 {
		t.Errorf("unexpected port %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PMS_URL", "https://pms.example-retreat.com")
	t.Setenv("PMS_SITE_ID", "site-7")
	t.Setenv("PMS_TOKEN", "tok")
	t.Setenv("STORE_PATH", t.TempDir())
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.PMS.SiteID != "site-7" {
		t.Errorf("expected site-7, got %q", cfg.PMS.SiteID)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[0] != "https://a.example" {
		t.Errorf("expected split CORS origins, got %v", cfg.Security.CORSOrigins)
	}
}

func TestEnvTransformFuncSkipsUnknown(t *testing.T) {
	if got := envTransformFunc("PMS_URL"); got != "pms.url" {
		t.Errorf("expected pms.url, got %q", got)
	}
	if got := envTransformFunc("PATH"); got != "" {
		t.Errorf("expected unknown vars to be skipped, got %q", got)
	}
}
