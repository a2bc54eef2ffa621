// LodgeLink - Property Management System Integration Bridge
// Copyright 2026 LodgeLink Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodgelink/lodgelink

// Package config loads and validates LodgeLink configuration.
//
// Configuration is layered via Koanf v2 (highest priority wins):
//  1. Environment variables
//  2. Optional YAML config file
//  3. Built-in defaults
package config

import (
	"fmt"
	"time"

	"github.com/lodgelink/lodgelink/internal/validation"
)

// Config is the root configuration for the LodgeLink server.
type Config struct {
	PMS      PMSConfig      `koanf:"pms"`
	Sync     SyncConfig     `koanf:"sync"`
	Store    StoreConfig    `koanf:"store"`
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// PMSConfig holds the connection settings for the upstream Property
// Management System. The client is constructed from this struct and passed
// by reference wherever it is needed; there is no process-wide singleton.
type PMSConfig struct {
	// URL is the PMS base URL, e.g. "https://pms.example.com".
	URL string `koanf:"url" validate:"required,url"`

	// SiteID identifies the property within the PMS account.
	SiteID string `koanf:"site_id" validate:"required"`

	// Token authenticates every request (X-PMS-Token header).
	Token string `koanf:"token" validate:"required"`

	// Timeout bounds a single upstream call.
	Timeout time.Duration `koanf:"timeout"`

	// PingTimeout bounds the cheap connectivity probe. Kept short so an
	// unreachable PMS is reported quickly.
	PingTimeout time.Duration `koanf:"ping_timeout"`

	// RateLimit caps outbound requests per second; RateBurst is the
	// limiter's burst size. The upstream documents no limit, so the
	// defaults stay conservative.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`

	// PageSize is the page length requested from paginated endpoints.
	PageSize int `koanf:"page_size" validate:"gte=1,lte=1000"`
}

// SyncConfig controls the sync orchestrator.
type SyncConfig struct {
	// Enabled starts the periodic background sync service.
	Enabled bool `koanf:"enabled"`

	// Interval between periodic full syncs.
	Interval time.Duration `koanf:"interval"`

	// Concurrency caps in-flight domain fetches within one run.
	Concurrency int `koanf:"concurrency" validate:"gte=1,lte=16"`

	// DomainTimeout bounds one domain's fetch-and-upsert so a stalled
	// domain cannot stall the whole run.
	DomainTimeout time.Duration `koanf:"domain_timeout"`
}

// StoreConfig controls the local BadgerDB store.
type StoreConfig struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string `koanf:"path"`

	// InMemory runs the store without disk persistence (tests, dev).
	InMemory bool `koanf:"in_memory"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port" validate:"gte=1,lte=65535"`
	Timeout time.Duration `koanf:"timeout"`
}

// SecurityConfig holds the transport-level protections LodgeLink applies
// itself. Authentication and authorization are handled by the surrounding
// deployment and are out of scope here.
type SecurityConfig struct {
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for consistency. It is called by
// Load after all layers are merged.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	if c.PMS.Timeout <= 0 {
		return fmt.Errorf("pms.timeout must be positive, got %s", c.PMS.Timeout)
	}
	if c.PMS.PingTimeout <= 0 {
		return fmt.Errorf("pms.ping_timeout must be positive, got %s", c.PMS.PingTimeout)
	}
	if c.PMS.PingTimeout > c.PMS.Timeout {
		return fmt.Errorf("pms.ping_timeout (%s) must not exceed pms.timeout (%s)", c.PMS.PingTimeout, c.PMS.Timeout)
	}
	if c.Sync.DomainTimeout <= 0 {
		return fmt.Errorf("sync.domain_timeout must be positive, got %s", c.Sync.DomainTimeout)
	}
	if c.Sync.Enabled && c.Sync.Interval < time.Minute {
		return fmt.Errorf("sync.interval must be at least 1m when periodic sync is enabled, got %s", c.Sync.Interval)
	}
	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("store.path is required unless store.in_memory is set")
	}
	return nil
}
