// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// Snapshot compression names accepted by cache.compression.
const (
	CompressionNone = "none"
	CompressionZstd = "zstd"
	CompressionLZ4  = "lz4"
)

// Config is the master configuration for a slackline client.
type Config struct {
	// Environment identifies the deployment type (development, staging, production).
	Environment Environment `yaml:"environment"`

	// API configures the HTTP request transport.
	API APIConfig `yaml:"api"`

	// Token configures where the workspace token comes from.
	Token TokenConfig `yaml:"token"`

	// RTM configures the real-time session supervisor.
	RTM RTMConfig `yaml:"rtm"`

	// Cache configures the entity cache and its snapshots.
	Cache CacheConfig `yaml:"cache"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `yaml:"metrics"`

	// EnvironmentOverrides contains per-environment overrides.
	// These are applied after the base config is loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	API     *APIConfig     `yaml:"api,omitempty"`
	Token   *TokenConfig   `yaml:"token,omitempty"`
	RTM     *RTMOverrides  `yaml:"rtm,omitempty"`
	Cache   *CacheConfig   `yaml:"cache,omitempty"`
	Metrics *MetricsConfig `yaml:"metrics,omitempty"`
}

// APIConfig configures the HTTP request transport.
type APIConfig struct {
	// BaseURL is prefixed to every method name. It must end in "/".
	// Default: https://slack.com/api/
	BaseURL string `yaml:"base_url"`

	// Timeout bounds a single HTTP call.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// RequestsPerSecond enables client-side rate limiting when positive.
	// Default: 0 (unlimited)
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Burst is the limiter's bucket size.
	// Default: 1
	Burst int `yaml:"burst"`
}

// TokenConfig selects exactly one token source.
type TokenConfig struct {
	// Env names an environment variable holding the token.
	// Default: SLACK_TOKEN
	Env string `yaml:"env"`

	// File is a file containing the plaintext token.
	File string `yaml:"file"`

	// SealedFile is an age-encrypted file containing the token.
	// Requires Identity.
	SealedFile string `yaml:"sealed_file"`

	// Identity is the age identity file that decrypts SealedFile.
	Identity string `yaml:"identity"`
}

// RTMConfig configures the real-time session supervisor.
type RTMConfig struct {
	// MigrationRetryBase is the first delay after a migration failure.
	// Default: 5s
	MigrationRetryBase time.Duration `yaml:"migration_retry_base"`

	// MigrationRetryIncrement is added per subsequent attempt.
	// Default: 5s
	MigrationRetryIncrement time.Duration `yaml:"migration_retry_increment"`

	// MigrationRetryAttempts bounds the number of retries.
	// Default: 5
	MigrationRetryAttempts int `yaml:"migration_retry_attempts"`

	// RetryIfMigrating enables the migration retry path at all.
	// Default: true
	RetryIfMigrating bool `yaml:"retry_if_migrating"`

	// GoodbyeWaitTime is how long to wait after a goodbye frame
	// before renegotiating.
	// Default: 1s
	GoodbyeWaitTime time.Duration `yaml:"goodbye_wait_time"`

	// AutoReconnect reconnects after goodbye and abnormal closes.
	// Default: true
	AutoReconnect bool `yaml:"auto_reconnect"`

	// PingInterval is the keepalive period. Zero disables keepalive.
	// Default: 30s
	PingInterval time.Duration `yaml:"ping_interval"`

	// PongTimeout is how long a ping may go unanswered.
	// Default: 10s
	PongTimeout time.Duration `yaml:"pong_timeout"`
}

// RTMOverrides mirrors RTMConfig with pointer booleans so that an
// override section can leave them unset.
type RTMOverrides struct {
	MigrationRetryBase      time.Duration `yaml:"migration_retry_base"`
	MigrationRetryIncrement time.Duration `yaml:"migration_retry_increment"`
	MigrationRetryAttempts  int           `yaml:"migration_retry_attempts"`
	RetryIfMigrating        *bool         `yaml:"retry_if_migrating"`
	GoodbyeWaitTime         time.Duration `yaml:"goodbye_wait_time"`
	AutoReconnect           *bool         `yaml:"auto_reconnect"`
	PingInterval            time.Duration `yaml:"ping_interval"`
	PongTimeout             time.Duration `yaml:"pong_timeout"`
}

// CacheConfig configures the entity cache.
type CacheConfig struct {
	// MessageLimit bounds each conversation's recent-message history.
	// Default: 100
	MessageLimit int `yaml:"message_limit"`

	// SnapshotPath is where the cache is persisted on Close and read
	// on Start. Empty disables snapshots.
	SnapshotPath string `yaml:"snapshot_path"`

	// Compression is one of none, zstd, lz4.
	// Default: zstd
	Compression string `yaml:"compression"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Listen is the address to serve /metrics on. Empty disables it.
	Listen string `yaml:"listen"`
}

// Default returns the default configuration.
// These defaults are used as a base before loading the config file.
func Default() *Config {
	return &Config{
		Environment: Development,
		API: APIConfig{
			BaseURL: "https://slack.com/api/",
			Timeout: 30 * time.Second,
			Burst:   1,
		},
		Token: TokenConfig{
			Env: "SLACK_TOKEN",
		},
		RTM: RTMConfig{
			MigrationRetryBase:      5 * time.Second,
			MigrationRetryIncrement: 5 * time.Second,
			MigrationRetryAttempts:  5,
			RetryIfMigrating:        true,
			GoodbyeWaitTime:         time.Second,
			AutoReconnect:           true,
			PingInterval:            30 * time.Second,
			PongTimeout:             10 * time.Second,
		},
		Cache: CacheConfig{
			MessageLimit: 100,
			Compression:  CompressionZstd,
		},
	}
}

// Load loads configuration from the SLACKLINE_CONFIG environment variable.
//
// There are no fallbacks or defaults: if SLACKLINE_CONFIG is not set,
// this fails.
func Load() (*Config, error) {
	configPath := os.Getenv("SLACKLINE_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("SLACKLINE_CONFIG environment variable not set; " +
			"set it to the path of your slackline.yaml config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// Environment variables do not override config values. The only
// expansion performed is ${VAR} and ${VAR:-default} in path fields.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// applyEnvironmentOverrides applies the environment-specific overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}

	if overrides == nil {
		return
	}

	if overrides.API != nil {
		if overrides.API.BaseURL != "" {
			c.API.BaseURL = overrides.API.BaseURL
		}
		if overrides.API.Timeout != 0 {
			c.API.Timeout = overrides.API.Timeout
		}
		if overrides.API.RequestsPerSecond != 0 {
			c.API.RequestsPerSecond = overrides.API.RequestsPerSecond
		}
		if overrides.API.Burst != 0 {
			c.API.Burst = overrides.API.Burst
		}
	}

	// A token override replaces the source entirely: mixing an env
	// source from the base with a sealed file from the override would
	// fail validation.
	if overrides.Token != nil {
		c.Token = *overrides.Token
	}

	if overrides.RTM != nil {
		rtm := overrides.RTM
		if rtm.MigrationRetryBase != 0 {
			c.RTM.MigrationRetryBase = rtm.MigrationRetryBase
		}
		if rtm.MigrationRetryIncrement != 0 {
			c.RTM.MigrationRetryIncrement = rtm.MigrationRetryIncrement
		}
		if rtm.MigrationRetryAttempts != 0 {
			c.RTM.MigrationRetryAttempts = rtm.MigrationRetryAttempts
		}
		if rtm.RetryIfMigrating != nil {
			c.RTM.RetryIfMigrating = *rtm.RetryIfMigrating
		}
		if rtm.GoodbyeWaitTime != 0 {
			c.RTM.GoodbyeWaitTime = rtm.GoodbyeWaitTime
		}
		if rtm.AutoReconnect != nil {
			c.RTM.AutoReconnect = *rtm.AutoReconnect
		}
		if rtm.PingInterval != 0 {
			c.RTM.PingInterval = rtm.PingInterval
		}
		if rtm.PongTimeout != 0 {
			c.RTM.PongTimeout = rtm.PongTimeout
		}
	}

	if overrides.Cache != nil {
		if overrides.Cache.MessageLimit != 0 {
			c.Cache.MessageLimit = overrides.Cache.MessageLimit
		}
		if overrides.Cache.SnapshotPath != "" {
			c.Cache.SnapshotPath = overrides.Cache.SnapshotPath
		}
		if overrides.Cache.Compression != "" {
			c.Cache.Compression = overrides.Cache.Compression
		}
	}

	if overrides.Metrics != nil && overrides.Metrics.Listen != "" {
		c.Metrics.Listen = overrides.Metrics.Listen
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Token.File = expandVars(c.Token.File, vars)
	c.Token.SealedFile = expandVars(c.Token.SealedFile, vars)
	c.Token.Identity = expandVars(c.Token.Identity, vars)
	c.Cache.SnapshotPath = expandVars(c.Cache.SnapshotPath, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.API.BaseURL == "" {
		errs = append(errs, fmt.Errorf("api.base_url is required"))
	} else if parsed, err := url.Parse(c.API.BaseURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		errs = append(errs, fmt.Errorf("api.base_url %q is not an absolute URL", c.API.BaseURL))
	} else if !strings.HasSuffix(c.API.BaseURL, "/") {
		errs = append(errs, fmt.Errorf("api.base_url must end in /"))
	}
	if c.API.Timeout < 0 {
		errs = append(errs, fmt.Errorf("api.timeout must not be negative"))
	}
	if c.API.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("api.requests_per_second must not be negative"))
	}
	if c.API.RequestsPerSecond > 0 && c.API.Burst < 1 {
		errs = append(errs, fmt.Errorf("api.burst must be at least 1 when rate limiting is enabled"))
	}

	sources := 0
	if c.Token.Env != "" {
		sources++
	}
	if c.Token.File != "" {
		sources++
	}
	if c.Token.SealedFile != "" {
		sources++
		if c.Token.Identity == "" {
			errs = append(errs, fmt.Errorf("token.identity is required with token.sealed_file"))
		}
	}
	if sources != 1 {
		errs = append(errs, fmt.Errorf("exactly one of token.env, token.file, token.sealed_file must be set (got %d)", sources))
	}

	if c.RTM.MigrationRetryBase < 0 || c.RTM.MigrationRetryIncrement < 0 {
		errs = append(errs, fmt.Errorf("rtm migration retry delays must not be negative"))
	}
	if c.RTM.MigrationRetryAttempts < 0 {
		errs = append(errs, fmt.Errorf("rtm.migration_retry_attempts must not be negative"))
	}
	if c.RTM.GoodbyeWaitTime < 0 {
		errs = append(errs, fmt.Errorf("rtm.goodbye_wait_time must not be negative"))
	}
	if c.RTM.PingInterval > 0 && c.RTM.PongTimeout <= 0 {
		errs = append(errs, fmt.Errorf("rtm.pong_timeout is required when rtm.ping_interval is set"))
	}

	if c.Cache.MessageLimit < 0 {
		errs = append(errs, fmt.Errorf("cache.message_limit must not be negative"))
	}
	compressionValues := []string{CompressionNone, CompressionZstd, CompressionLZ4}
	if !contains(compressionValues, c.Cache.Compression) {
		errs = append(errs, fmt.Errorf("cache.compression must be one of: %v", compressionValues))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
