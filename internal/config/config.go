package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/forgo/raidsign/internal/model"
)

// FileEnv names the optional YAML file whose values become the defaults
const FileEnv = "RAIDSIGN_CONFIG"

// Database drivers
const (
	DriverSurrealDB = "surrealdb"
	DriverMemory    = "memory"
)

// Config holds all application configuration
type Config struct {
	Bot       BotConfig       `yaml:"bot"`
	Database  DatabaseConfig  `yaml:"database"`
	Raid      RaidConfig      `yaml:"raid"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
}

// BotConfig holds chat gateway settings
type BotConfig struct {
	Token          string        `yaml:"token"`
	Prefix         string        `yaml:"prefix"`
	CommandTimeout time.Duration `yaml:"command_timeout"`
	// AllowedGuilds limits the bot to these guild ids; empty allows all
	AllowedGuilds []string `yaml:"allowed_guilds"`
	// DedupeTTL is how long a handled message id is remembered; 0 disables
	DedupeTTL time.Duration `yaml:"dedupe_ttl"`
}

// DatabaseConfig holds document store settings
type DatabaseConfig struct {
	Driver    string `yaml:"driver"`
	Host      string `yaml:"host"`
	Port      string `yaml:"port"`
	Namespace string `yaml:"namespace"`
	Database  string `yaml:"database"`
	User      string `yaml:"user"`
	Password  string `yaml:"password"`
}

// RaidConfig holds raid behaviour policies
type RaidConfig struct {
	NamePolicy        model.RaidNamePolicy    `yaml:"name_policy"`
	UnknownRolePolicy model.UnknownRolePolicy `yaml:"unknown_role_policy"`
	Locking           bool                    `yaml:"locking"`
	DeleteChunkSize   int                     `yaml:"delete_chunk_size"`
	DeleteMaxAttempts int                     `yaml:"delete_max_attempts"`
	DeleteConcurrency int                     `yaml:"delete_concurrency"`
}

// RateLimitConfig holds per-author command rate limits
type RateLimitConfig struct {
	Enabled bool          `yaml:"enabled"`
	Rate    int           `yaml:"rate"`
	Window  time.Duration `yaml:"window"`
	Burst   int           `yaml:"burst"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Bot: BotConfig{
			Prefix:         model.DefaultPrefix,
			CommandTimeout: 10 * time.Second,
			DedupeTTL:      10 * time.Minute,
		},
		Database: DatabaseConfig{
			Driver:    DriverSurrealDB,
			Host:      "localhost",
			Port:      "8000",
			Namespace: "raidsign",
			Database:  "main",
			User:      "root",
			Password:  "root",
		},
		Raid: RaidConfig{
			NamePolicy:        model.RaidNameFirst,
			UnknownRolePolicy: model.UnknownRoleDrop,
			DeleteChunkSize:   100,
			DeleteMaxAttempts: 3,
			DeleteConcurrency: 4,
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			Rate:    5,
			Window:  10 * time.Second,
			Burst:   3,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, the optional RAIDSIGN_CONFIG
// YAML file, and environment variables, in increasing precedence.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(FileEnv); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Bot.Token = getEnv("DISCORD_TOKEN", c.Bot.Token)
	c.Bot.Prefix = getEnv("COMMAND_PREFIX", c.Bot.Prefix)
	c.Bot.CommandTimeout = getDurationEnv("COMMAND_TIMEOUT", c.Bot.CommandTimeout)
	c.Bot.AllowedGuilds = getSliceEnv("ALLOWED_GUILDS", c.Bot.AllowedGuilds)
	c.Bot.DedupeTTL = getDurationEnv("DEDUPE_TTL", c.Bot.DedupeTTL)

	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.Namespace = getEnv("DB_NAMESPACE", c.Database.Namespace)
	c.Database.Database = getEnv("DB_DATABASE", c.Database.Database)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)

	c.Raid.NamePolicy = model.RaidNamePolicy(getEnv("RAID_NAME_POLICY", string(c.Raid.NamePolicy)))
	c.Raid.UnknownRolePolicy = model.UnknownRolePolicy(getEnv("UNKNOWN_ROLE_POLICY", string(c.Raid.UnknownRolePolicy)))
	c.Raid.Locking = getBoolEnv("RAID_LOCKING", c.Raid.Locking)
	c.Raid.DeleteChunkSize = getIntEnv("DELETE_CHUNK_SIZE", c.Raid.DeleteChunkSize)
	c.Raid.DeleteMaxAttempts = getIntEnv("DELETE_MAX_ATTEMPTS", c.Raid.DeleteMaxAttempts)
	c.Raid.DeleteConcurrency = getIntEnv("DELETE_CONCURRENCY", c.Raid.DeleteConcurrency)

	c.RateLimit.Enabled = getBoolEnv("RATE_LIMIT_ENABLED", c.RateLimit.Enabled)
	c.RateLimit.Rate = getIntEnv("RATE_LIMIT_RATE", c.RateLimit.Rate)
	c.RateLimit.Window = getDurationEnv("RATE_LIMIT_WINDOW", c.RateLimit.Window)
	c.RateLimit.Burst = getIntEnv("RATE_LIMIT_BURST", c.RateLimit.Burst)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

// IsMemory reports whether raids live in process memory only
func (c *Config) IsMemory() bool {
	return c.Database.Driver == DriverMemory
}

// Validate checks that all configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Bot validation
	if c.Bot.Prefix == "" || strings.ContainsAny(c.Bot.Prefix, " \t\n") {
		errs = append(errs, fmt.Errorf("COMMAND_PREFIX must be non-empty and contain no whitespace, got '%s'", c.Bot.Prefix))
	}
	if c.Bot.CommandTimeout < 0 {
		errs = append(errs, errors.New("COMMAND_TIMEOUT must not be negative"))
	}
	if c.Bot.DedupeTTL < 0 {
		errs = append(errs, errors.New("DEDUPE_TTL must not be negative"))
	}

	// Database validation
	switch c.Database.Driver {
	case DriverMemory:
	case DriverSurrealDB:
		if c.Database.Host == "" {
			errs = append(errs, errors.New("DB_HOST is required"))
		}
		if c.Database.Port == "" {
			errs = append(errs, errors.New("DB_PORT is required"))
		}
		if c.Database.Namespace == "" {
			errs = append(errs, errors.New("DB_NAMESPACE is required"))
		}
		if c.Database.Database == "" {
			errs = append(errs, errors.New("DB_DATABASE is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be '%s' or '%s', got '%s'", DriverSurrealDB, DriverMemory, c.Database.Driver))
	}

	// Raid policy validation
	if !c.Raid.NamePolicy.IsValid() {
		errs = append(errs, fmt.Errorf("RAID_NAME_POLICY must be 'first' or 'unique', got '%s'", c.Raid.NamePolicy))
	}
	if !c.Raid.UnknownRolePolicy.IsValid() {
		errs = append(errs, fmt.Errorf("UNKNOWN_ROLE_POLICY must be 'drop' or 'bucket', got '%s'", c.Raid.UnknownRolePolicy))
	}
	if c.Raid.DeleteChunkSize <= 0 {
		errs = append(errs, errors.New("DELETE_CHUNK_SIZE must be positive"))
	}
	if c.Raid.DeleteMaxAttempts <= 0 {
		errs = append(errs, errors.New("DELETE_MAX_ATTEMPTS must be positive"))
	}
	if c.Raid.DeleteConcurrency <= 0 {
		errs = append(errs, errors.New("DELETE_CONCURRENCY must be positive"))
	}

	// Rate limit validation
	if c.RateLimit.Enabled {
		if c.RateLimit.Rate <= 0 {
			errs = append(errs, errors.New("RATE_LIMIT_RATE must be positive"))
		}
		if c.RateLimit.Window <= 0 {
			errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive"))
		}
		if c.RateLimit.Burst <= 0 {
			errs = append(errs, errors.New("RATE_LIMIT_BURST must be positive"))
		}
	}

	// Log validation
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be 'json' or 'text', got '%s'", c.Log.Format))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// RequireToken reports a missing DISCORD_TOKEN. Only the bot binary needs one.
func (c *Config) RequireToken() error {
	if c.Bot.Token == "" {
		return errors.New("DISCORD_TOKEN is required")
	}
	return nil
}

// SlogLevel parses Level as a slog level
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return level, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got '%s'", l.Level)
	}
	return level, nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
