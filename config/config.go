// Package config loads application configuration from environment variables
// via viper. Every setting has a default; only the spreadsheet credentials
// are required in production.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sozow-hub/mentor-match/pkg/timeutil"

	"github.com/spf13/viper"
)

// Environment represents the application environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// Config holds all application configuration.
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Sheets   SheetsConfig
	Sync     SyncConfig
	Matching MatchingConfig

	Observability ObservabilityConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string
	Environment Environment
	Version     string

	// Timezone for schedules and logs (default: Asia/Tokyo).
	Timezone string
	Location *time.Location

	ShutdownTimeout time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	EnableCORS     bool
	AllowedOrigins []string

	RateLimitPerMinute int

	// AdminAPIKeyHash is the bcrypt hash of the key protecting POST /api/v1/sync.
	AdminAPIKeyHash string
	APIKeyHeader    string
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	// URL is the full connection string. Empty disables the snapshot tier.
	URL string

	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	ConnectTimeout  time.Duration
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int

	PoolSize     int
	MinIdleConns int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Disabled turns off the cache tier for development without Redis.
	Disabled bool
}

// SheetsConfig holds Google Sheets API settings.
type SheetsConfig struct {
	BaseURL       string
	SpreadsheetID string
	APIKey        string

	StudentRange string
	MentorRange  string
	SynonymRange string

	RequestTimeout    time.Duration
	RequestsPerSecond float64
	Burst             int
}

// SyncConfig holds background sync settings.
type SyncConfig struct {
	Enabled    bool
	Interval   time.Duration
	JobTimeout time.Duration

	// DailyAt pins the sync to a fixed local time ("HH:MM") instead of the
	// interval. Empty keeps interval-based syncing.
	DailyAt string

	// CacheTTL is the lifetime of cached profile tables.
	CacheTTL time.Duration
}

// MatchingConfig overrides the scoring policy defaults.
type MatchingConfig struct {
	TopN                 int
	PreferenceMatchBonus float64
	SameGenderBonus      float64
	GameLevelWeight      float64
	OtherGamePoints      float64
	SimilarityWeight     float64
	RelationBonus        float64
}

// ObservabilityConfig holds logging and metrics settings.
type ObservabilityConfig struct {
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, console

	MetricsEnabled bool
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	// Container images without tzdata cannot load Asia/Tokyo; the fixed JST
	// zone covers the default, anything else falls back to UTC.
	timezone := v.GetString("app.timezone")
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
		if timezone == "Asia/Tokyo" {
			loc = timeutil.JST
		}
	}

	cfg := &Config{
		App: AppConfig{
			Name:            v.GetString("app.name"),
			Environment:     Environment(v.GetString("app.env")),
			Version:         v.GetString("app.version"),
			Timezone:        timezone,
			Location:        loc,
			ShutdownTimeout: v.GetDuration("app.shutdown_timeout"),
		},
		Server: ServerConfig{
			Host:               v.GetString("server.host"),
			Port:               v.GetInt("server.port"),
			ReadTimeout:        v.GetDuration("server.read_timeout"),
			WriteTimeout:       v.GetDuration("server.write_timeout"),
			IdleTimeout:        v.GetDuration("server.idle_timeout"),
			EnableCORS:         v.GetBool("server.enable_cors"),
			AllowedOrigins:     splitList(v.GetString("server.allowed_origins")),
			RateLimitPerMinute: v.GetInt("server.rate_limit_per_minute"),
			AdminAPIKeyHash:    v.GetString("server.admin_api_key_hash"),
			APIKeyHeader:       v.GetString("server.api_key_header"),
		},
		Database: DatabaseConfig{
			URL:             v.GetString("database.url"),
			MaxConns:        v.GetInt32("database.max_conns"),
			MinConns:        v.GetInt32("database.min_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetDuration("database.conn_max_idle_time"),
			ConnectTimeout:  v.GetDuration("database.connect_timeout"),
		},
		Redis: RedisConfig{
			Host:         v.GetString("redis.host"),
			Port:         v.GetInt("redis.port"),
			Password:     v.GetString("redis.password"),
			DB:           v.GetInt("redis.db"),
			PoolSize:     v.GetInt("redis.pool_size"),
			MinIdleConns: v.GetInt("redis.min_idle_conns"),
			DialTimeout:  v.GetDuration("redis.dial_timeout"),
			ReadTimeout:  v.GetDuration("redis.read_timeout"),
			WriteTimeout: v.GetDuration("redis.write_timeout"),
			Disabled:     v.GetBool("redis.disabled"),
		},
		Sheets: SheetsConfig{
			BaseURL:           v.GetString("sheets.base_url"),
			SpreadsheetID:     v.GetString("sheets.spreadsheet_id"),
			APIKey:            v.GetString("sheets.api_key"),
			StudentRange:      v.GetString("sheets.student_range"),
			MentorRange:       v.GetString("sheets.mentor_range"),
			SynonymRange:      v.GetString("sheets.synonym_range"),
			RequestTimeout:    v.GetDuration("sheets.request_timeout"),
			RequestsPerSecond: v.GetFloat64("sheets.requests_per_second"),
			Burst:             v.GetInt("sheets.burst"),
		},
		Sync: SyncConfig{
			Enabled:    v.GetBool("sync.enabled"),
			Interval:   v.GetDuration("sync.interval"),
			JobTimeout: v.GetDuration("sync.job_timeout"),
			DailyAt:    v.GetString("sync.daily_at"),
			CacheTTL:   v.GetDuration("sync.cache_ttl"),
		},
		Matching: MatchingConfig{
			TopN:                 v.GetInt("matching.top_n"),
			PreferenceMatchBonus: v.GetFloat64("matching.preference_match_bonus"),
			SameGenderBonus:      v.GetFloat64("matching.same_gender_bonus"),
			GameLevelWeight:      v.GetFloat64("matching.game_level_weight"),
			OtherGamePoints:      v.GetFloat64("matching.other_game_points"),
			SimilarityWeight:     v.GetFloat64("matching.similarity_weight"),
			RelationBonus:        v.GetFloat64("matching.relation_bonus"),
		},
		Observability: ObservabilityConfig{
			LogLevel:       v.GetString("log.level"),
			LogFormat:      v.GetString("log.format"),
			MetricsEnabled: v.GetBool("metrics.enabled"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "mentor-match")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.timezone", "Asia/Tokyo")
	v.SetDefault("app.shutdown_timeout", 30*time.Second)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.enable_cors", true)
	v.SetDefault("server.allowed_origins", "*")
	v.SetDefault("server.rate_limit_per_minute", 100)
	v.SetDefault("server.admin_api_key_hash", "")
	v.SetDefault("server.api_key_header", "X-API-Key")

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", 30*time.Minute)
	v.SetDefault("database.connect_timeout", 10*time.Second)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)
	v.SetDefault("redis.disabled", false)

	v.SetDefault("sheets.base_url", "https://sheets.googleapis.com")
	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.api_key", "")
	v.SetDefault("sheets.student_range", "スクール生!A1:AZ")
	v.SetDefault("sheets.mentor_range", "メンター!A1:AZ")
	v.SetDefault("sheets.synonym_range", "ゲーム名正規化!A1:B")
	v.SetDefault("sheets.request_timeout", 30*time.Second)
	v.SetDefault("sheets.requests_per_second", 1.0)
	v.SetDefault("sheets.burst", 3)

	v.SetDefault("sync.enabled", true)
	v.SetDefault("sync.interval", 10*time.Minute)
	v.SetDefault("sync.job_timeout", 2*time.Minute)
	v.SetDefault("sync.daily_at", "")
	v.SetDefault("sync.cache_ttl", 10*time.Minute)

	v.SetDefault("matching.top_n", 10)
	v.SetDefault("matching.preference_match_bonus", 30.0)
	v.SetDefault("matching.same_gender_bonus", 10.0)
	v.SetDefault("matching.game_level_weight", 5.0)
	v.SetDefault("matching.other_game_points", 15.0)
	v.SetDefault("matching.similarity_weight", 20.0)
	v.SetDefault("matching.relation_bonus", 10.0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("metrics.enabled", true)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	if c.Sheets.SpreadsheetID == "" && c.IsProduction() {
		errs = append(errs, "SHEETS_SPREADSHEET_ID is required in production")
	}
	if c.Sheets.APIKey == "" && c.IsProduction() {
		errs = append(errs, "SHEETS_API_KEY is required in production")
	}
	if c.Matching.TopN <= 0 {
		errs = append(errs, "MATCHING_TOP_N must be positive")
	}
	if c.Sync.Interval <= 0 {
		errs = append(errs, "SYNC_INTERVAL must be positive")
	}
	if c.Sync.DailyAt != "" {
		if _, _, err := c.SyncDailyTime(); err != nil {
			errs = append(errs, "SYNC_DAILY_AT must be HH:MM")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// SyncDailyTime parses Sync.DailyAt into hour and minute.
func (c *Config) SyncDailyTime() (hour, minute int, err error) {
	t, err := time.Parse("15:04", c.Sync.DailyAt)
	if err != nil {
		return 0, 0, fmt.Errorf("parse SYNC_DAILY_AT: %w", err)
	}
	return t.Hour(), t.Minute(), nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
