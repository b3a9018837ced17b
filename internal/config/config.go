// Package config defines the top-level configuration for the pair trading
// advisor and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/pairdesk/pairtrader/internal/spreadexpr"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by PAIRTRADER_* environment
// variables.
type Config struct {
	Pair     PairConfig     `toml:"pair"`
	Strategy StrategyConfig `toml:"strategy"`
	Postgres PostgresConfig `toml:"postgres"`
	Redis    RedisConfig    `toml:"redis"`
	S3       S3Config       `toml:"s3"`
	Server   ServerConfig   `toml:"server"`
	Notify   NotifyConfig   `toml:"notify"`
	Monitor  MonitorConfig  `toml:"monitor"`
	Mode     string         `toml:"mode"`
	LogLevel string         `toml:"log_level"`
}

// PairConfig identifies the traded pair and how its spread is derived.
type PairConfig struct {
	Asset1Ticker  string `toml:"asset1_ticker"`
	Asset2Ticker  string `toml:"asset2_ticker"`
	SpreadFormula string `toml:"spread_formula"`
	HistoryDays   int    `toml:"history_days"`
	RollingWindow int    `toml:"rolling_window"`
}

// StrategyConfig holds the advice thresholds and rebalancing parameters.
type StrategyConfig struct {
	ZScoreHigh       float64 `toml:"z_score_high"`
	ZScoreLow        float64 `toml:"z_score_low"`
	TargetAsset1Pct  int     `toml:"target_asset1_pct"`
	MaterialityFloor float64 `toml:"materiality_floor"`
	PortfolioCap     float64 `toml:"portfolio_cap"`
}

// PostgresConfig holds PostgreSQL connection parameters for the transaction
// log store.
type PostgresConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters for the price-series cache.
type RedisConfig struct {
	Addr       string   `toml:"addr"`
	Password   string   `toml:"password"`
	DB         int      `toml:"db"`
	PoolSize   int      `toml:"pool_size"`
	MaxRetries int      `toml:"max_retries"`
	TLSEnabled bool     `toml:"tls_enabled"`
	CacheTTL   duration `toml:"cache_ttl"`
}

// S3Config holds S3-compatible object storage parameters for ledger archives.
type S3Config struct {
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Enabled     bool     `toml:"enabled"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	APIKey      string   `toml:"api_key"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// MonitorConfig holds the periodic monitor parameters.
type MonitorConfig struct {
	Interval duration `toml:"interval"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values. The
// pair defaults match the gold/silver setup the dashboard ships with.
func Defaults() Config {
	return Config{
		Pair: PairConfig{
			Asset1Ticker:  "GC=F",
			Asset2Ticker:  "SI=F",
			SpreadFormula: "(asset2 * 100) - asset1",
			HistoryDays:   365,
			RollingWindow: 90,
		},
		Strategy: StrategyConfig{
			ZScoreHigh:       2.0,
			ZScoreLow:        -2.0,
			TargetAsset1Pct:  50,
			MaterialityFloor: 10.0,
			PortfolioCap:     20000.0,
		},
		Postgres: PostgresConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "pairtrader",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
			CacheTTL:   duration{5 * time.Minute},
		},
		S3: S3Config{
			Enabled:        false,
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "pairtrader-archive",
			UseSSL:         false,
			ForcePathStyle: true,
		},
		Server: ServerConfig{
			Enabled:     true,
			Port:        8000,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Notify: NotifyConfig{
			Events: []string{"threshold_crossed", "cash_out", "error"},
		},
		Monitor: MonitorConfig{
			Interval: duration{15 * time.Minute},
		},
		Mode:     "server",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"server":  true,
	"advise":  true,
	"monitor": true,
	"full":    true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found. The spread formula is
// parsed here so malformed formulas are rejected at configuration time, not
// mid-computation.
func (c *Config) Validate() error {
	var errs []string

	// Mode
	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: server, advise, monitor, full)", c.Mode))
	}

	// LogLevel
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Pair
	if strings.TrimSpace(c.Pair.Asset1Ticker) == "" {
		errs = append(errs, "pair: asset1_ticker must not be empty")
	}
	if strings.TrimSpace(c.Pair.Asset2Ticker) == "" {
		errs = append(errs, "pair: asset2_ticker must not be empty")
	}
	if c.Pair.Asset1Ticker == c.Pair.Asset2Ticker && c.Pair.Asset1Ticker != "" {
		errs = append(errs, "pair: asset1_ticker and asset2_ticker must differ")
	}
	if _, err := spreadexpr.Parse(c.Pair.SpreadFormula); err != nil {
		errs = append(errs, fmt.Sprintf("pair: spread_formula: %v", err))
	}
	if c.Pair.HistoryDays <= 0 {
		errs = append(errs, fmt.Sprintf("pair: history_days must be positive, got %d", c.Pair.HistoryDays))
	}
	if c.Pair.RollingWindow <= 1 {
		errs = append(errs, fmt.Sprintf("pair: rolling_window must be at least 2, got %d", c.Pair.RollingWindow))
	}
	if c.Pair.RollingWindow > c.Pair.HistoryDays {
		errs = append(errs, "pair: rolling_window must not exceed history_days")
	}

	// Strategy thresholds: high must sit strictly above low, and the bands
	// must straddle zero or the favor branches invert.
	if c.Strategy.ZScoreHigh <= c.Strategy.ZScoreLow {
		errs = append(errs, fmt.Sprintf("strategy: z_score_high (%.2f) must be greater than z_score_low (%.2f)",
			c.Strategy.ZScoreHigh, c.Strategy.ZScoreLow))
	}
	if c.Strategy.ZScoreHigh <= 0 {
		errs = append(errs, "strategy: z_score_high must be positive")
	}
	if c.Strategy.ZScoreLow >= 0 {
		errs = append(errs, "strategy: z_score_low must be negative")
	}
	if c.Strategy.TargetAsset1Pct < 0 || c.Strategy.TargetAsset1Pct > 100 {
		errs = append(errs, fmt.Sprintf("strategy: target_asset1_pct must be 0-100, got %d", c.Strategy.TargetAsset1Pct))
	}
	if c.Strategy.MaterialityFloor < 0 {
		errs = append(errs, "strategy: materiality_floor must not be negative")
	}
	if c.Strategy.PortfolioCap < 0 {
		errs = append(errs, "strategy: portfolio_cap must not be negative (0 disables)")
	}

	// Postgres
	if strings.TrimSpace(c.Postgres.DSN) == "" {
		if c.Postgres.Host == "" {
			errs = append(errs, "postgres: host must not be empty (or set postgres.dsn)")
		}
		if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
			errs = append(errs, fmt.Sprintf("postgres: port must be 1-65535, got %d", c.Postgres.Port))
		}
		if c.Postgres.Database == "" {
			errs = append(errs, "postgres: database must not be empty")
		}
	}
	if c.Postgres.PoolMaxConns < 1 {
		errs = append(errs, "postgres: pool_max_conns must be >= 1")
	}
	if c.Postgres.PoolMinConns < 0 {
		errs = append(errs, "postgres: pool_min_conns must be >= 0")
	}
	if c.Postgres.PoolMinConns > c.Postgres.PoolMaxConns {
		errs = append(errs, "postgres: pool_min_conns must not exceed pool_max_conns")
	}

	// Redis
	if c.Redis.Addr == "" {
		errs = append(errs, "redis: addr must not be empty")
	}
	if c.Redis.PoolSize < 1 {
		errs = append(errs, "redis: pool_size must be >= 1")
	}
	if c.Redis.CacheTTL.Duration < 0 {
		errs = append(errs, "redis: cache_ttl must not be negative")
	}

	// S3
	if c.S3.Enabled {
		if c.S3.Endpoint == "" {
			errs = append(errs, "s3: endpoint must not be empty when enabled")
		}
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket must not be empty when enabled")
		}
	}

	// Server
	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
	}

	// Monitor
	if (c.Mode == "monitor" || c.Mode == "full") && c.Monitor.Interval.Duration <= 0 {
		errs = append(errs, "monitor: interval must be positive for monitor/full mode")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
