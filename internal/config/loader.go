package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies PAIRTRADER_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known PAIRTRADER_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Pair ──
	setStr(&cfg.Pair.Asset1Ticker, "PAIRTRADER_PAIR_ASSET1_TICKER")
	setStr(&cfg.Pair.Asset2Ticker, "PAIRTRADER_PAIR_ASSET2_TICKER")
	setStr(&cfg.Pair.SpreadFormula, "PAIRTRADER_PAIR_SPREAD_FORMULA")
	setInt(&cfg.Pair.HistoryDays, "PAIRTRADER_PAIR_HISTORY_DAYS")
	setInt(&cfg.Pair.RollingWindow, "PAIRTRADER_PAIR_ROLLING_WINDOW")

	// ── Strategy ──
	setFloat64(&cfg.Strategy.ZScoreHigh, "PAIRTRADER_STRATEGY_Z_SCORE_HIGH")
	setFloat64(&cfg.Strategy.ZScoreLow, "PAIRTRADER_STRATEGY_Z_SCORE_LOW")
	setInt(&cfg.Strategy.TargetAsset1Pct, "PAIRTRADER_STRATEGY_TARGET_ASSET1_PCT")
	setFloat64(&cfg.Strategy.MaterialityFloor, "PAIRTRADER_STRATEGY_MATERIALITY_FLOOR")
	setFloat64(&cfg.Strategy.PortfolioCap, "PAIRTRADER_STRATEGY_PORTFOLIO_CAP")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "PAIRTRADER_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "PAIRTRADER_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "PAIRTRADER_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "PAIRTRADER_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "PAIRTRADER_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "PAIRTRADER_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "PAIRTRADER_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "PAIRTRADER_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "PAIRTRADER_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "PAIRTRADER_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "PAIRTRADER_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "PAIRTRADER_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "PAIRTRADER_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "PAIRTRADER_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "PAIRTRADER_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "PAIRTRADER_REDIS_TLS_ENABLED")
	setDuration(&cfg.Redis.CacheTTL, "PAIRTRADER_REDIS_CACHE_TTL")

	// ── S3 ──
	setBool(&cfg.S3.Enabled, "PAIRTRADER_S3_ENABLED")
	setStr(&cfg.S3.Endpoint, "PAIRTRADER_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "PAIRTRADER_S3_REGION")
	setStr(&cfg.S3.Bucket, "PAIRTRADER_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "PAIRTRADER_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "PAIRTRADER_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "PAIRTRADER_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "PAIRTRADER_S3_FORCE_PATH_STYLE")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "PAIRTRADER_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "PAIRTRADER_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "PAIRTRADER_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "PAIRTRADER_SERVER_API_KEY")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "PAIRTRADER_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "PAIRTRADER_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "PAIRTRADER_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "PAIRTRADER_NOTIFY_EVENTS")

	// ── Monitor ──
	setDuration(&cfg.Monitor.Interval, "PAIRTRADER_MONITOR_INTERVAL")

	// ── Top-level ──
	setStr(&cfg.Mode, "PAIRTRADER_MODE")
	setStr(&cfg.LogLevel, "PAIRTRADER_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
