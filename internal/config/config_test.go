package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	assert.NoError(t, cfg.Validate())
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "GC=F", cfg.Pair.Asset1Ticker)
	assert.Equal(t, "SI=F", cfg.Pair.Asset2Ticker)
	assert.Equal(t, "(asset2 * 100) - asset1", cfg.Pair.SpreadFormula)
	assert.Equal(t, 365, cfg.Pair.HistoryDays)
	assert.Equal(t, 90, cfg.Pair.RollingWindow)
	assert.Equal(t, 2.0, cfg.Strategy.ZScoreHigh)
	assert.Equal(t, -2.0, cfg.Strategy.ZScoreLow)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL.Duration)
	assert.Equal(t, "server", cfg.Mode)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
mode = "advise"
log_level = "debug"

[pair]
asset1_ticker = "BTC-USD"
asset2_ticker = "ETH-USD"
spread_formula = "asset1 - asset2 * 10"
rolling_window = 30

[strategy]
z_score_high = 1.5
z_score_low = -1.5

[redis]
cache_ttl = "2m"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "advise", cfg.Mode)
	assert.Equal(t, "BTC-USD", cfg.Pair.Asset1Ticker)
	assert.Equal(t, "ETH-USD", cfg.Pair.Asset2Ticker)
	assert.Equal(t, 30, cfg.Pair.RollingWindow)
	assert.Equal(t, 1.5, cfg.Strategy.ZScoreHigh)
	assert.Equal(t, 2*time.Minute, cfg.Redis.CacheTTL.Duration)

	// Untouched sections keep their defaults.
	assert.Equal(t, 365, cfg.Pair.HistoryDays)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)

	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PAIRTRADER_PAIR_ASSET1_TICKER", "PL=F")
	t.Setenv("PAIRTRADER_STRATEGY_Z_SCORE_HIGH", "2.5")
	t.Setenv("PAIRTRADER_POSTGRES_PASSWORD", "hunter2")
	t.Setenv("PAIRTRADER_REDIS_CACHE_TTL", "90s")
	t.Setenv("PAIRTRADER_SERVER_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("PAIRTRADER_S3_ENABLED", "true")

	cfg := Defaults()
	applyEnvOverrides(&cfg)

	assert.Equal(t, "PL=F", cfg.Pair.Asset1Ticker)
	assert.Equal(t, 2.5, cfg.Strategy.ZScoreHigh)
	assert.Equal(t, "hunter2", cfg.Postgres.Password)
	assert.Equal(t, 90*time.Second, cfg.Redis.CacheTTL.Duration)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.True(t, cfg.S3.Enabled)
}

func TestEnvOverridesIgnoreBadValues(t *testing.T) {
	t.Setenv("PAIRTRADER_PAIR_HISTORY_DAYS", "not-a-number")
	t.Setenv("PAIRTRADER_REDIS_CACHE_TTL", "soon")

	cfg := Defaults()
	applyEnvOverrides(&cfg)

	assert.Equal(t, 365, cfg.Pair.HistoryDays)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL.Duration)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "yolo"
	cfg.Pair.Asset1Ticker = ""
	cfg.Pair.SpreadFormula = "asset1 +"
	cfg.Pair.RollingWindow = 1
	cfg.Strategy.ZScoreHigh = -1
	cfg.Strategy.ZScoreLow = 1
	cfg.Redis.Addr = ""

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "unknown mode")
	assert.Contains(t, msg, "asset1_ticker")
	assert.Contains(t, msg, "spread_formula")
	assert.Contains(t, msg, "rolling_window")
	assert.Contains(t, msg, "z_score_high")
	assert.Contains(t, msg, "redis: addr")
}

func TestValidateRejectsIdenticalTickers(t *testing.T) {
	cfg := Defaults()
	cfg.Pair.Asset2Ticker = cfg.Pair.Asset1Ticker

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must differ")
}

func TestValidateRejectsWindowLargerThanHistory(t *testing.T) {
	cfg := Defaults()
	cfg.Pair.HistoryDays = 30
	cfg.Pair.RollingWindow = 90

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rolling_window must not exceed history_days")
}
