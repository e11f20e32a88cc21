package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// chdirTemp switches to an empty temp dir so no config.yaml or .env is found.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "waterfall.db", cfg.Store.DatabaseURL)
	assert.Equal(t, int32(10), cfg.Store.MaxConns)
	assert.Equal(t, 5, cfg.Store.ConnectAttempts)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.InDelta(t, 20.0, cfg.Server.RatePerSec, 0.001)
	assert.Equal(t, 40, cfg.Server.Burst)
	assert.Equal(t, 8, cfg.Sweep.Concurrency)
	assert.InDelta(t, 10.0, cfg.Defaults.SeniorDebtRatePct, 0.001)
	assert.InDelta(t, 0.0, cfg.Defaults.GapDebtRatePct, 0.001)
	assert.InDelta(t, 20.0, cfg.Defaults.PreferredReturnPct, 0.001)
	assert.InDelta(t, 15.0, cfg.Defaults.SalesCommissionPct, 0.001)
	assert.InDelta(t, 1.0, cfg.Defaults.CAMFeeRatePct, 0.001)
	assert.InDelta(t, 0.0, cfg.Defaults.MarketingCapAmount, 0.001)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: bolt
  database_url: data/scenarios.db
log:
  level: debug
  format: console
server:
  port: 9090
defaults:
  preferred_return_pct: 25
sweep:
  concurrency: 2
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "bolt", cfg.Store.Driver)
	assert.Equal(t, "data/scenarios.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.InDelta(t, 25.0, cfg.Defaults.PreferredReturnPct, 0.001)
	assert.Equal(t, 2, cfg.Sweep.Concurrency)
	// Defaults still apply for unset values
	assert.InDelta(t, 15.0, cfg.Defaults.SalesCommissionPct, 0.001)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("WATERFALL_STORE_DRIVER", "postgres")
	t.Setenv("WATERFALL_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("WATERFALL_SERVER_PORT", "3000")
	t.Setenv("WATERFALL_DEFAULTS_SENIOR_DEBT_RATE_PCT", "12.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.InDelta(t, 12.5, cfg.Defaults.SeniorDebtRatePct, 0.001)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	t.Cleanup(func() { os.Unsetenv("WATERFALL_SWEEP_CONCURRENCY") }) //nolint:errcheck

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("WATERFALL_SWEEP_CONCURRENCY=3\n"), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Sweep.Concurrency)
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store: [unclosed"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Store.Driver = DriverSQLite
	cfg.Store.DatabaseURL = "waterfall.db"
	cfg.Server.Port = 8080
	cfg.Server.RatePerSec = 20
	cfg.Server.Burst = 40
	cfg.Sweep.Concurrency = 8
	return cfg
}

func TestValidateCalc(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Driver = "" // calc never touches the store
	assert.NoError(t, cfg.Validate("calc"))
}

func TestValidateStore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "sqlite ok", mutate: func(*Config) {}},
		{name: "bolt ok", mutate: func(c *Config) { c.Store.Driver = DriverBolt }},
		{name: "postgres ok", mutate: func(c *Config) {
			c.Store.Driver = DriverPostgres
			c.Store.DatabaseURL = "postgres://localhost/waterfall"
		}},
		{name: "unknown driver", mutate: func(c *Config) { c.Store.Driver = "mysql" }, wantErr: "store.driver must be sqlite, postgres or bolt"},
		{name: "missing url", mutate: func(c *Config) { c.Store.DatabaseURL = "" }, wantErr: "store.database_url is required"},
		{name: "pool bounds", mutate: func(c *Config) {
			c.Store.Driver = DriverPostgres
			c.Store.MaxConns = 2
			c.Store.MinConns = 5
		}, wantErr: "store.min_conns must not exceed store.max_conns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validDefaults()
			tt.mutate(cfg)
			err := cfg.Validate("store")
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be between 1 and 65535")
}

func TestValidateServe_RateLimit(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Burst = 0

	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.burst must be at least 1")

	cfg.Server.RatePerSec = 0
	assert.NoError(t, cfg.Validate("serve"), "a zero rate disables limiting")
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validDefaults()
	cfg.Sweep.Concurrency = 0
	cfg.Defaults.CAMFeeRatePct = -1
	cfg.Defaults.PreferredReturnPct = -5

	err := cfg.Validate("calc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sweep.concurrency must be at least 1")
	assert.Contains(t, err.Error(), "defaults.cam_fee_rate_pct must not be negative")
	assert.Contains(t, err.Error(), "defaults.preferred_return_pct must not be negative")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown validation mode")
}
