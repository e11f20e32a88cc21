package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/waterfall-cli/internal/intake"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig     `yaml:"store" mapstructure:"store"`
	Server   ServerConfig    `yaml:"server" mapstructure:"server"`
	Log      LogConfig       `yaml:"log" mapstructure:"log"`
	Defaults intake.Defaults `yaml:"defaults" mapstructure:"defaults"`
	Sweep    SweepConfig     `yaml:"sweep" mapstructure:"sweep"`
}

// StoreConfig configures the scenario store backend.
type StoreConfig struct {
	Driver          string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL     string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns        int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns        int32  `yaml:"min_conns" mapstructure:"min_conns"`
	ConnectAttempts int    `yaml:"connect_attempts" mapstructure:"connect_attempts"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	RatePerSec  float64  `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Burst       int      `yaml:"burst" mapstructure:"burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// SweepConfig configures revenue sweeps.
type SweepConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverBolt     = "bolt"
)

// Load reads configuration from .env, config.yaml and the environment.
// Environment variables use the WATERFALL_ prefix, e.g. WATERFALL_SERVER_PORT.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("WATERFALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	std := intake.StandardDefaults()

	// Defaults
	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.database_url", "waterfall.db")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 1)
	v.SetDefault("store.connect_attempts", 5)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.rate_per_sec", 20.0)
	v.SetDefault("server.burst", 40)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("defaults.senior_debt_rate_pct", std.SeniorDebtRatePct)
	v.SetDefault("defaults.gap_debt_rate_pct", std.GapDebtRatePct)
	v.SetDefault("defaults.preferred_return_pct", std.PreferredReturnPct)
	v.SetDefault("defaults.sales_commission_pct", std.SalesCommissionPct)
	v.SetDefault("defaults.cam_fee_rate_pct", std.CAMFeeRatePct)
	v.SetDefault("defaults.marketing_cap_amount", std.MarketingCapAmount)
	v.SetDefault("sweep.concurrency", 8)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs. Mode is "calc", "store" or "serve".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "calc":
	case "store":
		errs = append(errs, c.validateStore()...)
	case "serve":
		errs = append(errs, c.validateStore()...)
		if c.Server.Port < 1 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
		}
		if c.Server.RatePerSec < 0 {
			errs = append(errs, "server.rate_per_sec must not be negative")
		}
		if c.Server.RatePerSec > 0 && c.Server.Burst < 1 {
			errs = append(errs, "server.burst must be at least 1 when rate limiting is enabled")
		}
	default:
		return eris.Errorf("config: unknown validation mode %q", mode)
	}

	if c.Sweep.Concurrency < 1 {
		errs = append(errs, fmt.Sprintf("sweep.concurrency must be at least 1 (got %d)", c.Sweep.Concurrency))
	}
	for _, d := range []struct {
		key string
		val float64
	}{
		{"defaults.senior_debt_rate_pct", c.Defaults.SeniorDebtRatePct},
		{"defaults.gap_debt_rate_pct", c.Defaults.GapDebtRatePct},
		{"defaults.preferred_return_pct", c.Defaults.PreferredReturnPct},
		{"defaults.sales_commission_pct", c.Defaults.SalesCommissionPct},
		{"defaults.cam_fee_rate_pct", c.Defaults.CAMFeeRatePct},
		{"defaults.marketing_cap_amount", c.Defaults.MarketingCapAmount},
	} {
		if d.val < 0 {
			errs = append(errs, d.key+" must not be negative")
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateStore() []string {
	var errs []string
	switch c.Store.Driver {
	case DriverSQLite, DriverBolt:
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required")
		}
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required")
		}
		if c.Store.MinConns > c.Store.MaxConns && c.Store.MaxConns > 0 {
			errs = append(errs, "store.min_conns must not exceed store.max_conns")
		}
	default:
		errs = append(errs, fmt.Sprintf("store.driver must be sqlite, postgres or bolt (got %q)", c.Store.Driver))
	}
	return errs
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
