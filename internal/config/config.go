package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultAPIToken = "dev-token"

// Config holds the server and CLI settings
type Config struct {
	DBConnStr         string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	PriceCacheTTL     time.Duration
	MarketDataBaseURL string
	MarketDataAPIKey  string
	MarketDataRPS     float64
	BenchmarkTicker   string
	PriceLookbackDays int
	PriceBackfillDays int // 0 disables the startup backfill
	GRPCAddr          string
	HTTPAddr          string
	APIToken          string
	LogLevel          slog.Level
	MigrationsEnabled bool
}

// Load reads the configuration from an optional .env file and the environment.
// Environment variables take precedence over the file.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
			}
		}
	}
	v.AutomaticEnv()

	level, err := parseLevel(v.GetString("LOG_LEVEL"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBConnStr:         v.GetString("DB_CONN_STR"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RedisDB:           v.GetInt("REDIS_DB"),
		PriceCacheTTL:     v.GetDuration("PRICE_CACHE_TTL"),
		MarketDataBaseURL: v.GetString("MARKETDATA_BASE_URL"),
		MarketDataAPIKey:  v.GetString("MARKETDATA_API_KEY"),
		MarketDataRPS:     v.GetFloat64("MARKETDATA_RPS"),
		BenchmarkTicker:   strings.ToUpper(strings.TrimSpace(v.GetString("BENCHMARK_TICKER"))),
		PriceLookbackDays: v.GetInt("PRICE_LOOKBACK_DAYS"),
		PriceBackfillDays: v.GetInt("PRICE_BACKFILL_DAYS"),
		GRPCAddr:          v.GetString("GRPC_ADDR"),
		HTTPAddr:          v.GetString("HTTP_ADDR"),
		APIToken:          v.GetString("API_TOKEN"),
		LogLevel:          level,
		MigrationsEnabled: v.GetBool("MIGRATIONS_ENABLED"),
	}

	if cfg.DBConnStr == "" {
		// build it from individual vars (Docker friendly)
		cfg.DBConnStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			v.GetString("DB_HOST"),
			v.GetString("DB_PORT"),
			v.GetString("DB_USER"),
			v.GetString("DB_PASSWORD"),
			v.GetString("DB_NAME"),
			v.GetString("DB_SSLMODE"),
		)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "wheeltrack")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("PRICE_CACHE_TTL", "24h")
	v.SetDefault("MARKETDATA_BASE_URL", "https://eodhd.com/api")
	v.SetDefault("MARKETDATA_RPS", 5)
	v.SetDefault("BENCHMARK_TICKER", "SPY")
	v.SetDefault("PRICE_LOOKBACK_DAYS", 7)
	v.SetDefault("PRICE_BACKFILL_DAYS", 30)
	v.SetDefault("GRPC_ADDR", ":8080")
	v.SetDefault("HTTP_ADDR", ":8081")
	v.SetDefault("API_TOKEN", defaultAPIToken)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MIGRATIONS_ENABLED", true)
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	if c.BenchmarkTicker == "" {
		return errors.New("BENCHMARK_TICKER is required")
	}
	if c.PriceLookbackDays < 1 {
		return fmt.Errorf("PRICE_LOOKBACK_DAYS must be at least 1, got %d", c.PriceLookbackDays)
	}
	if c.PriceBackfillDays < 0 {
		return fmt.Errorf("PRICE_BACKFILL_DAYS must not be negative, got %d", c.PriceBackfillDays)
	}
	if c.PriceCacheTTL < 0 {
		return fmt.Errorf("PRICE_CACHE_TTL must not be negative, got %s", c.PriceCacheTTL)
	}
	if c.MarketDataRPS < 0 {
		return fmt.Errorf("MARKETDATA_RPS must not be negative, got %v", c.MarketDataRPS)
	}
	if c.RedisDB < 0 {
		return fmt.Errorf("REDIS_DB must not be negative, got %d", c.RedisDB)
	}
	if c.GRPCAddr == "" && c.HTTPAddr == "" {
		return errors.New("at least one of GRPC_ADDR or HTTP_ADDR is required")
	}
	if c.APIToken == "" {
		return errors.New("API_TOKEN must not be empty")
	}
	return nil
}

// Logger builds the JSON logger used by the server
func (c *Config) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}
