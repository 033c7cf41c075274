package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var LogLevels = map[string]logrus.Level{
	"debug": logrus.DebugLevel,
	"info":  logrus.InfoLevel,
	"warn":  logrus.WarnLevel,
	"error": logrus.ErrorLevel,
	"fatal": logrus.FatalLevel,
	"panic": logrus.PanicLevel,
}

// Config holds every runtime setting of the server and tools.
// Field tags name the keys accepted in the optional YAML file.
type Config struct {
	Port        string `yaml:"port"`
	DBDriver    string `yaml:"db_driver"`
	DBPath      string `yaml:"db_path"`
	DatabaseURL string `yaml:"database_url"`
	SeedPath    string `yaml:"seed_path"`
	RedisURL    string `yaml:"redis_url"`
	LogLevel    string `yaml:"log_level"`

	DefaultRiders        int `yaml:"default_riders"`
	DefaultGridSize      int `yaml:"default_grid_size"`
	OptimizerParallelism int `yaml:"optimizer_parallelism"`

	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`
}

func defaults() Config {
	return Config{
		Port:                 "8080",
		DBDriver:             "sqlite",
		DBPath:               "data/app.db",
		SeedPath:             "data/seeds/restaurants.json",
		LogLevel:             "info",
		DefaultRiders:        2,
		DefaultGridSize:      10,
		OptimizerParallelism: 1,
		RateLimitRPS:         5,
		RateLimitBurst:       10,
	}
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables.
func Load() (Config, error) {
	cfg := defaults()

	if path := Get("CONFIG_FILE", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("load config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config: parse %q: %w", path, err)
		}
	}

	cfg.Port = Get("PORT", cfg.Port)
	cfg.DBDriver = Get("DB_DRIVER", cfg.DBDriver)
	cfg.DBPath = Get("DB_PATH", cfg.DBPath)
	cfg.DatabaseURL = Get("DATABASE_URL", cfg.DatabaseURL)
	cfg.SeedPath = Get("SEED_PATH", cfg.SeedPath)
	cfg.RedisURL = Get("REDIS_URL", cfg.RedisURL)
	cfg.LogLevel = strings.ToLower(Get("LOG_LEVEL", cfg.LogLevel))

	var err error
	if cfg.DefaultRiders, err = getInt("DEFAULT_RIDERS", cfg.DefaultRiders); err != nil {
		return Config{}, err
	}
	if cfg.DefaultGridSize, err = getInt("DEFAULT_GRID_SIZE", cfg.DefaultGridSize); err != nil {
		return Config{}, err
	}
	if cfg.OptimizerParallelism, err = getInt("OPTIMIZER_PARALLELISM", cfg.OptimizerParallelism); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", cfg.RateLimitBurst); err != nil {
		return Config{}, err
	}
	if v := Get("RATE_LIMIT_RPS", ""); v != "" {
		if cfg.RateLimitRPS, err = strconv.ParseFloat(v, 64); err != nil {
			return Config{}, fmt.Errorf("load config: RATE_LIMIT_RPS=%q: %w", v, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if _, ok := LogLevels[c.LogLevel]; !ok {
		return fmt.Errorf("config: invalid log level %q", c.LogLevel)
	}
	switch c.DBDriver {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required for db_driver=postgres")
		}
	default:
		return fmt.Errorf("config: unknown db_driver %q", c.DBDriver)
	}
	if c.DefaultRiders < 1 {
		return fmt.Errorf("config: default_riders must be positive, got %d", c.DefaultRiders)
	}
	if c.DefaultGridSize < 1 {
		return fmt.Errorf("config: default_grid_size must be positive, got %d", c.DefaultGridSize)
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return fmt.Errorf("config: rate limit must be non-negative")
	}
	return nil
}

// DSN returns the data source for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.DBPath
}

// Level returns the logrus level for LogLevel, defaulting to info.
func (c Config) Level() logrus.Level {
	if l, ok := LogLevels[c.LogLevel]; ok {
		return l
	}
	return logrus.InfoLevel
}

func getInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("load config: %s=%q: %w", key, v, err)
	}
	return n, nil
}
