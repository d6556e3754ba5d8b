package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	App      AppConfig      `mapstructure:"app"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	ReadTimeout    string   `mapstructure:"read_timeout"`
	WriteTimeout   string   `mapstructure:"write_timeout"`
	IdleTimeout    string   `mapstructure:"idle_timeout"`
	RequestTimeout string   `mapstructure:"request_timeout"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Type            string         `mapstructure:"type"` // memory, sqlite, postgres, redis
	SQLite          SQLiteConfig   `mapstructure:"sqlite"`
	Postgres        PostgresConfig `mapstructure:"postgres"`
	MaxOpenConns    int            `mapstructure:"max_open_conns"`
	MaxIdleConns    int            `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration  `mapstructure:"conn_max_lifetime"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type PostgresConfig struct {
	URL    string `mapstructure:"url"`
	Driver string `mapstructure:"driver"` // postgres (lib/pq) or pgx
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type AppConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	ShortCodeLength int    `mapstructure:"short_code_length"`
}

type CacheConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxItems      int           `mapstructure:"max_items"`
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type MetricsConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Path            string `mapstructure:"path"`
	Namespace       string `mapstructure:"namespace"`
	Subsystem       string `mapstructure:"subsystem"`
	CollectRuntime  bool   `mapstructure:"collect_runtime"`
	CollectDatabase bool   `mapstructure:"collect_database"`
	CollectCache    bool   `mapstructure:"collect_cache"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}

func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/wren/")

	v.SetEnvPrefix("WREN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.request_timeout", "60s")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("database.type", "memory")
	v.SetDefault("database.sqlite.path", "./data/wren.db")
	v.SetDefault("database.postgres.url", "")
	v.SetDefault("database.postgres.driver", "postgres")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 20)

	v.SetDefault("app.base_url", "http://localhost:8080")
	v.SetDefault("app.short_code_length", 8)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_items", 50000)
	v.SetDefault("cache.ttl", "5m")
	v.SetDefault("cache.sweep_interval", "0s")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.namespace", "wren")
	v.SetDefault("metrics.subsystem", "")
	v.SetDefault("metrics.collect_runtime", true)
	v.SetDefault("metrics.collect_database", true)
	v.SetDefault("metrics.collect_cache", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// MaxShortCodeLength matches the width of the short_code column.
const MaxShortCodeLength = 32

// Validate checks the values the core cannot run without.
func (c *Config) Validate() error {
	if c.App.ShortCodeLength <= 0 || c.App.ShortCodeLength > MaxShortCodeLength {
		return fmt.Errorf("app.short_code_length must be between 1 and %d, got %d", MaxShortCodeLength, c.App.ShortCodeLength)
	}
	if c.Cache.Enabled {
		if c.Cache.MaxItems <= 0 {
			return fmt.Errorf("cache.max_items must be positive, got %d", c.Cache.MaxItems)
		}
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL)
		}
	}
	switch c.Database.Type {
	case "memory", "sqlite", "postgres", "redis":
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}
	return nil
}

func (c *Config) GetDatabaseURL() string {
	switch c.Database.Type {
	case "sqlite":
		return c.Database.SQLite.Path
	case "postgres":
		return c.Database.Postgres.URL
	default:
		return ""
	}
}
