package fx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/sp3dr4/wren/config"
	"github.com/sp3dr4/wren/internal/application"
	"github.com/sp3dr4/wren/internal/domain"
	cacheImpl "github.com/sp3dr4/wren/internal/infrastructure/cache"
	memoryRepo "github.com/sp3dr4/wren/internal/infrastructure/memory"
	postgresRepo "github.com/sp3dr4/wren/internal/infrastructure/postgres"
	redisRepo "github.com/sp3dr4/wren/internal/infrastructure/redis"
	sqliteRepo "github.com/sp3dr4/wren/internal/infrastructure/sqlite"
	"github.com/sp3dr4/wren/internal/pkg/logging"
	"github.com/sp3dr4/wren/internal/pkg/metrics"
	"github.com/sp3dr4/wren/migrations"
)

// ProvideLogger creates and configures the application logger
func ProvideLogger(cfg *config.Config) *slog.Logger {
	logger := logging.New(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)
	return logger
}

// ProvideMetricsRegistry returns a Prometheus registry, or a no-op one when
// metrics are disabled.
func ProvideMetricsRegistry(cfg *config.Config) (metrics.Registry, error) {
	if !cfg.Metrics.Enabled {
		return metrics.NewNoOpRegistry(), nil
	}
	return metrics.NewPrometheusRegistry(cfg.Metrics)
}

// ProvideRepository creates the appropriate repository based on configuration
func ProvideRepository(cfg *config.Config, logger *slog.Logger) (domain.URLRepository, error) {
	switch cfg.Database.Type {
	case "memory":
		logger.Info("Using in-memory repository")
		return memoryRepo.NewURLRepository(), nil

	case "sqlite":
		path := cfg.GetDatabaseURL()
		logger.Info("Using SQLite repository", "path", path)

		if !strings.HasPrefix(path, ":memory:") {
			if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}

		db, err := sqlx.Connect("sqlite3", path)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
		}
		// SQLite serialises writers; one connection avoids "database is locked".
		db.SetMaxOpenConns(1)

		if err := migrations.Up(db.DB, migrations.DialectSQLite); err != nil {
			_ = db.Close()
			return nil, err
		}

		return sqliteRepo.NewURLRepository(db), nil

	case "postgres":
		driver := cfg.Database.Postgres.Driver
		if driver == "" {
			driver = postgresRepo.DriverPQ
		}
		if driver != postgresRepo.DriverPQ && driver != postgresRepo.DriverPGX {
			return nil, fmt.Errorf("unsupported postgres driver: %s", driver)
		}
		logger.Info("Using PostgreSQL repository", "driver", driver)

		db, err := sqlx.Connect(driver, cfg.GetDatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		configurePool(db, cfg.Database)

		if err := migrations.Up(db.DB, migrations.DialectPostgres); err != nil {
			_ = db.Close()
			return nil, err
		}

		return postgresRepo.NewURLRepository(db), nil

	case "redis":
		logger.Info("Using Redis repository", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
		client := newRedisClient(cfg.Redis)
		return redisRepo.NewURLRepository(client, logger), nil

	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
}

func configurePool(db *sqlx.DB, cfg config.DatabaseConfig) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

func newRedisClient(cfg config.RedisConfig) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// ProvideCache returns the bounded LRU cache, or a no-op cache when caching
// is disabled.
func ProvideCache(cfg *config.Config, registry metrics.Registry, logger *slog.Logger) (domain.Cache, error) {
	if !cfg.Cache.Enabled {
		logger.Info("URL cache disabled")
		return cacheImpl.NewNoOpCache(), nil
	}

	logger.Info("Using in-process LRU cache",
		"max_items", cfg.Cache.MaxItems,
		"ttl", cfg.Cache.TTL,
		"sweep_interval", cfg.Cache.SweepInterval,
	)
	return cacheImpl.NewLRUCache(cacheImpl.LRUConfig{
		MaxItems:      cfg.Cache.MaxItems,
		TTL:           cfg.Cache.TTL,
		SweepInterval: cfg.Cache.SweepInterval,
	}, registry, logger)
}

// ProvideURLService builds the shorten/resolve orchestrator.
func ProvideURLService(
	repo domain.URLRepository,
	cache domain.Cache,
	cfg *config.Config,
	logger *slog.Logger,
	registry metrics.Registry,
) *application.URLService {
	return application.NewURLService(repo, cache, application.Config{
		BaseURL:         cfg.App.BaseURL,
		ShortCodeLength: cfg.App.ShortCodeLength,
	}, logger, registry)
}

// RepositoryParams holds the parameters needed for repository lifecycle management
type RepositoryParams struct {
	fx.In

	Repository domain.URLRepository
	Logger     *slog.Logger
}

// RegisterRepositoryHooks registers repository lifecycle hooks with FX
func RegisterRepositoryHooks(lc fx.Lifecycle, params RepositoryParams) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := params.Repository.Close(); err != nil {
				params.Logger.Error("Failed to close repository resources", "error", err)
				return err
			}
			params.Logger.Info("Repository resources closed successfully")
			return nil
		},
	})
}

// CacheParams holds the parameters needed for cache lifecycle management
type CacheParams struct {
	fx.In

	Cache  domain.Cache
	Logger *slog.Logger
}

// RegisterCacheHooks stops the cache sweeper, if any, on shutdown.
func RegisterCacheHooks(lc fx.Lifecycle, params CacheParams) {
	closer, ok := params.Cache.(io.Closer)
	if !ok {
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := closer.Close(); err != nil {
				params.Logger.Error("Failed to close cache", "error", err)
				return err
			}
			params.Logger.Info("Cache closed", "entries", params.Cache.Len())
			return nil
		},
	})
}
