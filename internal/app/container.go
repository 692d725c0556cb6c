// Package app wires the scheduling module's dependencies into one
// Container, the way orbita's internal/app package does for its own much
// larger dependency graph: one struct, one constructor per deployment mode,
// handlers assembled from concrete repositories.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/application/commands"
	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/application/queries"
	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/application/services"
	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"
	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/infrastructure/cache"
	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/infrastructure/loader"
	schedulePersistence "github.com/Vamsichris04/finals-scheduler/internal/scheduling/infrastructure/persistence"
	sharedApplication "github.com/Vamsichris04/finals-scheduler/internal/shared/application"
	"github.com/Vamsichris04/finals-scheduler/internal/shared/infrastructure/eventbus"
	"github.com/Vamsichris04/finals-scheduler/internal/shared/infrastructure/migrations"
	"github.com/Vamsichris04/finals-scheduler/internal/shared/infrastructure/outbox"
	sharedPersistence "github.com/Vamsichris04/finals-scheduler/internal/shared/infrastructure/persistence"
	"github.com/Vamsichris04/finals-scheduler/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	_ "modernc.org/sqlite" // pure Go SQLite driver
)

// Container holds every wired dependency the CLI and MCP adapters need.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	sqliteDB *sql.DB
	pgPool   *pgxpool.Pool

	RedisClient *redis.Client
	RunCache    *cache.RunCache

	RunRepo        domain.ScheduleRunRepository
	OutboxRepo     outbox.Repository
	UnitOfWork     sharedApplication.UnitOfWork
	EventPublisher eventbus.Publisher
	Outbox         *outbox.Processor

	Registry *services.Registry
	Executor *services.Executor
	Loader   loader.RosterLoader

	RunSolverHandler      *commands.RunSolverHandler
	ListRecentRunsHandler *queries.ListRecentRunsHandler
	GetRunHandler         *queries.GetRunHandler
}

// NewLocalContainer wires a SQLite-backed, single-process Container: no
// Redis, no RabbitMQ, an in-memory noop event publisher. This is the mode
// the CLI runs in by default.
func NewLocalContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	db, err := openSQLite(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running sqlite migrations: %w", err)
	}
	c.sqliteDB = db

	c.RunRepo = schedulePersistence.NewSQLiteScheduleRunRepository(db)
	c.OutboxRepo = outbox.NewSQLiteRepository(db)
	c.UnitOfWork = sharedPersistence.NewSQLiteUnitOfWork(db)
	c.EventPublisher = eventbus.NewNoopPublisher(logger)

	c.wireCommon(cfg, logger)

	logger.Info("local container ready", "sqlite_path", cfg.SQLitePath)
	return c, nil
}

// NewContainer wires a Postgres-backed Container with Redis memoization and
// a RabbitMQ-publishing outbox processor, for deployment outside a single
// operator's laptop.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running postgres migrations: %w", err)
	}
	c.pgPool = pool

	c.RunRepo = schedulePersistence.NewPostgresScheduleRunRepository(pool)
	c.OutboxRepo = outbox.NewPostgresRepository(pool)
	c.UnitOfWork = sharedPersistence.NewPostgresUnitOfWork(pool)

	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Warn("invalid redis url, run memoization disabled", "error", err)
		} else {
			redisClient := redis.NewClient(opt)
			if err := redisClient.Ping(ctx).Err(); err != nil {
				logger.Warn("redis not reachable, run memoization disabled", "error", err)
			} else {
				c.RedisClient = redisClient
				c.RunCache = cache.NewRunCache(redisClient, cfg.RedisTTL)
				logger.Info("connected to redis")
			}
		}
	}

	publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			logger.Warn("rabbitmq not available, using noop publisher", "error", err)
			c.EventPublisher = eventbus.NewNoopPublisher(logger)
		} else {
			pool.Close()
			return nil, fmt.Errorf("connecting to rabbitmq: %w", err)
		}
	} else {
		c.EventPublisher = publisher
	}

	c.wireCommon(cfg, logger)

	processorCfg := outbox.ProcessorConfig{
		PollInterval: cfg.OutboxPollInterval,
		BatchSize:    cfg.OutboxBatchSize,
		MaxRetries:   cfg.OutboxMaxRetries,
	}
	c.Outbox = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, processorCfg, logger)
	if cfg.OutboxProcessorEnabled {
		if err := c.Outbox.Start(ctx); err != nil {
			logger.Warn("outbox processor failed to start", "error", err)
		}
	}

	logger.Info("container ready", "database_url", redactDSN(cfg.DatabaseURL))
	return c, nil
}

// wireCommon builds everything independent of the storage backend: the
// solver registry, executor, roster loader, and CQRS handlers.
func (c *Container) wireCommon(cfg *config.Config, logger *slog.Logger) {
	c.Registry = services.NewDefaultRegistry()
	c.Executor = services.NewExecutor(c.Registry, services.DefaultExecutorConfig(), logger)

	if cfg.LoaderURL != "" {
		c.Loader = loader.NewHTTPLoader(cfg.LoaderURL)
	}

	c.RunSolverHandler = commands.NewRunSolverHandler(c.RunRepo, c.Executor, c.OutboxRepo, c.UnitOfWork, logger)
	c.ListRecentRunsHandler = queries.NewListRecentRunsHandler(c.RunRepo)
	c.GetRunHandler = queries.NewGetRunHandler(c.RunRepo)
}

// Close releases every resource the Container opened.
func (c *Container) Close() error {
	if c.Outbox != nil {
		c.Outbox.Stop()
	}
	if c.EventPublisher != nil {
		_ = c.EventPublisher.Close()
	}
	if c.RedisClient != nil {
		_ = c.RedisClient.Close()
	}
	if c.pgPool != nil {
		c.pgPool.Close()
	}
	if c.sqliteDB != nil {
		return c.sqliteDB.Close()
	}
	return nil
}

func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?"
	} else {
		dsn += "&"
	}
	dsn += "_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func redactDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at == -1 || scheme == -1 || at < scheme {
		return dsn
	}
	return dsn[:scheme+3] + "***" + dsn[at:]
}
