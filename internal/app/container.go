// Package app wires Shiftward's dependencies into a single container.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/shiftward/internal/roster/application/services"
	"github.com/felixgeelhaar/shiftward/internal/roster/domain"
	"github.com/felixgeelhaar/shiftward/internal/roster/infrastructure/cache"
	"github.com/felixgeelhaar/shiftward/internal/roster/infrastructure/persistence"
	"github.com/felixgeelhaar/shiftward/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/shiftward/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/shiftward/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/shiftward/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/shiftward/pkg/config"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	// Redis
	RedisClient *redis.Client

	// Repositories
	WorkerRepo     domain.WorkerRepository
	TaskRepo       domain.TaskRepository
	DutyRepo       domain.DutyRepository
	PreferenceRepo domain.PreferenceRepository
	AssignmentRepo domain.AssignmentRepository
	StatsRepo      domain.StatsRepository

	// Publishers
	EventPublisher eventbus.Publisher

	// Snapshot cache, nil when Redis is unavailable
	SnapshotCache services.SnapshotCache

	// Services
	SnapshotBuilder *services.SnapshotBuilder
	PlanEngine      *services.PlanEngine
	PlanService     *services.PlanService
	ClosingService  *services.ClosingService
}

// NewContainer creates a fully wired container from configuration.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	conn, err := database.NewConnection(ctx, database.Config{
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	c.DBConn = conn
	c.DBDriver = database.DetectDriver(cfg.DatabaseURL)

	if err := persistence.EnsureSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	c.WorkerRepo = persistence.NewWorkerRepository(conn)
	c.TaskRepo = persistence.NewTaskRepository(conn)
	c.DutyRepo = persistence.NewDutyRepository(conn)
	c.PreferenceRepo = persistence.NewPreferenceRepository(conn)
	c.AssignmentRepo = persistence.NewAssignmentRepository(conn)
	c.StatsRepo = persistence.NewStatsRepository(conn)

	// Snapshot cache is optional: when Redis is unreachable at startup
	// the planner simply rebuilds snapshots on every run.
	var snapshotCache services.SnapshotCache
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Warn("invalid Redis URL; snapshot caching disabled", "error", err)
		} else {
			client := redis.NewClient(opt)
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("Redis unreachable; snapshot caching disabled", "error", err)
				_ = client.Close()
			} else {
				c.RedisClient = client
				snapshotCache = cache.NewRedisSnapshotCache(client, cfg.SnapshotTTL, cache.DefaultBreakerConfig(), logger)
				c.SnapshotCache = snapshotCache
			}
		}
	}

	if cfg.PublisherEnabled && cfg.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			logger.Warn("RabbitMQ unreachable; events disabled", "error", err)
			c.EventPublisher = eventbus.NewNoopPublisher(logger)
		} else {
			c.EventPublisher = publisher
		}
	} else {
		c.EventPublisher = eventbus.NewNoopPublisher(logger)
	}

	closingCfg := domain.ClosingConfig{
		AllowSingleReliefMin1: cfg.AllowSingleRelief,
		ReliefMaxPerSchedule:  cfg.ReliefMaxPerSchedule,
	}

	c.SnapshotBuilder = services.NewSnapshotBuilder(
		c.WorkerRepo,
		c.DutyRepo,
		c.PreferenceRepo,
		c.StatsRepo,
		closingCfg,
	)
	c.PlanEngine = services.NewPlanEngine()
	c.PlanService = services.NewPlanService(
		c.SnapshotBuilder,
		c.PlanEngine,
		snapshotCache,
		c.TaskRepo,
		c.AssignmentRepo,
		c.EventPublisher,
		logger,
	)
	c.ClosingService = services.NewClosingService(
		c.WorkerRepo,
		c.DutyRepo,
		closingCfg,
		c.EventPublisher,
		logger,
	)

	return c, nil
}

// PlanOptions derives engine options from configuration.
func (c *Container) PlanOptions() services.PlanOptions {
	opts := services.DefaultPlanOptions()
	if c.Config.WeeklyCapMax > 0 {
		seq := make([]int, 0, c.Config.WeeklyCapMax+1)
		for n := 0; n <= c.Config.WeeklyCapMax; n++ {
			seq = append(seq, n)
		}
		opts.WeeklyCapSequence = seq
	}
	if c.Config.ScarcityThreshold > 0 {
		opts.ScarcityThreshold = c.Config.ScarcityThreshold
	}
	opts.IncludeManualOnlyTasks = !c.Config.SkipManualOnlyTasks
	return opts
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("failed to close event publisher", "error", err)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("failed to close Redis client", "error", err)
		}
	}
	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("failed to close database connection", "error", err)
		}
	}
}
