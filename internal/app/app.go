package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	pb "github.com/godilite/assessment-server/api/v1"
	"github.com/godilite/assessment-server/internal/catalog"
	"github.com/godilite/assessment-server/internal/config"
	handler "github.com/godilite/assessment-server/internal/grpc"
	"github.com/godilite/assessment-server/internal/repository"
	"github.com/godilite/assessment-server/internal/service"
	"github.com/godilite/assessment-server/pkg/cache"
	dbbuilder "github.com/godilite/assessment-server/pkg/database"
	grpcsrv "github.com/godilite/assessment-server/pkg/grpc/server"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	logger     *zap.Logger
	dbPool     *sql.DB
	cache      *cache.Cache
	grpcServer *grpcsrv.Server
}

// NewApp wires storage, cache and the gRPC server. Extra server options are
// applied after the configured ones.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, serverOpts ...grpcsrv.Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dbPool, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := repository.Migrate(ctx, dbPool); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	if cfg.CatalogPath != "" {
		c, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("catalog load failed: %w", err)
		}
		if err := c.Seed(ctx, repository.NewCompetencyRepository(dbPool), logger); err != nil {
			dbPool.Close()
			return nil, err
		}
	}

	cacheClient := openCache(ctx, cfg, logger)

	assessmentService := service.NewAssessmentService(repository.NewAssessmentRepository(dbPool), logger)

	// A nil *cache.Cache must not reach the handlers as a non-nil Cacher.
	var cacher handler.Cacher
	if cacheClient != nil {
		cacher = cacheClient
	}
	grpcHandlers := handler.NewGRPCHandlers(assessmentService, cacher, logger, cfg.CacheTTL)
	if err := grpcHandlers.InvalidateCatalog(ctx); err != nil {
		logger.Warn("Stale catalog may be served until the cache expires", zap.Error(err))
	}

	opts := []grpcsrv.Option{
		grpcsrv.WithPort(cfg.GRPCPort),
		grpcsrv.WithLogger(logger),
		grpcsrv.WithReflection(cfg.GRPCReflectionEnabled),
		grpcsrv.WithLogging(cfg.GRPCLoggingEnabled, handler.UserIDMetadataKey),
		grpcsrv.WithRecovery(true),
	}
	grpcServer, err := grpcsrv.New(append(opts, serverOpts...)...)
	if err != nil {
		if cacheClient != nil {
			cacheClient.Close()
		}
		dbPool.Close()
		return nil, fmt.Errorf("failed to create gRPC server: %w", err)
	}

	grpcServer.RegisterServiceWithHealth(pb.ServiceName, func(s grpc.ServiceRegistrar) {
		pb.RegisterAssessmentStoreServer(s, grpcHandlers)
	})

	return &App{
		logger:     logger,
		dbPool:     dbPool,
		cache:      cacheClient,
		grpcServer: grpcServer,
	}, nil
}

func openDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*sql.DB, error) {
	opts := []dbbuilder.Option{
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(dbbuilder.SQLiteDSN(cfg.DBPath)),
		dbbuilder.WithLogger(logger),
	}
	if cfg.DBPath == ":memory:" {
		// The in-memory database lives only as long as its one connection.
		opts = append(opts,
			dbbuilder.WithMaxOpenConns(1),
			dbbuilder.WithConnMaxLifetime(0),
			dbbuilder.WithConnMaxIdleTime(0),
		)
	} else if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dbPool, err := dbbuilder.Open(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	logger.Info("Database pool initialized", zap.String("path", cfg.DBPath))
	return dbPool, nil
}

// openCache returns nil when caching is disabled or Redis is unreachable; the
// server then reads through to the database.
func openCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) *cache.Cache {
	if !cfg.CacheEnabled() {
		logger.Info("Cache disabled")
		return nil
	}
	cacheClient, err := cache.New(ctx,
		cache.WithAddress(cfg.RedisAddr),
		cache.WithPassword(cfg.RedisPassword),
		cache.WithDB(cfg.RedisDB),
		cache.WithDialTimeout(2*time.Second),
	)
	if err != nil {
		logger.Warn("Cache unavailable, continuing without it", zap.Error(err))
		return nil
	}
	logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))
	return cacheClient
}

// Addr returns the address the gRPC server listens on.
func (a *App) Addr() string {
	return a.grpcServer.Addr().String()
}

// Run starts the application and blocks until ctx is done, then shuts down.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("application starting")

	a.grpcServer.Start()

	<-ctx.Done()

	a.logger.Info("application shutting down")
	return a.shutdown()
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.grpcServer.Shutdown(ctx)
	if err != nil {
		a.logger.Warn("shutdown completed but deadline exceeded", zap.Error(err))
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("cache shutdown error", zap.Error(err))
		}
	}
	if err := a.dbPool.Close(); err != nil {
		a.logger.Error("database shutdown error", zap.Error(err))
	}

	if err == nil {
		a.logger.Info("graceful shutdown completed successfully")
	}
	return nil
}
