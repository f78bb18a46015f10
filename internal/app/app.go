package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pb "github.com/godilite/survey-dashboard/api/v1"
	"github.com/godilite/survey-dashboard/internal/analytics"
	"github.com/godilite/survey-dashboard/internal/config"
	"github.com/godilite/survey-dashboard/internal/dataset"
	handler "github.com/godilite/survey-dashboard/internal/grpc"
	"github.com/godilite/survey-dashboard/internal/repository"
	"github.com/godilite/survey-dashboard/internal/service"
	"github.com/godilite/survey-dashboard/internal/transport/rest"
	"github.com/godilite/survey-dashboard/internal/upload"
	"github.com/godilite/survey-dashboard/pkg/cache"
	dbbuilder "github.com/godilite/survey-dashboard/pkg/database"
	grpcsrv "github.com/godilite/survey-dashboard/pkg/grpc/server"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	logger     *zap.Logger
	dbPool     *sql.DB
	cache      *cache.Cache
	sessions   *service.Sessions
	grpcServer *grpcsrv.Server
	httpServer *http.Server
}

// newSource picks the dataset source and the part layout that goes with it.
// The returned pool is nil unless the source is SQLite.
func newSource(ctx context.Context, cfg *config.Config, logger *zap.Logger) (dataset.Source, dataset.Layout, *sql.DB, error) {
	switch cfg.DatasetSource {
	case config.SourceHTTP:
		logger.Info("Dataset source: http", zap.String("base_url", cfg.DatasetBaseURL))
		return dataset.NewHTTPSource(cfg.DatasetBaseURL, nil), dataset.DefaultLayout(), nil, nil
	case config.SourceSQLite:
		dbPool, err := dbbuilder.New(ctx,
			dbbuilder.WithDriver(cfg.DBDriver),
			dbbuilder.WithDataSource(dbbuilder.SQLiteReadOnly(cfg.DBPath)),
			dbbuilder.WithLogger(logger),
		)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("database init failed: %w", err)
		}
		layout := dataset.TableLayout()
		var tables []string
		for _, parts := range layout {
			tables = append(tables, parts...)
		}
		repo := repository.NewResponseRepository(dbPool, tables)
		if infos, err := repo.Tables(ctx); err == nil {
			for _, info := range infos {
				logger.Info("Survey table found", zap.String("table", info.Name), zap.Int64("rows", info.Rows))
			}
		}
		logger.Info("Dataset source: sqlite", zap.String("path", cfg.DBPath))
		return repo, layout, dbPool, nil
	default:
		logger.Info("Dataset source: dir", zap.String("dir", cfg.DatasetDir))
		return dataset.NewDirSource(cfg.DatasetDir), dataset.DefaultLayout(), nil, nil
	}
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	source, layout, dbPool, err := newSource(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var cacheClient *cache.Cache
	var cacher service.Cacher
	if cfg.RedisAddr != "" {
		cacheClient, err = cache.New(ctx, cache.WithAddress(cfg.RedisAddr))
		if err != nil {
			if dbPool != nil {
				_ = dbPool.Close()
			}
			return nil, fmt.Errorf("cache init failed: %w", err)
		}
		cacher = cacheClient
		logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))
	}

	loader := dataset.NewLoader(source, layout, logger, dataset.WithPartTimeout(cfg.LoadTimeout))
	store := dataset.NewStore(loader, logger)

	analyticsService := service.NewAnalyticsService(store, cacher, logger,
		service.WithCacheTTL(cfg.CacheTTL),
		service.WithLoadTimeout(cfg.LoadTimeout),
		service.WithResidualPolicy(analytics.ParseResidualPolicy(cfg.ResidualPolicy)),
	)
	sessions := service.NewSessions(context.WithoutCancel(ctx), analyticsService, logger,
		service.WithIdleTTL(cfg.SessionIdleTTL))

	grpcHandlers := handler.NewGRPCHandlers(analyticsService, logger, cfg.LoadTimeout+5*time.Second)

	grpcServer, err := grpcsrv.New(
		grpcsrv.WithPort(cfg.GRPCPort),
		grpcsrv.WithLogger(logger),
		grpcsrv.WithReflection(cfg.GRPCReflectionEnabled),
		grpcsrv.WithLogging(true),
		grpcsrv.WithRecovery(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC server: %w", err)
	}
	grpcServer.RegisterServiceWithHealth(pb.ServiceName, func(s grpc.ServiceRegistrar) {
		pb.RegisterSurveyAnalyticsServer(s, grpcHandlers)
	})

	container := &rest.Container{
		Analytics: analyticsService,
		Sessions:  sessions,
		Logger:    logger,
	}
	if cfg.DatasetSource == config.SourceDir {
		container.CacheDir = cfg.DatasetDir
	}
	if cfg.UploadURL != "" {
		container.Uploader = upload.NewClient(cfg.UploadURL, logger, upload.WithInvalidator(analyticsService))
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           rest.NewRouter(container),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		logger:     logger,
		dbPool:     dbPool,
		cache:      cacheClient,
		sessions:   sessions,
		grpcServer: grpcServer,
		httpServer: httpServer,
	}, nil
}

// Start launches both servers and returns immediately.
func (a *App) Start() {
	a.grpcServer.Start()

	go func() {
		a.logger.Info("HTTP server starting", zap.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("HTTP server failed", zap.Error(err))
		}
	}()
}

// Shutdown stops the servers, then releases the cache and database.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error

	if err := a.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := a.grpcServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("grpc shutdown: %w", err))
	}
	a.sessions.Close()

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("cache shutdown error", zap.Error(err))
		}
	}
	if a.dbPool != nil {
		if err := a.dbPool.Close(); err != nil {
			a.logger.Error("database shutdown error", zap.Error(err))
		}
	}
	return errors.Join(errs...)
}

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run() error {
	a.logger.Info("application starting")
	a.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info("application shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.Shutdown(ctx)
	if err != nil {
		a.logger.Warn("shutdown completed with errors", zap.Error(err))
	} else {
		a.logger.Info("graceful shutdown completed successfully")
	}

	_ = a.logger.Sync()
	return err
}
