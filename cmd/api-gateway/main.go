package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-timetable-api/api/swagger"
	"github.com/noah-isme/sma-timetable-api/internal/engine"
	"github.com/noah-isme/sma-timetable-api/internal/handler"
	internalmiddleware "github.com/noah-isme/sma-timetable-api/internal/middleware"
	"github.com/noah-isme/sma-timetable-api/internal/repository"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	"github.com/noah-isme/sma-timetable-api/pkg/cache"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	"github.com/noah-isme/sma-timetable-api/pkg/database"
	"github.com/noah-isme/sma-timetable-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-timetable-api/pkg/middleware/requestid"
)

// @title SMA Timetable API
// @version 1.0.0
// @description Validates school data and generates conflict-free weekly timetables.
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect redis", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	metrics := service.NewMetricsService()
	timetableSvc, err := buildTimetableService(cfg, db, redisClient, metrics, logr)
	if err != nil {
		logr.Fatal("failed to build timetable service", zap.Error(err))
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics, "/metrics", "/health", "/ready"))

	metricsHandler := handler.NewMetricsHandler(metrics, db)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	handler.NewTimetableHandler(timetableSvc).Register(api.Group("/timetable"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Solver.TimeLimit+cfg.Solver.Grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func buildTimetableService(cfg *config.Config, db *sqlx.DB, redisClient redis.UniversalClient, metrics *service.MetricsService, logr *zap.Logger) (*service.TimetableService, error) {
	loader := service.NewSnapshotLoader(service.SnapshotReaders{
		Classes:  repository.NewClassGroupRepository(db),
		Subjects: repository.NewSubjectRepository(db),
		Mappings: repository.NewClassSubjectRepository(db),
		Teachers: repository.NewTeacherRepository(db),
		Labs:     repository.NewLabRoomRepository(db),
		Settings: repository.NewSchoolSettingRepository(db),
	}, metrics, cfg.Timetable.DefaultPeriodsPerDay, cfg.Timetable.DefaultMaxPeriodsPerWeek)

	mappings := service.NewMappingService(loader, repository.NewClassSubjectRepository(db), db, metrics, logr)

	var (
		cacheSvc *service.CacheService
		locker   *service.TenantLocker
	)
	lockCfg := service.TenantLockerConfig{
		TTL:   cfg.Timetable.LockTTL,
		Retry: cfg.Timetable.LockRetry,
		Wait:  cfg.Timetable.LockWait,
	}
	if redisClient != nil {
		cacheSvc = service.NewCacheService(repository.NewCacheRepository(redisClient, logr), metrics, cfg.Timetable.ValidationCacheTTL, logr)
		locker = service.NewTenantLocker(repository.NewGenerationLockRepository(redisClient), lockCfg, logr)
	} else {
		locker = service.NewTenantLocker(nil, lockCfg, logr)
	}

	svcCfg := service.TimetableServiceConfig{
		AutoMappings:       cfg.Timetable.AutoMappings,
		UnscheduledLimit:   cfg.Timetable.UnscheduledLimit,
		SolverTimeLimit:    cfg.Solver.TimeLimit,
		ValidationCacheTTL: cfg.Timetable.ValidationCacheTTL,
	}
	if cfg.Solver.Enabled {
		solver, err := engine.NewProcessSolver(cfg.Solver.Command, cfg.Solver.Grace)
		if err != nil {
			return nil, err
		}
		svcCfg.Solver = solver
	}

	return service.NewTimetableService(
		loader,
		mappings,
		repository.NewTimetableSlotRepository(db),
		locker,
		db,
		cacheSvc,
		metrics,
		validator.New(),
		logr,
		svcCfg,
	), nil
}
