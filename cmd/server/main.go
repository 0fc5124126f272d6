package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"docroute/internal/activity"
	"docroute/internal/authz"
	"docroute/internal/branch"
	branchStore "docroute/internal/branch/store"
	"docroute/internal/cache"
	docStore "docroute/internal/document/store"
	"docroute/internal/document/workflow"
	"docroute/internal/filestore"
	"docroute/internal/platform/config"
	"docroute/internal/platform/database"
	"docroute/internal/platform/httpserver"
	"docroute/internal/platform/logger"
	"docroute/internal/platform/metrics"
	"docroute/internal/platform/middleware"
	"docroute/internal/platform/redis"
	httptransport "docroute/internal/transport/http"
)

// main wires dependencies and owns the process lifecycle. Business rules live
// in the internal packages; nothing here decides anything about documents.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Postgres.DSN == "" {
		return errors.New("POSTGRES_DSN is required")
	}
	db, err := database.Open(ctx, cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.EnsureSchema(ctx, db); err != nil {
		return err
	}

	m := metrics.New()

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Cache: Redis primary with an in-process fallback when Redis is
	// configured; in-process alone otherwise.
	var backend cache.Backend = cache.NewInMemory()
	if redisClient != nil {
		backend = cache.NewFailover(
			cache.NewRedis(redisClient.Client),
			cache.NewInMemory(),
			cache.WithFailoverLogger(log),
			cache.WithFallbackCounter(m.CacheFallbacks.Inc),
		)
	}
	coordinator := cache.NewCoordinator(backend, cfg.Cache.Enabled, cfg.Cache.DefaultTTL,
		cache.WithCoordinatorLogger(log),
		cache.WithCounters(m.CacheHits.Inc, m.CacheMisses.Inc, m.CacheInvalidations.Inc),
	)

	activityStore := activity.NewPostgresStore(db)
	recorder := activity.NewRecorder(activityStore,
		activity.WithRecorderLogger(log),
		activity.WithAsyncBuffer(256),
		activity.WithDropCounters(m.ActivityDropped.Inc, m.ActivityFailed.Inc),
	)
	defer recorder.Close()

	var files filestore.FileStore
	if cfg.MinIO.Endpoint != "" {
		files, err = filestore.NewMinIO(cfg.MinIO)
		if err != nil {
			return err
		}
	}

	branches := branchStore.NewPostgres(db)
	resolver := authz.NewResolver(branch.NewDirectory(branches), authz.WithLogger(log))

	service := workflow.NewService(docStore.NewPostgres(db), resolver,
		workflow.WithLogger(log),
		workflow.WithCache(coordinator),
		workflow.WithActivity(recorder),
		workflow.WithActivityLog(activityStore),
		workflow.WithFileStore(files),
		workflow.WithMetrics(m),
	)

	handler := httptransport.New(service, log, middleware.NewJWTValidator(cfg.Server.JWTSigningKey))
	checks := map[string]httptransport.HealthCheck{
		"postgres": db.PingContext,
	}
	if redisClient != nil {
		checks["redis"] = redisClient.Health
	}
	router := httptransport.NewRouter(handler, checks)

	srv := httpserver.New(cfg.Server.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting docroute server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
