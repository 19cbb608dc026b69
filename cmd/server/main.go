// Command server runs the price recommendation HTTP service: it wires
// configuration, the internal data backend, the ML adapter, the scrape
// session, the request cache, and the HTTP router, then serves until
// signaled to stop.
//
// Grounded on the teacher's services/distribution_service/main.go for
// the config-load / wire-dependencies / setup-server / graceful-
// shutdown shape.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"priceadvisor/internal/config"
	"priceadvisor/internal/httpapi"
	"priceadvisor/internal/internaldata"
	"priceadvisor/internal/internaldata/csvstore"
	"priceadvisor/internal/internaldata/pgstore"
	"priceadvisor/internal/ml"
	"priceadvisor/internal/obslog"
	"priceadvisor/internal/orchestrator"
	"priceadvisor/internal/reqcache"
	"priceadvisor/internal/scrape"
)

func main() {
	os.Exit(run())
}

func run() int {
	configFile := os.Getenv("CONFIG_FILE")
	cfg, err := config.Load(configFile)
	if err != nil {
		log.Printf("configuration error: %v", err)
		return 2
	}

	logger := obslog.New(obslog.Config{
		Level:       cfg.LogLevel,
		ServiceName: "priceadvisor",
		Version:     "1.0.0",
		Environment: cfg.Environment,
		Format:      cfg.LogFormat,
	})
	defer logger.Sync()

	backend, closeBackend, err := openBackend(cfg)
	if err != nil {
		logger.WithError(err).Error("failed to open internal data backend")
		return 1
	}
	defer closeBackend()

	engine, err := internaldata.NewEngine(backend, cfg.MaxInternalMatches)
	if err != nil {
		logger.WithError(err).Error("failed to build internal matching engine")
		return 1
	}

	mlAdapter := ml.Unavailable()
	if artifact, err := ml.LoadArtifact(cfg.ModelPath); err != nil {
		logger.WithError(err).Warn("ML artifact unavailable, falling back to market/internal blend only")
	} else {
		mlAdapter = ml.NewAdapter(artifact)
	}

	driver := scrape.NewRodDriver(cfg.SearchURLTemplate, cfg.ListSelector, cfg.Headless)
	session := scrape.NewSession(driver, scrape.Config{
		MaxListings:  cfg.MaxListings,
		FetchTimeout: cfg.ScrapeTimeout,
		DelayMin:     cfg.ScrapeDelayMin,
		DelayMax:     cfg.ScrapeDelayMax,
	})

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()
	if err := session.Start(startCtx); err != nil {
		logger.WithError(err).Error("failed to start scrape session")
		return 1
	}
	defer session.Stop(context.Background())

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.WithError(err).Error("failed to connect to redis")
		return 1
	}
	defer redisClient.Close()

	cache := reqcache.New(redisClient, cfg.CacheTTL)

	orch := &orchestrator.Orchestrator{
		Engine:    engine,
		Session:   session,
		MLAdapter: mlAdapter,
		Cache:     cache,
		Logger:    logger,
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpapi.NewRouter(&httpapi.Handler{Orchestrator: orch, Cache: cache})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: router,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting price recommendation service", zap.Int("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		logger.WithError(err).Error("server failed to start")
		return 1
	case <-quit:
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
		return 1
	}

	return 0
}

// openBackend constructs the internaldata.Backend per
// cfg.InternalDataBackend ("csv" or "postgres"), returning a close
// func that's a no-op for csv.
func openBackend(cfg *config.Config) (internaldata.Backend, func(), error) {
	switch cfg.InternalDataBackend {
	case "postgres":
		store, err := pgstore.Connect(cfg.InternalDataPath)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres backend: %w", err)
		}
		return store, func() { store.Close() }, nil
	case "csv", "":
		return csvstore.New(cfg.InternalDataPath), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown internal_data_backend %q", cfg.InternalDataBackend)
	}
}
