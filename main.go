package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"muawin-server/internal/config"
	"muawin-server/internal/documents"
	"muawin-server/internal/handlers"
	"muawin-server/internal/jobs"
	"muawin-server/internal/llm"
	"muawin-server/internal/models"
	"muawin-server/internal/routes"
	"muawin-server/internal/storage"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("config.yml")
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := models.InitDB(models.DatabaseConfig{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
		Silent: !cfg.IsDevelopment(),
	})
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	if !cfg.SkipSeed {
		if err := models.Seed(db); err != nil {
			logger.Fatal("seeding database failed", zap.Error(err))
		}
	}

	ctx := context.Background()
	checks := map[string]handlers.HealthChecker{}

	var cache llm.Cache
	if cfg.Cache.RedisURL != "" {
		redisCache, err := llm.NewRedisCache(ctx, cfg.Cache.RedisURL, cfg.CacheTTL())
		if err != nil {
			logger.Fatal("redis connection failed", zap.Error(err))
		}
		defer redisCache.Close()
		cache = redisCache
		checks["redis"] = redisCache
	}

	completer := llm.NewClient(llm.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLMTimeout(),
	}, cache, logger)
	if !completer.Configured() {
		logger.Warn("OPENAI_API_KEY is not set; generation endpoints will answer 503")
	}

	store, err := newStore(cfg)
	if err != nil {
		logger.Fatal("document storage unavailable", zap.Error(err))
	}

	scheduler, err := jobs.NewHousekeeper(db, logger).Start()
	if err != nil {
		logger.Fatal("starting housekeeping jobs failed", zap.Error(err))
	}
	defer scheduler.Stop()

	router := routes.NewRouter(routes.Deps{
		DB:       db,
		Cfg:      cfg,
		Logger:   logger,
		LLM:      completer,
		Renderer: documents.NewRenderer(cfg.Documents.WkhtmltopdfPath, logger),
		Store:    store,
		Checks:   checks,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// generation calls can take as long as the LLM timeout
		WriteTimeout: cfg.LLMTimeout() + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr), zap.String("env", cfg.Environment))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	waitForShutdown(server, logger)
}

func newLogger(cfg *config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsDevelopment() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return logger
}

func newStore(cfg *config.Config) (storage.Store, error) {
	if cfg.Storage.Backend != "s3" {
		return storage.NewLocalStore(cfg.Storage.Path)
	}
	sess, err := session.NewSession(&aws.Config{Region: aws.String(cfg.Storage.AWSRegion)})
	if err != nil {
		return nil, err
	}
	return storage.NewS3(sess, cfg.Storage.S3Bucket, cfg.Storage.S3Prefix), nil
}

func waitForShutdown(server *http.Server, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return
	}
	logger.Info("server stopped")
}
