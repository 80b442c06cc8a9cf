// Package main runs the training registration HTTP server with the
// WebSocket change feed and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/LucasFiusa/nexora-inscri-es-treinamento/config"
	"github.com/LucasFiusa/nexora-inscri-es-treinamento/internal/dashboard"
	"github.com/LucasFiusa/nexora-inscri-es-treinamento/internal/exports"
	"github.com/LucasFiusa/nexora-inscri-es-treinamento/internal/middleware"
	"github.com/LucasFiusa/nexora-inscri-es-treinamento/internal/realtime"
	"github.com/LucasFiusa/nexora-inscri-es-treinamento/internal/registrations"
	"github.com/LucasFiusa/nexora-inscri-es-treinamento/pkg/database"
	"github.com/LucasFiusa/nexora-inscri-es-treinamento/pkg/queue"
	"github.com/LucasFiusa/nexora-inscri-es-treinamento/pkg/redis"
	"github.com/LucasFiusa/nexora-inscri-es-treinamento/pkg/response"
	"github.com/LucasFiusa/nexora-inscri-es-treinamento/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			ExportsBucket:        cfg.AWS.ExportsBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	redisPubSub := realtime.NewRedisPubSub(rdb.Client, logger)
	hub := realtime.NewHub(logger, redisPubSub, redisPubSub)

	// Registrations (public form intake)
	registrationRepo := registrations.NewRepository(pool)
	registrationHandler := registrations.NewHandler(registrationRepo, hub, logger)

	// HR dashboard
	dashboardHandler := dashboard.NewHandler(registrationRepo, logger)

	// Export archival
	jobQueue := queue.NewQueue(rdb.Client, logger)
	exportRepo := exports.NewRepository(pool)
	var presign exports.Presigner
	if s3Client != nil {
		presign = s3Client
	}
	exportHandler := exports.NewHandler(exportRepo, jobQueue, presign, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Public: registration form
	router.POST("/inscricoes", registrationHandler.Create)
	router.GET("/inscricoes/opcoes", registrationHandler.Options)

	// HR dashboard. No authentication gate: the admin route is reachable by
	// anyone who knows it, matching the product's current behavior.
	admin := router.Group("/admin")
	{
		admin.GET("/inscricoes", dashboardHandler.List)
		admin.GET("/resumo", dashboardHandler.Summary)
		admin.GET("/export", dashboardHandler.Export)
		admin.POST("/export/arquivar", exportHandler.Archive)
		admin.GET("/export/arquivos", exportHandler.List)
	}

	// WebSocket change feed
	router.GET("/ws", realtime.ServeWs(hub, logger))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
