// Package main runs the background job worker (CSV export archival to S3).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/LucasFiusa/nexora-inscri-es-treinamento/config"
	"github.com/LucasFiusa/nexora-inscri-es-treinamento/internal/exports"
	"github.com/LucasFiusa/nexora-inscri-es-treinamento/internal/registrations"
	"github.com/LucasFiusa/nexora-inscri-es-treinamento/pkg/database"
	"github.com/LucasFiusa/nexora-inscri-es-treinamento/pkg/queue"
	"github.com/LucasFiusa/nexora-inscri-es-treinamento/pkg/redis"
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

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	s3Cfg := storage.S3Config{
		Region:               cfg.AWS.Region,
		AccessKeyID:          cfg.AWS.AccessKeyID,
		SecretAccessKey:      cfg.AWS.SecretAccessKey,
		ExportsBucket:        cfg.AWS.ExportsBucket,
		PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
	}
	s3Client, err := storage.NewS3(ctx, s3Cfg, logger)
	if err != nil {
		logger.Fatal("s3", zap.Error(err))
	}

	exportRepo := exports.NewRepository(pool)
	registrationRepo := registrations.NewRepository(pool)
	jobQueue := queue.NewQueue(rdb.Client, logger)
	processor := exports.NewProcessor(exportRepo, registrationRepo, s3Client, jobQueue, cfg.Export.KeyPrefix, logger)

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go processor.Run(workerCtx)
	logger.Info("worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	time.Sleep(2 * time.Second)
	logger.Info("worker stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
