package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	clipsRepository "github.com/clipforge/viral-moments-backend/internal/clips/repository"
	"github.com/clipforge/viral-moments-backend/internal/config"
	"github.com/clipforge/viral-moments-backend/internal/worker"
	"github.com/clipforge/viral-moments-backend/pkg/db/aws"
	"github.com/clipforge/viral-moments-backend/pkg/db/redis"
	"github.com/clipforge/viral-moments-backend/pkg/logger"
)

func main() {
	log.Println("Starting render worker")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yml"
	}

	cfgFile, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("LoadConfig: %v", err)
	}

	cfg, err := config.ParseConfig(cfgFile)
	if err != nil {
		log.Fatalf("ParseConfig: %v", err)
	}

	appLogger := logger.NewApiLogger(cfg)
	appLogger.InitLogger()
	appLogger.Infof("LogLevel: %s, Workers: %d", cfg.Logger.Level, cfg.Worker.WorkerCount)

	redisClient, err := redis.NewRedisClient(cfg)
	if err != nil {
		appLogger.Fatalf("Redis init: %s", err)
	}
	defer redisClient.Close()
	appLogger.Info("Redis connected")

	s3Client, preSignClient, err := aws.NewAWSClient(cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.AccessKey, cfg.S3.SecretKey)
	if err != nil {
		appLogger.Fatalf("AWS client init: %s", err)
	}
	appLogger.Info("AWS S3 connected")

	redisRepo := clipsRepository.NewClipsRedisRepo(redisClient)
	awsRepo := clipsRepository.NewAwsRepository(s3Client, preSignClient)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		sig := <-quit
		appLogger.Infof("received %s, draining workers", sig)
		cancel()
	}()

	w := worker.NewWorker(cfg, redisRepo, awsRepo, appLogger)
	w.Start(ctx)
	appLogger.Info("render worker stopped")
}
