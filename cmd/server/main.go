package main

import (
	"log"
	"os"

	"github.com/clipforge/viral-moments-backend/internal/config"
	"github.com/clipforge/viral-moments-backend/internal/server"
	"github.com/clipforge/viral-moments-backend/pkg/db/aws"
	"github.com/clipforge/viral-moments-backend/pkg/db/postgres"
	"github.com/clipforge/viral-moments-backend/pkg/db/redis"
	"github.com/clipforge/viral-moments-backend/pkg/logger"
)

func main() {
	log.Println("Starting api server")

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
	appLogger.Infof("LogLevel: %s, Mode: %s", cfg.Logger.Level, cfg.Server.Mode)

	psqlDB, err := postgres.NewPsqlDB(cfg)
	if err != nil {
		appLogger.Fatalf("Postgresql init: %s", err)
	}
	defer psqlDB.Close()
	appLogger.Infof("Postgres connected, Status: %#v", psqlDB.Stats())

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

	s := server.NewServer(cfg, psqlDB, redisClient, s3Client, preSignClient, appLogger)
	if err = s.Run(); err != nil {
		log.Fatal(err)
	}
}
