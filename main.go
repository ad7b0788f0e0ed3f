package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"smsguard/internal/cache"
	"smsguard/internal/config"
	"smsguard/internal/ml_client"
	"smsguard/internal/notifier"
	"smsguard/internal/repository"
	"smsguard/internal/server"
	"smsguard/internal/service"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	// Load configuration
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "configs/config.yml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, logger)

	// Initialize repositories
	keyRepo := repository.NewAPIKeyRepository(db, logger)
	logRepo := repository.NewPredictionLogRepository(db, logger)

	// Model service client: the classifier is loaded once in the model
	// process; this client only checks readiness and requests labels.
	classifier := ml_client.NewClient(cfg.MLService.URL)

	// Optional Redis cache for repeated texts
	var resultCache service.ResultCache
	if cfg.Cache.Enabled {
		rc, err := cache.NewResultCache(cfg.Cache.RedisURL, time.Duration(cfg.Cache.TTLSeconds)*time.Second, logger)
		if err != nil {
			logger.Fatal("Failed to connect to Redis cache", zap.Error(err))
		}
		defer rc.Close()
		resultCache = rc
		logger.Info("Prediction cache enabled")
	}

	// Optional Telegram notifier for operational alerts
	var alerts service.Notifier
	tg, err := notifier.NewTelegramNotifier(cfg, logger)
	if err != nil {
		logger.Warn("Failed to initialize Telegram notifier, continuing without it", zap.Error(err))
	} else if tg != nil {
		alerts = tg
	}

	// Initialize services
	keys := service.NewKeyService(keyRepo, logger)
	predictions := service.NewPredictionService(logRepo, classifier, resultCache, alerts, cfg.Limits.MaxTextChars, logger)

	accessLog := logrus.New()
	accessLog.SetFormatter(&logrus.JSONFormatter{})

	// Initialize and run the server
	srv := server.NewServer(cfg, keys, predictions, classifier, logger, accessLog)
	srv.Run(cfg.Server.Port)
}
