package server

import (
	"net/http"

	"smsguard/internal/config"
	"smsguard/internal/handler"
	"smsguard/internal/middleware"
	"smsguard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

type Server struct {
	router      *gin.Engine
	cfg         *config.Config
	keys        service.KeyService
	predictions service.PredictionService
	classifier  service.Classifier
	logger      *zap.Logger
	accessLog   *logrus.Logger
}

func NewServer(cfg *config.Config, keys service.KeyService, predictions service.PredictionService, classifier service.Classifier, logger *zap.Logger, accessLog *logrus.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(accessLog))
	router.Use(middleware.Metrics())

	s := &Server{
		router:      router,
		cfg:         cfg,
		keys:        keys,
		predictions: predictions,
		classifier:  classifier,
		logger:      logger,
		accessLog:   accessLog,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	keyHandler := handler.NewKeyHandler(s.keys, s.logger)
	predictHandler := handler.NewPredictHandler(s.predictions, s.logger)
	statsHandler := handler.NewStatsHandler(s.predictions, s.logger)
	adminHandler := handler.NewAdminHandler(s.predictions, s.logger)

	authRequired := middleware.APIKeyAuth(s.keys, s.logger)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":     "pong",
			"model_ready": s.classifier.Ready(c.Request.Context()),
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Key generation is open but rate limited per client IP.
	s.router.POST("/auth/generate-key", middleware.RateLimit(s.cfg.Limits.KeygenPerMinute), keyHandler.GenerateKey)

	s.router.POST("/predict", authRequired, predictHandler.Predict)
	s.router.DELETE("/admin/logs", authRequired, adminHandler.ClearLogs)

	// Feedback and stats ship unauthenticated, but can be gated by config.
	feedback := s.router.Group("/")
	if s.cfg.Auth.ProtectFeedback {
		feedback.Use(authRequired)
	}
	feedback.POST("/feedback/:log_id", predictHandler.SubmitFeedback)

	stats := s.router.Group("/stats")
	if s.cfg.Auth.ProtectStats {
		stats.Use(authRequired)
	}
	stats.GET("", statsHandler.GetDashboard)
	stats.GET("/history", statsHandler.GetHistory)

	// Serve the prebuilt frontend bundle, mounted last so it never shadows
	// API routes.
	if s.cfg.Server.StaticDir != "" {
		s.router.NoRoute(gin.WrapH(http.FileServer(http.Dir(s.cfg.Server.StaticDir))))
	}
}

func (s *Server) Run(addr string) {
	s.accessLog.Infof("Server starting on port %s...", addr)
	if err := s.router.Run(addr); err != nil {
		s.accessLog.Fatalf("Server failed to start: %v", err)
	}
}
