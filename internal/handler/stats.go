package handler

import (
	"net/http"

	"smsguard/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StatsHandler interface {
	GetDashboard(c *gin.Context)
	GetHistory(c *gin.Context)
}

type statsHandler struct {
	predictions service.PredictionService
	logger      *zap.Logger
}

func NewStatsHandler(predictions service.PredictionService, logger *zap.Logger) StatsHandler {
	return &statsHandler{predictions: predictions, logger: logger}
}

// GetDashboard handles GET /stats
func (h *statsHandler) GetDashboard(c *gin.Context) {
	stats, err := h.predictions.DashboardStats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get dashboard stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetHistory handles GET /stats/history. Map keys are YYYY-MM-DD dates, so
// the marshalled object is already in ascending date order.
func (h *statsHandler) GetHistory(c *gin.Context) {
	history, err := h.predictions.History(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get daily stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, history)
}
