package handler

import (
	"net/http"

	"smsguard/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminHandler interface {
	ClearLogs(c *gin.Context)
}

type adminHandler struct {
	predictions service.PredictionService
	logger      *zap.Logger
}

func NewAdminHandler(predictions service.PredictionService, logger *zap.Logger) AdminHandler {
	return &adminHandler{predictions: predictions, logger: logger}
}

// ClearLogs handles DELETE /admin/logs. Any valid key may clear; the data
// model carries no role field to distinguish an admin. Irreversible.
func (h *adminHandler) ClearLogs(c *gin.Context) {
	if err := h.predictions.ClearLogs(c.Request.Context()); err != nil {
		h.logger.Error("Failed to clear prediction logs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
