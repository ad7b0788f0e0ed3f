package handler

import (
	"errors"
	"net/http"
	"strconv"

	"smsguard/internal/middleware"
	"smsguard/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PredictHandler interface {
	Predict(c *gin.Context)
	SubmitFeedback(c *gin.Context)
}

type predictHandler struct {
	predictions service.PredictionService
	logger      *zap.Logger
}

func NewPredictHandler(predictions service.PredictionService, logger *zap.Logger) PredictHandler {
	return &predictHandler{predictions: predictions, logger: logger}
}

type PredictRequest struct {
	Text string `json:"text" binding:"required"`
}

type FeedbackRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

// Predict handles POST /predict. Auth is enforced by the route group.
func (h *predictHandler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	label, logID, err := h.predictions.Predict(c.Request.Context(), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyText), errors.Is(err, service.ErrTextTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		case errors.Is(err, service.ErrModelNotReady):
			c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Model not loaded"})
		default:
			h.logger.Error("Prediction failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		}
		return
	}

	middleware.PredictionsTotal.WithLabelValues(string(label)).Inc()

	c.JSON(http.StatusOK, gin.H{
		"prediction": label,
		"log_id":     logID,
	})
}

// SubmitFeedback handles POST /feedback/:log_id. Any service failure,
// including an unknown log id, is reported as a 500.
func (h *predictHandler) SubmitFeedback(c *gin.Context) {
	idStr := c.Param("log_id")
	logID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid log ID"})
		return
	}

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if err := h.predictions.SubmitFeedback(c.Request.Context(), logID, req.Feedback); err != nil {
		h.logger.Error("Failed to submit feedback", zap.Int64("log_id", logID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
