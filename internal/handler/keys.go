package handler

import (
	"net/http"

	"smsguard/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type KeyHandler interface {
	GenerateKey(c *gin.Context)
}

type keyHandler struct {
	keys   service.KeyService
	logger *zap.Logger
}

func NewKeyHandler(keys service.KeyService, logger *zap.Logger) KeyHandler {
	return &keyHandler{keys: keys, logger: logger}
}

// GenerateKey handles POST /auth/generate-key. The raw key is shown exactly
// once; there is no way to retrieve it later.
func (h *keyHandler) GenerateKey(c *gin.Context) {
	key, err := h.keys.Generate(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to generate API key", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"api_key": key})
}
