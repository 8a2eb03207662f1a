package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/billsync/backend/internal/interfaces/http/dto"
)

// SystemHandler serves the liveness endpoint
type SystemHandler struct {
	BaseHandler
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{}
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}

// Health reports process liveness
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{OK: true})
}
