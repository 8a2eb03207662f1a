// Package handler implements the HTTP endpoints of the service.
package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/billsync/backend/internal/domain/integration"
	"github.com/billsync/backend/internal/infrastructure/logger"
	"github.com/billsync/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Error sends an error response with the status derived from the error code
func (h *BaseHandler) Error(c *gin.Context, code, message, detail string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponse(code, message, detail))
}

// ErrorFrom classifies a component-level error and sends the matching
// response: invalid input 400, missing order 404, configuration and
// upstream failures 500 with the provider payload in the detail field.
func (h *BaseHandler) ErrorFrom(c *gin.Context, err error) {
	switch {
	case errors.Is(err, integration.ErrInvalidOrderRef):
		h.Error(c, dto.ErrCodeValidation, "order reference is required", "")
	case errors.Is(err, integration.ErrOrderNotFound):
		h.Error(c, dto.ErrCodeNotFound, "order not found on storefront", "")
	case errors.Is(err, integration.ErrLocationNotConfigured):
		h.Error(c, dto.ErrCodeConfiguration, err.Error(), "")
	default:
		if upstream, ok := integration.AsUpstreamError(err); ok {
			logger.GetGinLogger(c).Error("upstream call failed",
				zap.String("provider", upstream.Provider),
				zap.Int("upstream_status", upstream.Status))
			h.Error(c, dto.ErrCodeUpstream, upstream.Provider+" request failed", upstream.Body)
			return
		}
		logger.GetGinLogger(c).Error("request failed", zap.Error(err))
		h.Error(c, dto.ErrCodeInternal, err.Error(), "")
	}
}
