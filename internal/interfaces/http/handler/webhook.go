package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	syncapp "github.com/billsync/backend/internal/application/sync"
)

// Shopify webhook headers
const (
	headerShopifyHmac  = "X-Shopify-Hmac-Sha256"
	headerShopifyTopic = "X-Shopify-Topic"
)

// WebhookHandler receives storefront event deliveries. The signature is
// verified over the raw body before anything is parsed; once authenticated
// the sender is acknowledged regardless of the downstream outcome.
type WebhookHandler struct {
	webhooks *syncapp.WebhookService
	logger   *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(webhooks *syncapp.WebhookService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks, logger: logger}
}

// RegisterRoutes registers webhook routes
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/shopify", h.Shopify)
}

// Shopify handles one webhook delivery
func (h *WebhookHandler) Shopify(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusInternalServerError, "error")
		return
	}

	if !h.webhooks.VerifySignature(raw, c.GetHeader(headerShopifyHmac)) {
		c.String(http.StatusUnauthorized, "invalid HMAC")
		return
	}

	topic := c.GetHeader(headerShopifyTopic)
	if err := h.webhooks.Dispatch(c.Request.Context(), topic, raw); err != nil {
		h.logger.Error("webhook dispatch failed",
			zap.String("topic", topic),
			zap.Error(err))
		c.String(http.StatusInternalServerError, "error")
		return
	}

	c.String(http.StatusOK, "ok")
}
