package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/billsync/backend/internal/domain/billing"
	"github.com/billsync/backend/internal/interfaces/http/dto"
)

// MetaHandler exposes the accounting reference data used by the admin page
type MetaHandler struct {
	BaseHandler
	accounting billing.AccountingGateway
}

// NewMetaHandler creates a new MetaHandler
func NewMetaHandler(accounting billing.AccountingGateway) *MetaHandler {
	return &MetaHandler{accounting: accounting}
}

// RegisterRoutes registers meta routes
func (h *MetaHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/api/sb/meta", h.Meta)
}

// Meta returns the invoice series and warehouses known to the accounting
// provider
func (h *MetaHandler) Meta(c *gin.Context) {
	ctx := c.Request.Context()

	series, err := h.accounting.ListSeries(ctx)
	if err != nil {
		h.ErrorFrom(c, err)
		return
	}
	warehouses, err := h.accounting.ListWarehouses(ctx)
	if err != nil {
		h.ErrorFrom(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MetaResponse{Series: series, Warehouses: warehouses})
}
