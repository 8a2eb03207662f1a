package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	syncapp "github.com/billsync/backend/internal/application/sync"
	"github.com/billsync/backend/internal/domain/billing"
	"github.com/billsync/backend/internal/interfaces/http/dto"
)

// ActionsHandler exposes the manual document issuance endpoints
type ActionsHandler struct {
	BaseHandler
	documents *syncapp.DocumentService
}

// NewActionsHandler creates a new ActionsHandler
func NewActionsHandler(documents *syncapp.DocumentService) *ActionsHandler {
	return &ActionsHandler{documents: documents}
}

// RegisterRoutes registers action routes
func (h *ActionsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/actions/document", h.CreateDocument)
	rg.POST("/actions/credit", h.CreateCredit)
}

// CreateDocument issues an invoice or proforma for the referenced order
func (h *ActionsHandler) CreateDocument(c *gin.Context) {
	var req dto.DocumentActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.ErrCodeValidation, "order reference is required", "")
		return
	}

	result, err := h.documents.IssueDocument(c.Request.Context(), req.OrderRef, billing.DocumentType(req.Type), req.Warehouse)
	if err != nil {
		h.ErrorFrom(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateCredit issues a credit note for the referenced order
func (h *ActionsHandler) CreateCredit(c *gin.Context) {
	var req dto.CreditActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.ErrCodeValidation, "order reference is required", "")
		return
	}

	result, err := h.documents.IssueCreditNote(c.Request.Context(), req.OrderRef, req.Reason)
	if err != nil {
		h.ErrorFrom(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
