package handler

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/billsync/backend/internal/infrastructure/settings"
	"github.com/billsync/backend/internal/interfaces/http/dto"
)

//go:embed assets/settings.html
var settingsPage []byte

// SettingsHandler exposes the persisted sync settings and the admin page
type SettingsHandler struct {
	BaseHandler
	store settings.Store
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(store settings.Store) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// RegisterRoutes registers settings routes
func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/admin/settings", h.AdminPage)
	rg.GET("/api/settings", h.Get)
	rg.POST("/api/settings", h.Merge)
	rg.POST("/api/map", h.ReplaceMap)
}

// AdminPage serves the static settings page
func (h *SettingsHandler) AdminPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", settingsPage)
}

// Get returns the current settings document
func (h *SettingsHandler) Get(c *gin.Context) {
	current, err := h.store.Get(c.Request.Context())
	if err != nil {
		h.ErrorFrom(c, err)
		return
	}
	c.JSON(http.StatusOK, current)
}

// Merge applies a partial update and returns the merged document
func (h *SettingsHandler) Merge(c *gin.Context) {
	var patch settings.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.Error(c, dto.ErrCodeValidation, "invalid settings payload", err.Error())
		return
	}

	merged, err := h.store.Merge(c.Request.Context(), patch)
	if err != nil {
		h.ErrorFrom(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "settings": merged})
}

// ReplaceMap replaces the warehouse-name mapping wholesale
func (h *SettingsHandler) ReplaceMap(c *gin.Context) {
	m := make(map[string]string)
	if err := c.ShouldBindJSON(&m); err != nil {
		h.Error(c, dto.ErrCodeValidation, "invalid mapping payload", err.Error())
		return
	}

	if _, err := h.store.ReplaceWarehouseMap(c.Request.Context(), m); err != nil {
		h.ErrorFrom(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
