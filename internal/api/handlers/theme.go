package handlers

import (
	"net/http"

	"ev-charge-planner/internal/api/models"
	"ev-charge-planner/internal/theme"

	"github.com/gin-gonic/gin"
)

// ThemeHandler handles theme requests
type ThemeHandler struct {
	store *theme.Store
}

func NewThemeHandler(store *theme.Store) *ThemeHandler {
	return &ThemeHandler{store: store}
}

// GetTheme handles GET /api/v1/theme
func (h *ThemeHandler) GetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, h.response())
}

// SetTheme handles PUT /api/v1/theme
func (h *ThemeHandler) SetTheme(c *gin.Context) {
	var req models.ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	if req.Toggle {
		h.store.Toggle()
		c.JSON(http.StatusOK, h.response())
		return
	}
	mode, err := theme.ParseMode(req.Mode)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_THEME", err.Error(), nil)
		return
	}
	h.store.Set(mode)
	c.JSON(http.StatusOK, h.response())
}

func (h *ThemeHandler) response() models.ThemeResponse {
	mode := h.store.Mode()
	return models.ThemeResponse{Mode: string(mode), IsDark: mode == theme.Dark}
}
