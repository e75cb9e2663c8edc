package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-watermark/internal/models"
)

func (h *WatermarkHandler) ListPresets(c *gin.Context) {
	presets, err := h.presets.List(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    presets,
	})
}

func (h *WatermarkHandler) GetPreset(c *gin.Context) {
	p, err := h.presets.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    p,
	})
}

// SavePreset creates or replaces the named preset.
func (h *WatermarkHandler) SavePreset(c *gin.Context) {
	var p models.Preset
	if err := c.ShouldBindJSON(&p); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid preset: "+err.Error())
		return
	}

	spec := p.Spec()
	if err := validateSpec(&spec); err != nil {
		h.respondServiceError(c, err)
		return
	}

	if err := h.presets.Save(c.Request.Context(), c.Param("name"), p); err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    p,
	})
}

func (h *WatermarkHandler) DeletePreset(c *gin.Context) {
	if err := h.presets.Delete(c.Request.Context(), c.Param("name")); err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
