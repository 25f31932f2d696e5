package api

import (
	"io"
	"net/http"

	"rinkops/internal/service"

	"github.com/gin-gonic/gin"
)

// listProgramSettings returns operator-maintained program metadata in
// display order.
func (h *Handler) listProgramSettings(c *gin.Context) {
	settings, err := h.settings.ListSettings(c.Request.Context())
	if err != nil {
		respondError(c, "failed to list program settings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// saveProgramSetting upserts one program's settings.
func (h *Handler) saveProgramSetting(c *gin.Context) {
	var req service.ProgramSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	setting, err := h.settings.SaveSetting(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "failed to save program setting", err)
		return
	}
	c.JSON(http.StatusOK, setting)
}

// listProgramColors returns the program color assignments.
func (h *Handler) listProgramColors(c *gin.Context) {
	colors, err := h.settings.ListColors(c.Request.Context())
	if err != nil {
		respondError(c, "failed to list program colors", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"colors": colors})
}

type programColorRequest struct {
	ProgramName string `json:"program_name" binding:"required"`
	Color       string `json:"color" binding:"required"`
}

// saveProgramColor upserts one program's display color.
func (h *Handler) saveProgramColor(c *gin.Context) {
	var req programColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	color, err := h.settings.SaveColor(c.Request.Context(), req.ProgramName, req.Color)
	if err != nil {
		respondError(c, "failed to save program color", err)
		return
	}
	c.JSON(http.StatusOK, color)
}

// listEmailTemplates returns the stored email templates.
func (h *Handler) listEmailTemplates(c *gin.Context) {
	templates, err := h.settings.ListTemplates(c.Request.Context())
	if err != nil {
		respondError(c, "failed to list email templates", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// saveEmailTemplate creates or updates a template; a body with id zero
// creates.
func (h *Handler) saveEmailTemplate(c *gin.Context) {
	var req service.EmailTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	tmpl, err := h.settings.SaveTemplate(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "failed to save email template", err)
		return
	}

	status := http.StatusOK
	if req.ID == 0 {
		status = http.StatusCreated
	}
	c.JSON(status, tmpl)
}

// deleteEmailTemplate removes one stored template.
func (h *Handler) deleteEmailTemplate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.settings.DeleteTemplate(c.Request.Context(), id); err != nil {
		respondError(c, "failed to delete email template", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// getUIState returns a stored UI state blob, empty string when nothing was
// saved under the key.
func (h *Handler) getUIState(c *gin.Context) {
	if h.uiState == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "UI state storage is not configured"})
		return
	}

	value, err := h.uiState.GetUIState(c.Request.Context(), c.Param("key"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to read UI state",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": c.Param("key"), "value": value})
}

// maxUIStateBytes caps an individual UI state blob.
const maxUIStateBytes = 64 * 1024

// putUIState stores a UI state blob under the key, replacing any previous
// value. The raw request body is the value.
func (h *Handler) putUIState(c *gin.Context) {
	if h.uiState == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "UI state storage is not configured"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxUIStateBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}
	if len(body) > maxUIStateBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "UI state value too large"})
		return
	}

	if err := h.uiState.SetUIState(c.Request.Context(), c.Param("key"), string(body)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to store UI state",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
