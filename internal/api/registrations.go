package api

import (
	"net/http"

	"rinkops/internal/service"

	"github.com/gin-gonic/gin"
)

// listPrograms returns the per-program roster summaries. ?filter=active
// keeps only programs whose shop product is currently published.
func (h *Handler) listPrograms(c *gin.Context) {
	activeOnly := c.DefaultQuery("filter", "all") == "active"

	summaries, err := h.registrations.ProgramSummaries(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, "failed to list programs", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"programs": summaries,
		"count":    len(summaries),
	})
}

// programRoster returns a program's registrations. Removed and
// transferred-out rows are hidden unless ?include_removed=true.
func (h *Handler) programRoster(c *gin.Context) {
	includeRemoved := c.Query("include_removed") == "true"

	regs, err := h.registrations.Roster(c.Request.Context(), c.Param("name"), includeRemoved)
	if err != nil {
		respondError(c, "failed to load roster", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"registrations": regs,
		"count":         len(regs),
	})
}

// transferTargets lists programs a registration in this program could move to.
func (h *Handler) transferTargets(c *gin.Context) {
	targets, err := h.registrations.TransferTargets(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, "failed to list transfer targets", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"targets": targets})
}

// addRegistration inserts a manually-entered player.
func (h *Handler) addRegistration(c *gin.Context) {
	var req service.AddRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	reg, err := h.registrations.AddRegistration(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "failed to add registration", err)
		return
	}
	c.JSON(http.StatusCreated, reg)
}

type contactUpdateRequest struct {
	PlayerName  string `json:"player_name" binding:"required"`
	PlayerEmail string `json:"player_email"`
	PlayerPhone string `json:"player_phone"`
}

// updateRegistrationContact updates a registration's player contact fields.
func (h *Handler) updateRegistrationContact(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req contactUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.registrations.UpdateContact(c.Request.Context(), id, req.PlayerName, req.PlayerEmail, req.PlayerPhone); err != nil {
		respondError(c, "failed to update registration", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// removeRegistration soft-deletes a registration.
func (h *Handler) removeRegistration(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.registrations.Remove(c.Request.Context(), id); err != nil {
		respondError(c, "failed to remove registration", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// restoreRegistration returns a removed registration to the active roster.
func (h *Handler) restoreRegistration(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.registrations.Restore(c.Request.Context(), id); err != nil {
		respondError(c, "failed to restore registration", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type transferRequest struct {
	TargetProgram string `json:"target_program" binding:"required"`
}

// transferRegistration moves a player to another program.
func (h *Handler) transferRegistration(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	moved, err := h.registrations.Transfer(c.Request.Context(), id, req.TargetProgram)
	if err != nil {
		respondError(c, "transfer failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"registration": moved,
	})
}
