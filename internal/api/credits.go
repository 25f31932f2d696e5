package api

import (
	"net/http"

	"rinkops/internal/service"

	"github.com/gin-gonic/gin"
)

// listCredits returns the full credit ledger, newest first.
func (h *Handler) listCredits(c *gin.Context) {
	credits, err := h.credits.ListCredits(c.Request.Context())
	if err != nil {
		respondError(c, "failed to list credits", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"credits": credits,
		"count":   len(credits),
	})
}

// addCredit creates a new active credit.
func (h *Handler) addCredit(c *gin.Context) {
	var req service.AddCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	credit, err := h.credits.AddCredit(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "failed to add credit", err)
		return
	}
	c.JSON(http.StatusCreated, credit)
}

type useCreditRequest struct {
	UsedBy        string `json:"used_by" binding:"required"`
	UsedOnProgram string `json:"used_on_program"`
	Notes         string `json:"notes"`
}

// useCredit marks a credit as spent. One-way; a used credit stays used.
func (h *Handler) useCredit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req useCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.credits.UseCredit(c.Request.Context(), id, req.UsedBy, req.UsedOnProgram, req.Notes); err != nil {
		respondError(c, "failed to use credit", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// deleteCredit removes a credit entry.
func (h *Handler) deleteCredit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.credits.DeleteCredit(c.Request.Context(), id); err != nil {
		respondError(c, "failed to delete credit", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
