package api

import (
	"net/http"
	"strconv"

	"rinkops/internal/service"

	"github.com/gin-gonic/gin"
)

// listInstallments returns an order's installment schedule.
// ?order_id is required.
func (h *Handler) listInstallments(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Query("order_id"), 10, 64)
	if err != nil || orderID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order_id query parameter is required"})
		return
	}

	installments, err := h.payments.ListInstallments(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, "failed to list installments", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"installments": installments,
		"count":        len(installments),
	})
}

// saveInstallment creates or updates one installment; a body with id zero
// creates.
func (h *Handler) saveInstallment(c *gin.Context) {
	var req service.InstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	inst, err := h.payments.SaveInstallment(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "failed to save installment", err)
		return
	}

	status := http.StatusOK
	if req.ID == 0 {
		status = http.StatusCreated
	}
	c.JSON(status, inst)
}

// deleteInstallment removes one installment.
func (h *Handler) deleteInstallment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.payments.DeleteInstallment(c.Request.Context(), id); err != nil {
		respondError(c, "failed to delete installment", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
