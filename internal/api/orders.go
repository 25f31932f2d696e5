package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// listOrders returns synced orders. Hidden lifecycle statuses are excluded
// unless ?include_hidden=true; ?payment_status=paid|unpaid narrows the list.
func (h *Handler) listOrders(c *gin.Context) {
	includeHidden := c.Query("include_hidden") == "true"
	paymentStatus := c.Query("payment_status")

	orders, err := h.sync.StoredOrders(c.Request.Context(), paymentStatus, includeHidden)
	if err != nil {
		respondError(c, "failed to list orders", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

type paymentStatusRequest struct {
	OrderID       int64  `json:"order_id" binding:"required"`
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// setOrderPaymentStatus flips an order's paid/unpaid flag. The new value
// cascades to every registration derived from the order.
func (h *Handler) setOrderPaymentStatus(c *gin.Context) {
	var req paymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.payments.SetOrderPaymentStatus(c.Request.Context(), req.OrderID, req.PaymentStatus); err != nil {
		respondError(c, "failed to update payment status", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"order_id":       req.OrderID,
		"payment_status": req.PaymentStatus,
	})
}

// inspectOrder fetches one order's live detail straight from the feed,
// bypassing the local store.
func (h *Handler) inspectOrder(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.sync.InspectOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, "failed to inspect order", err)
		return
	}
	c.JSON(http.StatusOK, order)
}
