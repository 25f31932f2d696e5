package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// syncOrders runs a full order and product sync against the feed.
func (h *Handler) syncOrders(c *gin.Context) {
	summary, err := h.sync.SyncOrders(c.Request.Context())
	if err != nil {
		respondError(c, "sync failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"sync_run_id":   summary.SyncRunID,
		"order_count":   summary.OrderCount,
		"product_count": summary.ProductCount,
		"synced_at":     summary.SyncedAt,
	})
}

// syncRegistrations derives registrations from the synced orders.
func (h *Handler) syncRegistrations(c *gin.Context) {
	synced, err := h.registrations.SyncRegistrations(c.Request.Context())
	if err != nil {
		respondError(c, "registration sync failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"synced":  synced,
	})
}

// syncStatus returns the cached summary of the last successful sync run.
func (h *Handler) syncStatus(c *gin.Context) {
	summary, err := h.sync.LastSync(c.Request.Context())
	if err != nil {
		respondError(c, "failed to read sync status", err)
		return
	}
	if summary == nil {
		c.JSON(http.StatusOK, gin.H{"last_sync": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"last_sync": summary})
}

// syncVerify spot-checks the newest feed orders against the local store.
func (h *Handler) syncVerify(c *gin.Context) {
	verification, err := h.sync.Verify(c.Request.Context())
	if err != nil {
		respondError(c, "verification failed", err)
		return
	}
	c.JSON(http.StatusOK, verification)
}
