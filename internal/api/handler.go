package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"rinkops/internal/service"
	"rinkops/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// UIStateStore persists small per-operator UI state blobs.
type UIStateStore interface {
	SetUIState(ctx context.Context, key, value string) error
	GetUIState(ctx context.Context, key string) (string, error)
}

// Handler contains HTTP handlers
type Handler struct {
	sync          *service.SyncService
	registrations *service.RegistrationService
	payments      *service.PaymentService
	credits       *service.CreditService
	settings      *service.SettingsService
	uiState       UIStateStore
}

// NewHandler creates a new HTTP handler. uiState may be nil, which disables
// the UI state endpoints.
func NewHandler(
	sync *service.SyncService,
	registrations *service.RegistrationService,
	payments *service.PaymentService,
	credits *service.CreditService,
	settings *service.SettingsService,
	uiState UIStateStore,
) *Handler {
	return &Handler{
		sync:          sync,
		registrations: registrations,
		payments:      payments,
		credits:       credits,
		settings:      settings,
		uiState:       uiState,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/sync/orders", h.syncOrders)
		v1.POST("/sync/registrations", h.syncRegistrations)
		v1.GET("/sync/status", h.syncStatus)
		v1.GET("/sync/verify", h.syncVerify)

		v1.GET("/orders", h.listOrders)
		v1.PATCH("/orders/payment-status", h.setOrderPaymentStatus)
		v1.GET("/orders/:id/inspect", h.inspectOrder)

		v1.GET("/programs", h.listPrograms)
		v1.GET("/programs/:name/registrations", h.programRoster)
		v1.GET("/programs/:name/transfer-targets", h.transferTargets)

		v1.POST("/registrations", h.addRegistration)
		v1.PATCH("/registrations/:id", h.updateRegistrationContact)
		v1.POST("/registrations/:id/remove", h.removeRegistration)
		v1.POST("/registrations/:id/restore", h.restoreRegistration)
		v1.POST("/registrations/:id/transfer", h.transferRegistration)

		v1.GET("/installments", h.listInstallments)
		v1.POST("/installments", h.saveInstallment)
		v1.DELETE("/installments/:id", h.deleteInstallment)

		v1.GET("/credits", h.listCredits)
		v1.POST("/credits", h.addCredit)
		v1.POST("/credits/:id/use", h.useCredit)
		v1.DELETE("/credits/:id", h.deleteCredit)

		v1.GET("/program-settings", h.listProgramSettings)
		v1.POST("/program-settings", h.saveProgramSetting)
		v1.GET("/program-colors", h.listProgramColors)
		v1.POST("/program-colors", h.saveProgramColor)

		v1.GET("/email-templates", h.listEmailTemplates)
		v1.POST("/email-templates", h.saveEmailTemplate)
		v1.DELETE("/email-templates/:id", h.deleteEmailTemplate)

		v1.GET("/ui-state/:key", h.getUIState)
		v1.PUT("/ui-state/:key", h.putUIState)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// statusForError maps a service error kind to an HTTP status.
func statusForError(err error) int {
	switch service.KindOf(err) {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	case service.KindFeed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, message string, err error) {
	body := gin.H{"error": message}
	var se *service.Error
	if errors.As(err, &se) {
		body["error"] = se.Message
		if se.Err != nil {
			body["details"] = se.Err.Error()
		}
	} else if err != nil {
		body["details"] = err.Error()
	}
	c.JSON(statusForError(err), body)
}

// pathID parses a numeric path parameter, writing the 400 itself so the
// caller only checks ok.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
