package service

import (
	"context"
	"encoding/json"
	"time"

	"rinkops/internal/broker"
	"rinkops/internal/models"
	"rinkops/internal/store"
	"rinkops/internal/util"
	"rinkops/internal/woo"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"
)

// maxFeedPages caps the pagination loop so a feed that keeps reporting more
// pages cannot loop forever.
const maxFeedPages = 500

// hiddenOrderStatuses are lifecycle states excluded from operator-facing
// views and from the sync verification sample.
var hiddenOrderStatuses = []string{"checkout-draft", "pending", "failed", "cancelled"}

// OrderFeed is the upstream commerce platform read interface.
type OrderFeed interface {
	ListOrders(ctx context.Context, page, perPage int) ([]woo.Order, int, error)
	ListProducts(ctx context.Context, page, perPage int) ([]woo.Product, int, error)
	ListRecentOrders(ctx context.Context, perPage int, statuses []string) ([]woo.Order, error)
	GetOrder(ctx context.Context, orderID int64) (*woo.Order, error)
}

// SyncStore is the slice of the store the sync engine writes to.
type SyncStore interface {
	UpsertOrders(ctx context.Context, orders []models.Order) error
	UpsertProducts(ctx context.Context, products []models.Product) error
	ListOrders(ctx context.Context, f store.OrderFilter) ([]models.Order, error)
}

// SyncCache remembers the last successful run summary.
type SyncCache interface {
	SetLastSyncSummary(ctx context.Context, summary interface{}) error
	GetLastSyncSummary(ctx context.Context, out interface{}) (bool, error)
}

// SyncService pulls the complete order and product sets from the feed and
// mirrors them into the local store.
type SyncService struct {
	feed           OrderFeed
	store          SyncStore
	cache          SyncCache
	eventPublisher *broker.EventPublisher
	pageSize       int
	logger         *zap.Logger
}

// NewSyncService creates a new sync service. cache may be nil.
func NewSyncService(feed OrderFeed, st SyncStore, cache SyncCache, eventPublisher *broker.EventPublisher, pageSize int) *SyncService {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &SyncService{
		feed:           feed,
		store:          st,
		cache:          cache,
		eventPublisher: eventPublisher,
		pageSize:       pageSize,
		logger:         util.GetLogger(),
	}
}

// SyncSummary is the result of one sync run.
type SyncSummary struct {
	SyncRunID    string    `json:"sync_run_id"`
	OrderCount   int       `json:"order_count"`
	ProductCount int       `json:"product_count"`
	SyncedAt     time.Time `json:"synced_at"`
}

// SyncOrders fetches every order and product from the feed and upserts them.
// Any fetch or upsert error aborts the run; nothing is reported synced on
// failure, and re-running after a partial failure is safe because upserts
// are keyed by the stable external IDs.
func (s *SyncService) SyncOrders(ctx context.Context) (*SyncSummary, error) {
	ctx, span := util.StartSpan(ctx, "SyncService.SyncOrders")
	defer span.End()

	start := time.Now()
	runID := uuid.New().String()
	s.logger.Info("Starting order sync", zap.String("sync_run_id", runID))

	feedOrders, err := s.fetchAllOrders(ctx)
	if err != nil {
		util.SyncRunsTotal.WithLabelValues("feed_error").Inc()
		return nil, feedError("failed to fetch orders from feed", err)
	}

	feedProducts, err := s.fetchAllProducts(ctx)
	if err != nil {
		util.SyncRunsTotal.WithLabelValues("feed_error").Inc()
		return nil, feedError("failed to fetch products from feed", err)
	}

	orders := make([]models.Order, 0, len(feedOrders))
	for i := range feedOrders {
		orders = append(orders, mapFeedOrder(&feedOrders[i], s.logger))
	}

	products := make([]models.Product, 0, len(feedProducts))
	for _, p := range feedProducts {
		products = append(products, models.Product{
			ProductID: p.ID,
			Name:      p.Name,
			Status:    p.Status,
		})
	}

	if err := s.store.UpsertOrders(ctx, orders); err != nil {
		util.SyncRunsTotal.WithLabelValues("store_error").Inc()
		return nil, storeError("failed to upsert orders", err)
	}
	if err := s.store.UpsertProducts(ctx, products); err != nil {
		util.SyncRunsTotal.WithLabelValues("store_error").Inc()
		return nil, storeError("failed to upsert products", err)
	}

	util.SyncRunsTotal.WithLabelValues("success").Inc()
	util.SyncDuration.Observe(time.Since(start).Seconds())
	util.OrdersUpsertedTotal.Add(float64(len(orders)))
	util.ProductsUpsertedTotal.Add(float64(len(products)))

	summary := &SyncSummary{
		SyncRunID:    runID,
		OrderCount:   len(orders),
		ProductCount: len(products),
		SyncedAt:     time.Now().UTC(),
	}

	if s.cache != nil {
		if err := s.cache.SetLastSyncSummary(ctx, summary); err != nil {
			s.logger.Warn("Failed to cache sync summary", zap.Error(err))
		}
	}

	event := &models.OrdersSyncedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrdersSynced,
			Timestamp: time.Now(),
		},
		SyncRunID:    runID,
		OrderCount:   summary.OrderCount,
		ProductCount: summary.ProductCount,
	}
	if err := s.eventPublisher.PublishOrdersSynced(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrdersSynced event", zap.Error(err))
	}

	s.logger.Info("Order sync completed",
		zap.String("sync_run_id", runID),
		zap.Int("orders", summary.OrderCount),
		zap.Int("products", summary.ProductCount),
		zap.Duration("took", time.Since(start)))

	return summary, nil
}

// fetchAllOrders pages through the order feed until the reported last page.
func (s *SyncService) fetchAllOrders(ctx context.Context) ([]woo.Order, error) {
	var all []woo.Order
	for page := 1; page <= maxFeedPages; page++ {
		orders, totalPages, err := s.feed.ListOrders(ctx, page, s.pageSize)
		if err != nil {
			return nil, err
		}
		util.FeedPagesFetchedTotal.WithLabelValues("orders").Inc()
		all = append(all, orders...)
		if page >= totalPages {
			break
		}
	}
	return all, nil
}

// fetchAllProducts pages through the product feed until the reported last page.
func (s *SyncService) fetchAllProducts(ctx context.Context) ([]woo.Product, error) {
	var all []woo.Product
	for page := 1; page <= maxFeedPages; page++ {
		products, totalPages, err := s.feed.ListProducts(ctx, page, s.pageSize)
		if err != nil {
			return nil, err
		}
		util.FeedPagesFetchedTotal.WithLabelValues("products").Inc()
		all = append(all, products...)
		if page >= totalPages {
			break
		}
	}
	return all, nil
}

// mapFeedOrder converts a feed order into the local entity, carrying the
// first-insert defaults for the locally-owned fields. The upsert never
// applies those defaults to existing rows.
func mapFeedOrder(o *woo.Order, logger *zap.Logger) models.Order {
	items, err := json.Marshal(o.LineItems)
	if err != nil {
		// Marshal of the decoded payload cannot realistically fail; keep the
		// row with an empty list rather than dropping the order.
		logger.Warn("Failed to marshal line items", zap.Int64("order_id", o.ID), zap.Error(err))
		items = []byte("[]")
	}

	return models.Order{
		OrderID:            o.ID,
		OrderNumber:        o.Number,
		DateCreated:        parseFeedTime(o.DateCreated, logger),
		Status:             o.Status,
		CustomerFirstName:  o.Billing.FirstName,
		CustomerLastName:   o.Billing.LastName,
		CustomerEmail:      o.Billing.Email,
		CustomerPhone:      o.Billing.Phone,
		Total:              o.Total,
		PaymentMethod:      o.PaymentMethod,
		PaymentMethodTitle: o.PaymentMethodTitle,
		Products:           types.JSONText(items),
		PaymentStatus:      models.PaymentStatusPaid,
		HasInstallments:    false,
	}
}

// parseFeedTime handles the feed's timezone-less timestamps.
func parseFeedTime(value string, logger *zap.Logger) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	logger.Warn("Unparseable order timestamp", zap.String("value", value))
	return time.Time{}
}

// SyncVerification compares the newest feed orders against the local store.
type SyncVerification struct {
	FeedOrderIDs   []int64 `json:"feed_order_ids"`
	StoredOrderIDs []int64 `json:"stored_order_ids"`
	MissingLocally []int64 `json:"missing_locally"`
	InSync         bool    `json:"in_sync"`
}

// Verify spot-checks sync health: the latest five visible-status orders on
// each side, and which feed orders the store has not seen yet.
func (s *SyncService) Verify(ctx context.Context) (*SyncVerification, error) {
	ctx, span := util.StartSpan(ctx, "SyncService.Verify")
	defer span.End()

	const sample = 5

	visible := []string{"processing", "completed", "on-hold", "refunded"}
	feedOrders, err := s.feed.ListRecentOrders(ctx, sample, visible)
	if err != nil {
		return nil, feedError("failed to fetch recent orders from feed", err)
	}

	stored, err := s.store.ListOrders(ctx, store.OrderFilter{
		ExcludeStatuses: hiddenOrderStatuses,
		Limit:           sample,
	})
	if err != nil {
		return nil, storeError("failed to list stored orders", err)
	}

	verification := &SyncVerification{
		FeedOrderIDs:   make([]int64, 0, len(feedOrders)),
		StoredOrderIDs: make([]int64, 0, len(stored)),
		MissingLocally: []int64{},
	}

	storedSet := make(map[int64]bool, len(stored))
	for _, o := range stored {
		verification.StoredOrderIDs = append(verification.StoredOrderIDs, o.OrderID)
		storedSet[o.OrderID] = true
	}
	for _, o := range feedOrders {
		verification.FeedOrderIDs = append(verification.FeedOrderIDs, o.ID)
		if !storedSet[o.ID] {
			verification.MissingLocally = append(verification.MissingLocally, o.ID)
		}
	}
	verification.InSync = len(verification.MissingLocally) == 0

	return verification, nil
}

// StoredOrders lists synced orders for operator views. Hidden lifecycle
// statuses (drafts, failures, cancellations) are excluded unless asked for,
// and the list can be narrowed to one payment status.
func (s *SyncService) StoredOrders(ctx context.Context, paymentStatus string, includeHidden bool) ([]models.Order, error) {
	if paymentStatus != "" &&
		paymentStatus != models.PaymentStatusPaid &&
		paymentStatus != models.PaymentStatusUnpaid {
		return nil, validationError("payment_status must be %q or %q", models.PaymentStatusPaid, models.PaymentStatusUnpaid)
	}

	filter := store.OrderFilter{PaymentStatus: paymentStatus}
	if !includeHidden {
		filter.ExcludeStatuses = hiddenOrderStatuses
	}

	orders, err := s.store.ListOrders(ctx, filter)
	if err != nil {
		return nil, storeError("failed to list orders", err)
	}
	return orders, nil
}

// LastSync returns the cached summary of the most recent successful run, or
// nil when none is recorded.
func (s *SyncService) LastSync(ctx context.Context) (*SyncSummary, error) {
	if s.cache == nil {
		return nil, nil
	}
	var summary SyncSummary
	found, err := s.cache.GetLastSyncSummary(ctx, &summary)
	if err != nil {
		return nil, storeError("failed to read last sync summary", err)
	}
	if !found {
		return nil, nil
	}
	return &summary, nil
}

// InspectOrder fetches a single order's live detail from the feed.
func (s *SyncService) InspectOrder(ctx context.Context, orderID int64) (*woo.Order, error) {
	if orderID <= 0 {
		return nil, validationError("order id is required")
	}
	order, err := s.feed.GetOrder(ctx, orderID)
	if err != nil {
		return nil, feedError("failed to fetch order from feed", err)
	}
	return order, nil
}
