package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"rinkops/internal/broker"
	"rinkops/internal/models"
	"rinkops/internal/store"
	"rinkops/internal/woo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFeed struct {
	orderPages   [][]woo.Order
	productPages [][]woo.Product
	orderCalls   int
	productCalls int
	ordersErr    error
}

func (f *fakeFeed) ListOrders(ctx context.Context, page, perPage int) ([]woo.Order, int, error) {
	if f.ordersErr != nil {
		return nil, 0, f.ordersErr
	}
	f.orderCalls++
	return f.orderPages[page-1], len(f.orderPages), nil
}

func (f *fakeFeed) ListProducts(ctx context.Context, page, perPage int) ([]woo.Product, int, error) {
	f.productCalls++
	return f.productPages[page-1], len(f.productPages), nil
}

func (f *fakeFeed) ListRecentOrders(ctx context.Context, perPage int, statuses []string) ([]woo.Order, error) {
	var recent []woo.Order
	for _, page := range f.orderPages {
		recent = append(recent, page...)
	}
	if len(recent) > perPage {
		recent = recent[:perPage]
	}
	return recent, nil
}

func (f *fakeFeed) GetOrder(ctx context.Context, orderID int64) (*woo.Order, error) {
	for _, page := range f.orderPages {
		for i := range page {
			if page[i].ID == orderID {
				return &page[i], nil
			}
		}
	}
	return nil, errors.New("not found")
}

type fakeSyncStore struct {
	orders    map[int64]models.Order
	products  map[int64]models.Product
	upsertErr error
}

func newFakeSyncStore() *fakeSyncStore {
	return &fakeSyncStore{
		orders:   make(map[int64]models.Order),
		products: make(map[int64]models.Product),
	}
}

// UpsertOrders mimics the store contract: vendor fields overwritten,
// locally-owned fields untouched on conflict.
func (f *fakeSyncStore) UpsertOrders(ctx context.Context, orders []models.Order) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	for _, o := range orders {
		if existing, ok := f.orders[o.OrderID]; ok {
			o.PaymentStatus = existing.PaymentStatus
			o.HasInstallments = existing.HasInstallments
		}
		f.orders[o.OrderID] = o
	}
	return nil
}

func (f *fakeSyncStore) UpsertProducts(ctx context.Context, products []models.Product) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	for _, p := range products {
		f.products[p.ProductID] = p
	}
	return nil
}

func (f *fakeSyncStore) ListOrders(ctx context.Context, filter store.OrderFilter) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func noopPublisher() *broker.EventPublisher {
	return broker.NewEventPublisher(nil)
}

func TestSyncOrdersFetchesEveryReportedPage(t *testing.T) {
	feed := &fakeFeed{
		orderPages: [][]woo.Order{
			{{ID: 1, Number: "1"}, {ID: 2, Number: "2"}},
			{{ID: 3, Number: "3"}},
			{},
		},
		productPages: [][]woo.Product{
			{{ID: 10, Name: "Beginner Hockey 1.0", Status: "publish"}},
			{{ID: 11, Name: "Team Hoodie", Status: "publish"}},
		},
	}
	st := newFakeSyncStore()
	svc := NewSyncService(feed, st, nil, noopPublisher(), 100)

	summary, err := svc.SyncOrders(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, feed.orderCalls, "a 3-page order feed must cause exactly 3 fetches")
	assert.Equal(t, 2, feed.productCalls, "a 2-page product feed must cause exactly 2 fetches")
	assert.Equal(t, 3, summary.OrderCount)
	assert.Equal(t, 2, summary.ProductCount)
	assert.Len(t, st.orders, 3)
	assert.Len(t, st.products, 2)
}

func TestSyncOrdersAppliesFirstInsertDefaults(t *testing.T) {
	feed := &fakeFeed{
		orderPages: [][]woo.Order{{{
			ID:          500,
			Number:      "500",
			Status:      "processing",
			DateCreated: "2026-01-15T09:30:00",
			Total:       "250.00",
			Billing:     woo.Billing{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"},
			LineItems: []woo.LineItem{
				{Name: "Beginner Hockey 1.0 - 2 SPOTS LEFT", Quantity: 1, Total: "250.00"},
			},
		}}},
		productPages: [][]woo.Product{{}},
	}
	st := newFakeSyncStore()
	svc := NewSyncService(feed, st, nil, noopPublisher(), 100)

	_, err := svc.SyncOrders(context.Background())
	require.NoError(t, err)

	order := st.orders[500]
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.False(t, order.HasInstallments)
	assert.Equal(t, "Jane", order.CustomerFirstName)
	assert.JSONEq(t,
		`[{"id":0,"name":"Beginner Hockey 1.0 - 2 SPOTS LEFT","quantity":1,"total":"250.00"}]`,
		string(order.Products))
}

func TestSyncOrdersDoesNotResetLocalFields(t *testing.T) {
	feed := &fakeFeed{
		orderPages:   [][]woo.Order{{{ID: 500, Number: "500", Status: "processing"}}},
		productPages: [][]woo.Product{{}},
	}
	st := newFakeSyncStore()
	svc := NewSyncService(feed, st, nil, noopPublisher(), 100)

	_, err := svc.SyncOrders(context.Background())
	require.NoError(t, err)

	// Operator flips the order to unpaid between runs.
	o := st.orders[500]
	o.PaymentStatus = models.PaymentStatusUnpaid
	st.orders[500] = o

	feed.orderPages[0][0].Status = "completed"
	_, err = svc.SyncOrders(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "completed", st.orders[500].Status)
	assert.Equal(t, models.PaymentStatusUnpaid, st.orders[500].PaymentStatus,
		"re-sync must not clobber the operator-owned payment status")
}

func TestSyncOrdersFeedErrorAbortsRun(t *testing.T) {
	feed := &fakeFeed{ordersErr: errors.New("HTTP 429 rate limited")}
	st := newFakeSyncStore()
	svc := NewSyncService(feed, st, nil, noopPublisher(), 100)

	_, err := svc.SyncOrders(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindFeed, KindOf(err))
	assert.Empty(t, st.orders, "a failed run must not report partial progress")
}

func TestSyncOrdersStoreErrorAbortsRun(t *testing.T) {
	feed := &fakeFeed{
		orderPages:   [][]woo.Order{{{ID: 1}}},
		productPages: [][]woo.Product{{}},
	}
	st := newFakeSyncStore()
	st.upsertErr = errors.New("connection refused")
	svc := NewSyncService(feed, st, nil, noopPublisher(), 100)

	_, err := svc.SyncOrders(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindStore, KindOf(err))
}

func TestVerifyReportsMissingOrders(t *testing.T) {
	feed := &fakeFeed{
		orderPages:   [][]woo.Order{{{ID: 1, Status: "processing"}, {ID: 2, Status: "completed"}}},
		productPages: [][]woo.Product{{}},
	}
	st := newFakeSyncStore()
	st.orders[1] = models.Order{OrderID: 1, Status: "processing"}
	svc := NewSyncService(feed, st, nil, noopPublisher(), 100)

	verification, err := svc.Verify(context.Background())
	require.NoError(t, err)
	assert.False(t, verification.InSync)
	assert.Equal(t, []int64{2}, verification.MissingLocally)
}

func TestParseFeedTime(t *testing.T) {
	logger := zap.NewNop()

	got := parseFeedTime("2026-01-15T09:30:00", logger)
	assert.Equal(t, time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC), got)

	got = parseFeedTime("2026-01-15T09:30:00Z", logger)
	assert.Equal(t, time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC), got)

	assert.True(t, parseFeedTime("garbage", logger).IsZero())
}

func TestInspectOrderValidatesID(t *testing.T) {
	svc := NewSyncService(&fakeFeed{}, newFakeSyncStore(), nil, noopPublisher(), 100)

	_, err := svc.InspectOrder(context.Background(), 0)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}
