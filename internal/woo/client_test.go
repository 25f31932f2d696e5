package woo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "ck_test", "cs_test", 5*time.Second)
}

func TestListOrdersPagination(t *testing.T) {
	pages := map[string][]Order{
		"1": {{ID: 1, Number: "1001"}, {ID: 2, Number: "1002"}},
		"2": {{ID: 3, Number: "1003"}},
		"3": {},
	}

	var requests int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "ck_test", user)
		assert.Equal(t, "cs_test", pass)

		assert.Equal(t, "/wp-json/wc/v3/orders", r.URL.Path)
		assert.Equal(t, "date", r.URL.Query().Get("orderby"))
		assert.Equal(t, "desc", r.URL.Query().Get("order"))

		page := r.URL.Query().Get("page")
		w.Header().Set("X-WP-TotalPages", "3")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(pages[page])
	})

	ctx := context.Background()
	total := 0
	for page := 1; ; page++ {
		orders, totalPages, err := client.ListOrders(ctx, page, 100)
		require.NoError(t, err)
		assert.Equal(t, 3, totalPages)
		total += len(orders)
		if page >= totalPages {
			break
		}
	}

	assert.Equal(t, 3, requests, "feed reporting 3 pages must cause exactly 3 fetches")
	assert.Equal(t, 3, total)
}

func TestListProductsStatusAny(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wp-json/wc/v3/products", r.URL.Path)
		assert.Equal(t, "any", r.URL.Query().Get("status"))
		w.Header().Set("X-WP-TotalPages", "1")
		_ = json.NewEncoder(w).Encode([]Product{
			{ID: 10, Name: "Beginner Hockey 1.0 - 2 SPOTS LEFT", Status: "publish"},
			{ID: 11, Name: "Old Camp", Status: "draft"},
		})
	})

	products, totalPages, err := client.ListProducts(context.Background(), 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, totalPages)
	assert.Len(t, products, 2)
	assert.Equal(t, "draft", products[1].Status)
}

func TestMissingTotalPagesHeaderDefaultsToOne(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]Order{{ID: 7}})
	})

	_, totalPages, err := client.ListOrders(context.Background(), 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, totalPages)
}

func TestGetOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wp-json/wc/v3/orders/500", r.URL.Path)
		_ = json.NewEncoder(w).Encode(Order{
			ID:     500,
			Number: "500",
			Billing: Billing{
				FirstName: "Jane",
				LastName:  "Doe",
				Email:     "jane@example.com",
			},
			LineItems: []LineItem{
				{Name: "Beginner Hockey 1.0 - 2 SPOTS LEFT", Quantity: 1, Total: "250.00"},
			},
		})
	})

	order, err := client.GetOrder(context.Background(), 500)
	require.NoError(t, err)
	assert.Equal(t, int64(500), order.ID)
	assert.Equal(t, "Jane", order.Billing.FirstName)
	require.Len(t, order.LineItems, 1)
	assert.Equal(t, "250.00", order.LineItems[0].Total)
}

func TestErrorStatusSurfaced(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"woocommerce_rest_cannot_view"}`, http.StatusUnauthorized)
	})

	_, _, err := client.ListOrders(context.Background(), 1, 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), strconv.Itoa(http.StatusUnauthorized))
}
