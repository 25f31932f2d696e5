// Package woo is a minimal WooCommerce REST API v3 client covering the
// order and product feeds the sync engine consumes.
package woo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Order is one order as returned by the feed.
type Order struct {
	ID                 int64      `json:"id"`
	Number             string     `json:"number"`
	Status             string     `json:"status"`
	DateCreated        string     `json:"date_created"`
	Total              string     `json:"total"`
	Billing            Billing    `json:"billing"`
	PaymentMethod      string     `json:"payment_method"`
	PaymentMethodTitle string     `json:"payment_method_title"`
	LineItems          []LineItem `json:"line_items"`
}

// Billing is the customer block of an order.
type Billing struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
}

// LineItem is one purchased item on an order.
type LineItem struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Total    string `json:"total"`
}

// Product is one product as returned by the feed.
type Product struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// totalPagesHeader is how the feed reports pagination.
const totalPagesHeader = "X-WP-TotalPages"

// Client talks to a WooCommerce store using consumer key/secret auth.
type Client struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	httpClient     *http.Client
}

// NewClient creates a feed client. timeout bounds every request.
func NewClient(baseURL, consumerKey, consumerSecret string, timeout time.Duration) *Client {
	return &Client{
		baseURL:        baseURL,
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		httpClient:     &http.Client{Timeout: timeout},
	}
}

// ListOrders fetches one page of orders, newest first. It returns the page
// contents and the total page count the feed reports.
func (c *Client) ListOrders(ctx context.Context, page, perPage int) ([]Order, int, error) {
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", strconv.Itoa(page))
	params.Set("orderby", "date")
	params.Set("order", "desc")

	var orders []Order
	totalPages, err := c.get(ctx, "/wp-json/wc/v3/orders", params, &orders)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders page %d: %w", page, err)
	}
	return orders, totalPages, nil
}

// ListProducts fetches one page of products across all statuses (published,
// draft, private) so inactive programs remain resolvable.
func (c *Client) ListProducts(ctx context.Context, page, perPage int) ([]Product, int, error) {
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", strconv.Itoa(page))
	params.Set("status", "any")

	var products []Product
	totalPages, err := c.get(ctx, "/wp-json/wc/v3/products", params, &products)
	if err != nil {
		return nil, 0, fmt.Errorf("list products page %d: %w", page, err)
	}
	return products, totalPages, nil
}

// ListRecentOrders fetches the newest perPage orders restricted to the given
// lifecycle statuses. Used for spot-checking the feed against the local store.
func (c *Client) ListRecentOrders(ctx context.Context, perPage int, statuses []string) ([]Order, error) {
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("orderby", "date")
	params.Set("order", "desc")
	if len(statuses) > 0 {
		params.Set("status", strings.Join(statuses, ","))
	}

	var orders []Order
	if _, err := c.get(ctx, "/wp-json/wc/v3/orders", params, &orders); err != nil {
		return nil, fmt.Errorf("list recent orders: %w", err)
	}
	return orders, nil
}

// GetOrder fetches a single order for ad-hoc inspection.
func (c *Client) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	var order Order
	_, err := c.get(ctx, fmt.Sprintf("/wp-json/wc/v3/orders/%d", orderID), nil, &order)
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", orderID, err)
	}
	return &order, nil
}

// get performs an authenticated GET and decodes the body into out. It
// returns the total page count from the response headers (1 when absent).
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) (int, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, fmt.Errorf("feed returned status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return 0, fmt.Errorf("failed to decode feed response: %w", err)
	}

	totalPages := 1
	if v := resp.Header.Get(totalPagesHeader); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			totalPages = n
		}
	}
	return totalPages, nil
}
