package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"minimart/internal/model"
)

func (c *Client) ListOrders(ctx context.Context) ([]model.Order, error) {
	var out []model.Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, nil, &out, "Failed to load orders"); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateOrder posts a sale. The result may be nil when the backend answers 204.
func (c *Client) CreateOrder(ctx context.Context, in model.NewOrder) (*model.Order, error) {
	var out *model.Order
	if err := c.do(ctx, http.MethodPost, "/orders", nil, in, &out, "Failed to create order"); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPurchaseOrders filters by the optional start/end dates (yyyy-mm-dd).
func (c *Client) ListPurchaseOrders(ctx context.Context, start, end string) ([]model.PurchaseOrder, error) {
	q := url.Values{}
	setIf(q, "start", start)
	setIf(q, "end", end)
	var out []model.PurchaseOrder
	if err := c.do(ctx, http.MethodGet, "/purchase-orders", q, nil, &out, "Failed to load purchase orders"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreatePurchaseOrder(ctx context.Context, in model.NewPurchaseOrder) (*model.PurchaseOrder, error) {
	var out model.PurchaseOrder
	if err := c.do(ctx, http.MethodPost, "/purchase-orders", nil, in, &out, "Failed to create purchase order"); err != nil {
		return nil, err
	}
	return &out, nil
}
