package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"minimart/internal/model"
)

const inventoryFailMsg = "Inventory request failed"

func (c *Client) StockLevels(ctx context.Context, f model.StockFilter) ([]model.StockLevel, error) {
	q := url.Values{}
	setID(q, "productId", f.ProductID)
	setID(q, "locationId", f.LocationID)
	var out []model.StockLevel
	if err := c.do(ctx, http.MethodGet, "/inventory/stock", q, nil, &out, inventoryFailMsg); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) StockMovements(ctx context.Context, f model.MovementFilter) ([]model.StockMovement, error) {
	q := url.Values{}
	setID(q, "productId", f.ProductID)
	setIf(q, "startDate", f.StartDate)
	setIf(q, "endDate", f.EndDate)
	setID(q, "locationId", f.LocationID)
	var out []model.StockMovement
	if err := c.do(ctx, http.MethodGet, "/inventory/movements", q, nil, &out, inventoryFailMsg); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdjustStock(ctx context.Context, in model.InventoryAdjustment) (*model.StockMovement, error) {
	var out *model.StockMovement
	if err := c.do(ctx, http.MethodPost, "/inventory/adjust", nil, in, &out, inventoryFailMsg); err != nil {
		return nil, err
	}
	return out, nil
}
