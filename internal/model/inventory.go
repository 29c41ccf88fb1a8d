package model

import "github.com/shopspring/decimal"

// MovementType of a stock movement.
type MovementType string

const (
	MovementPurchase   MovementType = "PURCHASE"
	MovementSale       MovementType = "SALE"
	MovementReturn     MovementType = "RETURN"
	MovementAdjustment MovementType = "ADJUSTMENT"
)

// StockLevel is one product's quantity at one location.
type StockLevel struct {
	StockID      int64  `json:"stockId"`
	ProductID    int64  `json:"productId"`
	ProductName  string `json:"productName"`
	SKU          string `json:"sku,omitempty"`
	CategoryName string `json:"categoryName,omitempty"`
	LocationID   *int64 `json:"locationId,omitempty"`
	LocationName string `json:"locationName,omitempty"`
	Quantity     int    `json:"quantity"`
	LastUpdated  string `json:"lastUpdated,omitempty"`
}

type StockMovement struct {
	MovementID        int64        `json:"movementId"`
	ProductID         int64        `json:"productId"`
	ProductName       string       `json:"productName"`
	LocationID        *int64       `json:"locationId,omitempty"`
	LocationName      string       `json:"locationName,omitempty"`
	MovementType      MovementType `json:"movementType"`
	QuantityChange    int          `json:"quantityChange"`
	ResultingQuantity int          `json:"resultingQuantity"`
	Reference         string       `json:"reference,omitempty"`
	Note              string       `json:"note,omitempty"`
	CreatedAt         string       `json:"createdAt,omitempty"`
}

// InventoryAdjustment is the POST /inventory/adjust payload.
type InventoryAdjustment struct {
	ProductID    int64        `json:"productId"`
	LocationID   int64        `json:"locationId"`
	MovementType MovementType `json:"movementType"`
	Quantity     int          `json:"quantity"`
	Reference    string       `json:"reference,omitempty"`
	Note         string       `json:"note,omitempty"`
}

// StockFilter narrows /inventory/stock.
type StockFilter struct {
	ProductID  *int64
	LocationID *int64
}

// MovementFilter narrows /inventory/movements. Dates are yyyy-mm-dd.
type MovementFilter struct {
	ProductID  *int64
	LocationID *int64
	StartDate  string
	EndDate    string
}

// Reference is the {id, name} pair embedded in purchase order responses.
type Reference struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type PurchaseOrderLine struct {
	ID       int64           `json:"id"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Product  *Reference      `json:"product,omitempty"`
}

type PurchaseOrder struct {
	POID      int64               `json:"poId"`
	Total     decimal.Decimal     `json:"total"`
	OrderDate string              `json:"orderDate,omitempty"`
	Supplier  *Reference          `json:"supplier,omitempty"`
	Location  *Reference          `json:"location,omitempty"`
	Details   []PurchaseOrderLine `json:"details"`
}

// NewPurchaseOrder is the POST /purchase-orders payload.
type NewPurchaseOrder struct {
	SupplierID int64                  `json:"supplierId"`
	LocationID int64                  `json:"locationId"`
	Total      decimal.Decimal        `json:"total"`
	OrderDate  string                 `json:"orderDate,omitempty"`
	Details    []NewPurchaseOrderLine `json:"details"`
}

type NewPurchaseOrderLine struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}
