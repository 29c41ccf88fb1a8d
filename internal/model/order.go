package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus of an order.
type PaymentStatus string

const (
	PaymentPaid      PaymentStatus = "PAID"
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCancelled PaymentStatus = "CANCELLED"
	PaymentHold      PaymentStatus = "HOLD"
)

// PaymentStatuses in display order.
var PaymentStatuses = []PaymentStatus{PaymentPaid, PaymentPending, PaymentCancelled, PaymentHold}

type OrderDetail struct {
	OrderDetailID int64           `json:"orderDetailId,omitempty"`
	OrderID       int64           `json:"orderId,omitempty"`
	ProductID     int64           `json:"productId"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	ProductName   string          `json:"productName,omitempty"`
	Product       *Product        `json:"product,omitempty"`
}

// Order as returned by /orders. OrderDate is kept raw because the backend
// emits local date-times without a zone.
type Order struct {
	OrderID       int64           `json:"orderId"`
	UserID        *int64          `json:"userId,omitempty"`
	CustomerID    *int64          `json:"customerId,omitempty"`
	LocationID    *int64          `json:"locationId,omitempty"`
	Total         decimal.Decimal `json:"total"`
	Discount      decimal.Decimal `json:"discount"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	OrderDate     string          `json:"orderDate,omitempty"`
	OrderDetails  []OrderDetail   `json:"orderDetails,omitempty"`
}

// Paid reports whether the order counts toward revenue.
func (o Order) Paid() bool { return o.PaymentStatus == PaymentPaid }

// Date parses OrderDate in loc. ok is false when the field is empty or unparseable.
func (o Order) Date(loc *time.Location) (time.Time, bool) {
	return ParseBackendTime(o.OrderDate, loc)
}

// NewOrder is the POST /orders payload.
type NewOrder struct {
	UserID        int64            `json:"userId"`
	CustomerID    *int64           `json:"customerId"`
	LocationID    int64            `json:"locationId"`
	Discount      decimal.Decimal  `json:"discount"`
	PaymentStatus PaymentStatus    `json:"paymentStatus"`
	OrderDetails  []NewOrderDetail `json:"orderDetails"`
}

type NewOrderDetail struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

var backendLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseBackendTime accepts the zoned and zone-less layouts the backend emits.
func ParseBackendTime(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range backendLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
