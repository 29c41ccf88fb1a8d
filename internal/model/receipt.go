package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptLine is one cart line frozen at checkout.
type ReceiptLine struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Price     decimal.Decimal `json:"price"`
	Qty       int             `json:"qty"`
}

// LineTotal is price × qty.
func (l ReceiptLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Qty)))
}

type ReceiptTotals struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
	CashReceived decimal.Decimal `json:"cashReceived"`
	ChangeDue    decimal.Decimal `json:"changeDue"`
}

// Receipt is the immutable snapshot produced by a successful checkout.
type Receipt struct {
	OrderID     *int64        `json:"orderId,omitempty"`
	OrderNumber string        `json:"orderNumber"`
	OrderDate   time.Time     `json:"orderDate"`
	Cashier     string        `json:"cashier"`
	Location    string        `json:"location"`
	Items       []ReceiptLine `json:"items"`
	Totals      ReceiptTotals `json:"totals"`
}

// ReceiptEntry journals a printed receipt so it can be re-rendered or mailed later.
// Body holds the JSON-encoded Receipt.
type ReceiptEntry struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderNumber string          `gorm:"type:varchar(40);uniqueIndex;not null"`
	OrderID     *int64          `gorm:"index"`
	UserID      int64           `gorm:"not null"`
	LocationID  int64           `gorm:"not null"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Body        string          `gorm:"type:text;not null"`
	// PDFPath is set once the receipt has been rendered to disk
	PDFPath   *string `gorm:"column:pdf_path"`
	EmailedTo *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ReceiptEntry) TableName() string { return "receipt_journal" }
