package pos

import (
	"context"
	"fmt"
	"time"

	"minimart/internal/apierror"
	"minimart/internal/model"

	"github.com/shopspring/decimal"
)

// State of the register.
type State string

const (
	StateIdle        State = "idle"
	StateBuilding    State = "building"
	StateCheckingOut State = "checking_out"
)

// StateOf derives the register state from the cart and the in-flight flag.
func StateOf(c *Cart, inFlight bool) State {
	switch {
	case inFlight:
		return StateCheckingOut
	case c == nil || c.Empty():
		return StateIdle
	default:
		return StateBuilding
	}
}

const (
	MsgEmptyCart = "Scan at least one item."
	MsgCashShort = "Cash received is less than the sale total."
)

// OrderSubmitter creates the sale on the backend.
type OrderSubmitter interface {
	CreateOrder(ctx context.Context, in model.NewOrder) (*model.Order, error)
}

// SaleContext identifies who sells where.
type SaleContext struct {
	UserID     int64
	LocationID int64
	Cashier    string
	Location   string
}

// Validate checks the checkout preconditions without touching the network.
func Validate(c *Cart) error {
	if c.Empty() {
		return apierror.Validation(MsgEmptyCart)
	}
	if IsShort(c.CashReceived, c.Totals().Total) {
		return apierror.Validation(MsgCashShort)
	}
	return nil
}

// BuildOrder turns the cart into the backend order payload.
func BuildOrder(c *Cart, sc SaleContext) model.NewOrder {
	details := make([]model.NewOrderDetail, 0, len(c.Lines))
	for _, l := range c.Lines {
		details = append(details, model.NewOrderDetail{ProductID: l.ProductID, Quantity: l.Qty, Price: l.Price})
	}
	return model.NewOrder{
		UserID:        sc.UserID,
		CustomerID:    nil,
		LocationID:    sc.LocationID,
		Discount:      decimal.Zero,
		PaymentStatus: model.PaymentPaid,
		OrderDetails:  details,
	}
}

// Checkout submits the cart. On success the cart is cleared and the receipt
// returned; on any failure the cart is left exactly as it was.
func Checkout(ctx context.Context, c *Cart, sc SaleContext, sub OrderSubmitter, now time.Time) (*model.Receipt, error) {
	if err := Validate(c); err != nil {
		return nil, err
	}
	cash, _ := ParseCash(c.CashReceived)
	totals := c.Totals()

	saved, err := sub.CreateOrder(ctx, BuildOrder(c, sc))
	if err != nil {
		return nil, err
	}

	r := &model.Receipt{
		OrderNumber: OrderNumber(saved, now),
		OrderDate:   now,
		Cashier:     sc.Cashier,
		Location:    sc.Location,
		Items:       make([]model.ReceiptLine, 0, len(c.Lines)),
		Totals: model.ReceiptTotals{
			Subtotal:     totals.Subtotal,
			Discount:     totals.Discount,
			Total:        totals.Total,
			CashReceived: cash,
			ChangeDue:    cash.Sub(totals.Total),
		},
	}
	if saved != nil {
		if saved.OrderID != 0 {
			id := saved.OrderID
			r.OrderID = &id
		}
		if t, ok := saved.Date(now.Location()); ok {
			r.OrderDate = t
		}
	}
	for _, l := range c.Lines {
		r.Items = append(r.Items, model.ReceiptLine{ProductID: l.ProductID, Name: l.Name, SKU: l.SKU, Price: l.Price, Qty: l.Qty})
	}

	c.Clear()
	return r, nil
}

// OrderNumber is "INV-" plus the five-digit padded order id, or a
// "TEMP-<unix ms>" placeholder when the backend returned no id.
func OrderNumber(o *model.Order, now time.Time) string {
	if o == nil || o.OrderID == 0 {
		return fmt.Sprintf("TEMP-%d", now.UnixMilli())
	}
	return fmt.Sprintf("INV-%05d", o.OrderID)
}
