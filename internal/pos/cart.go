// Package pos is the point-of-sale cart and checkout engine. Everything here is
// pure: callers own persistence, locking and the network.
package pos

import (
	"math"
	"regexp"
	"strings"

	"minimart/internal/model"

	"github.com/shopspring/decimal"
)

// Line is one product in the cart. Qty is at least 1 while the line exists.
type Line struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	SKU       string          `json:"sku"`
	Qty       int             `json:"qty"`
}

func (l Line) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// Cart is the in-progress sale. There is at most one line per ProductID.
type Cart struct {
	Lines        []Line `json:"lines"`
	CashReceived string `json:"cashReceived"`
}

// Totals of a cart. Discount is always zero; there is no discount engine.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
	QtyTotal int             `json:"qtyTotal"`
}

func (c *Cart) Empty() bool { return len(c.Lines) == 0 }

// AddLine merges qty into the product's line or appends a new one.
// qty is floored and clamped to at least 1.
func (c *Cart) AddLine(p model.Product, qty float64) {
	n := normalizeQty(qty)
	for i := range c.Lines {
		if c.Lines[i].ProductID == p.ProductID {
			c.Lines[i].Qty += n
			return
		}
	}
	name := p.Name
	if name == "" {
		name = "Unnamed product"
	}
	c.Lines = append(c.Lines, Line{
		ProductID: p.ProductID,
		Name:      name,
		Price:     p.Price,
		SKU:       lineSKU(p),
		Qty:       n,
	})
}

// AdjustQuantity adds delta to the line with sku. Lines reaching zero or less
// are removed. Reports whether a line matched.
func (c *Cart) AdjustQuantity(sku string, delta int) bool {
	return c.adjust(func(l Line) bool { return l.SKU == sku }, delta)
}

// AdjustProduct is AdjustQuantity keyed by product id. Unlike SKUs, ids are
// unique per line, including lines shown as "N/A".
func (c *Cart) AdjustProduct(productID int64, delta int) bool {
	return c.adjust(func(l Line) bool { return l.ProductID == productID }, delta)
}

// RemoveLine drops every line with sku.
func (c *Cart) RemoveLine(sku string) bool {
	return c.remove(func(l Line) bool { return l.SKU == sku })
}

// RemoveProduct drops the line for productID.
func (c *Cart) RemoveProduct(productID int64) bool {
	return c.remove(func(l Line) bool { return l.ProductID == productID })
}

func (c *Cart) adjust(match func(Line) bool, delta int) bool {
	matched := false
	kept := c.Lines[:0]
	for _, l := range c.Lines {
		if match(l) {
			matched = true
			l.Qty += delta
		}
		if l.Qty > 0 {
			kept = append(kept, l)
		}
	}
	c.Lines = kept
	return matched
}

func (c *Cart) remove(match func(Line) bool) bool {
	matched := false
	kept := c.Lines[:0]
	for _, l := range c.Lines {
		if match(l) {
			matched = true
			continue
		}
		kept = append(kept, l)
	}
	c.Lines = kept
	return matched
}

// Clear empties the cart and the cash field.
func (c *Cart) Clear() {
	c.Lines = nil
	c.CashReceived = ""
}

func (c *Cart) Totals() Totals {
	sub := decimal.Zero
	qty := 0
	for _, l := range c.Lines {
		sub = sub.Add(l.Total())
		qty += l.Qty
	}
	return Totals{Subtotal: sub, Discount: decimal.Zero, Total: sub, QtyTotal: qty}
}

// Change is max(cash − total, 0); unreadable cash gives zero.
func Change(cashText string, total decimal.Decimal) decimal.Decimal {
	cash, ok := ParseCash(cashText)
	if !ok || cash.LessThan(total) {
		return decimal.Zero
	}
	return cash.Sub(total)
}

// IsShort reports whether cash does not cover total. Unreadable cash is short
// whenever something is owed. Comparison is exact; cash == total is not short.
func IsShort(cashText string, total decimal.Decimal) bool {
	cash, ok := ParseCash(cashText)
	if !ok {
		return total.IsPositive()
	}
	return cash.LessThan(total)
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)`)

// ParseCash reads the leading number of s, so "10.50 cash" reads as 10.50.
func ParseCash(s string) (decimal.Decimal, bool) {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.TrimSuffix(m, "."))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// CashShortcut returns the cash field text for a quick-tender button:
// "EXACT" tenders the total, anything else is read as an amount.
func CashShortcut(value string, total decimal.Decimal) string {
	if strings.EqualFold(value, "EXACT") {
		return total.StringFixed(2)
	}
	d, ok := ParseCash(value)
	if !ok {
		return decimal.Zero.StringFixed(2)
	}
	return d.StringFixed(2)
}

func normalizeQty(q float64) int {
	if math.IsNaN(q) || q < 1 {
		return 1
	}
	if q > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Floor(q))
}

func lineSKU(p model.Product) string {
	switch {
	case p.SKU != "":
		return p.SKU
	case p.Barcode != "":
		return p.Barcode
	default:
		return "N/A"
	}
}
