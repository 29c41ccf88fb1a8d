package pos

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"minimart/internal/apierror"
	"minimart/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Helpers ───────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func product(id int64, sku, name, price string) model.Product {
	return model.Product{ProductID: id, SKU: sku, Name: name, Price: dec(price)}
}

func catalog() []model.Product {
	return []model.Product{
		product(1, "A", "Apple Juice", "1.99"),
		product(2, "B", "Bread", "5.50"),
		product(3, "MLK-1L", "Milk 1L", "2.25"),
		{ProductID: 4, Barcode: "7790001", Name: "Chips", Price: dec("3.00")},
	}
}

func scenarioCart() *Cart {
	c := &Cart{}
	p := catalog()
	c.AddLine(p[0], 2)
	c.AddLine(p[1], 1)
	return c
}

type stubSubmitter struct {
	order *model.Order
	err   error
	got   *model.NewOrder
}

func (s *stubSubmitter) CreateOrder(_ context.Context, in model.NewOrder) (*model.Order, error) {
	s.got = &in
	return s.order, s.err
}

var _ OrderSubmitter = (*stubSubmitter)(nil)

var saleCtx = SaleContext{UserID: 7, LocationID: 2, Cashier: "ana", Location: "Downtown"}

// ── Lookup ───────────────────────────────────────────────────────────────────

func TestResolveProduct_SKUAnyCase(t *testing.T) {
	products := catalog()
	idx := BuildIndex(products)
	for _, p := range products {
		code := p.SKU
		if code == "" {
			code = p.Barcode
		}
		for _, q := range []string{code, " " + code + " ", lowerUpperSwap(code)} {
			got, ok := ResolveProduct(q, products, idx)
			require.True(t, ok, q)
			assert.Equal(t, p.ProductID, got.ProductID, q)
		}
	}
}

func lowerUpperSwap(s string) string {
	out := []rune(s)
	for i, r := range out {
		switch {
		case r >= 'a' && r <= 'z':
			out[i] = r - 32
		case r >= 'A' && r <= 'Z':
			out[i] = r + 32
		}
	}
	return string(out)
}

func TestResolveProduct_ByNameAndMiss(t *testing.T) {
	products := catalog()
	idx := BuildIndex(products)

	got, ok := ResolveProduct("bread", products, idx)
	require.True(t, ok)
	assert.Equal(t, int64(2), got.ProductID)

	_, ok = ResolveProduct("bre", products, idx)
	assert.False(t, ok, "partial names are not resolved")
	_, ok = ResolveProduct("   ", products, idx)
	assert.False(t, ok)
}

func TestSearchMatches(t *testing.T) {
	products := catalog()
	assert.Len(t, SearchMatches("l", products, 8), 2)
	got := SearchMatches("MILK", products, 8)
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ProductID)

	assert.Len(t, SearchMatches("7790", products, 8), 1)
	assert.Len(t, SearchMatches("a", products, 2), 2)
	assert.Nil(t, SearchMatches("", products, 8))
}

func TestScan(t *testing.T) {
	products := catalog()
	idx := BuildIndex(products)

	r := Scan("", products, idx, 8)
	assert.False(t, r.Found)
	assert.Equal(t, "Enter a SKU to add an item.", r.Message)

	r = Scan("chi", products, idx, 8)
	require.True(t, r.Found, "single suggestion is taken")
	assert.Equal(t, int64(4), r.Product.ProductID)

	r = Scan("zzz", products, idx, 8)
	assert.False(t, r.Found)
	assert.Equal(t, `No product found for "zzz"`, r.Message)
}

func TestQuickPicksAndTabs(t *testing.T) {
	products := []model.Product{
		{ProductID: 1, Name: "a", CategoryName: "Snacks"},
		{ProductID: 2, Name: "b", Category: &model.Category{Name: "Drinks"}},
		{ProductID: 3, Name: "c"},
	}
	assert.Equal(t, []string{"Featured", "Drinks", "General", "Snacks"}, CategoryTabs(products))
	assert.Len(t, QuickPicks(products, FeaturedTab), 3)

	drinks := QuickPicks(products, "Drinks")
	require.Len(t, drinks, 1)
	assert.Equal(t, int64(2), drinks[0].ProductID)

	assert.Len(t, QuickPicks(products, "Unknown"), 3, "unknown tab falls back to Featured")
}

// ── Cart ─────────────────────────────────────────────────────────────────────

func TestAddLine_MergesSameProduct(t *testing.T) {
	c := &Cart{}
	p := catalog()[0]
	c.AddLine(p, 2)
	c.AddLine(p, 3)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 5, c.Lines[0].Qty)
}

func TestAddLine_FloorsAndClamps(t *testing.T) {
	c := &Cart{}
	p := catalog()
	c.AddLine(p[0], 2.9)
	c.AddLine(p[1], 0)
	c.AddLine(p[2], -4)
	c.AddLine(p[3], math.NaN())
	assert.Equal(t, 2, c.Lines[0].Qty)
	assert.Equal(t, 1, c.Lines[1].Qty)
	assert.Equal(t, 1, c.Lines[2].Qty)
	assert.Equal(t, 1, c.Lines[3].Qty)
	assert.Equal(t, "7790001", c.Lines[3].SKU, "barcode stands in for a missing SKU")
}

func TestAddLine_Defaults(t *testing.T) {
	c := &Cart{}
	c.AddLine(model.Product{ProductID: 9}, 1)
	assert.Equal(t, "Unnamed product", c.Lines[0].Name)
	assert.Equal(t, "N/A", c.Lines[0].SKU)
	assert.True(t, c.Lines[0].Price.IsZero())
}

func TestAdjustQuantity_RemovesAtZero(t *testing.T) {
	c := scenarioCart()
	assert.True(t, c.AdjustQuantity("A", -1))
	assert.Equal(t, 1, c.Lines[0].Qty)

	c.AdjustQuantity("A", -1)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, "B", c.Lines[0].SKU)

	c.AdjustQuantity("B", -5)
	assert.Empty(t, c.Lines)
	assert.False(t, c.AdjustQuantity("nope", 1))
}

func TestAdjustQuantity_NeverLeavesNonPositive(t *testing.T) {
	c := scenarioCart()
	for _, delta := range []int{-3, 2, -1, -10, 4, -4} {
		c.AdjustQuantity("A", delta)
		c.AdjustQuantity("B", delta)
		for _, l := range c.Lines {
			assert.Greater(t, l.Qty, 0)
		}
	}
}

func TestLinesWithoutCodeByProductID(t *testing.T) {
	c := &Cart{}
	c.AddLine(model.Product{ProductID: 7, Name: "Loose carrots", Price: decimal.RequireFromString("0.80")}, 2)
	c.AddLine(model.Product{ProductID: 8, Name: "Loose onions", Price: decimal.RequireFromString("0.60")}, 1)
	require.Len(t, c.Lines, 2)
	assert.Equal(t, "N/A", c.Lines[0].SKU)
	assert.Equal(t, "N/A", c.Lines[1].SKU)

	assert.True(t, c.AdjustProduct(7, -1))
	assert.Equal(t, 1, c.Lines[0].Qty)
	assert.Equal(t, 1, c.Lines[1].Qty, "the other N/A line is untouched")

	assert.True(t, c.RemoveProduct(8))
	require.Len(t, c.Lines, 1)
	assert.Equal(t, int64(7), c.Lines[0].ProductID)
	assert.False(t, c.RemoveProduct(8))
}

func TestRemoveLineAndClear(t *testing.T) {
	c := scenarioCart()
	c.CashReceived = "20"
	assert.True(t, c.RemoveLine("A"))
	assert.Len(t, c.Lines, 1)
	c.Clear()
	assert.True(t, c.Empty())
	assert.Empty(t, c.CashReceived)
}

func TestTotals(t *testing.T) {
	empty := (&Cart{}).Totals()
	assert.True(t, empty.Subtotal.IsZero())
	assert.Equal(t, 0, empty.QtyTotal)

	tot := scenarioCart().Totals()
	assert.Equal(t, "9.48", tot.Subtotal.StringFixed(2))
	assert.True(t, tot.Total.Equal(tot.Subtotal))
	assert.True(t, tot.Discount.IsZero())
	assert.Equal(t, 3, tot.QtyTotal)
}

// ── Cash ─────────────────────────────────────────────────────────────────────

func TestChangeAndShort_Scenarios(t *testing.T) {
	total := scenarioCart().Totals().Total

	assert.Equal(t, "0.52", Change("10.00", total).StringFixed(2))
	assert.False(t, IsShort("10.00", total))

	assert.True(t, IsShort("9.00", total))
	assert.True(t, Change("9.00", total).IsZero())

	assert.False(t, IsShort("9.48", total), "exact tender is not short")
	assert.True(t, IsShort("", total))
	assert.False(t, IsShort("", decimal.Zero))
	assert.True(t, Change("abc", total).IsZero())
}

func TestParseCash(t *testing.T) {
	for in, want := range map[string]string{
		"10":        "10",
		" 10.50 ":   "10.5",
		"12.5 cash": "12.5",
		".75":       "0.75",
		"3.":        "3",
	} {
		got, ok := ParseCash(in)
		require.True(t, ok, in)
		assert.True(t, got.Equal(dec(want)), in)
	}
	_, ok := ParseCash("$10")
	assert.False(t, ok)
}

func TestCashShortcut(t *testing.T) {
	assert.Equal(t, "9.48", CashShortcut("EXACT", dec("9.48")))
	assert.Equal(t, "20.00", CashShortcut("20", dec("9.48")))
}

// ── Checkout ─────────────────────────────────────────────────────────────────

func TestCheckout_Success(t *testing.T) {
	c := scenarioCart()
	c.CashReceived = "10.00"
	sub := &stubSubmitter{order: &model.Order{OrderID: 42, OrderDate: "2025-03-01T09:30:00"}}
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	r, err := Checkout(context.Background(), c, saleCtx, sub, now)
	require.NoError(t, err)

	assert.Equal(t, "INV-00042", r.OrderNumber)
	assert.Equal(t, 9, r.OrderDate.Hour(), "server date wins")
	assert.Equal(t, "9.48", r.Totals.Total.StringFixed(2))
	assert.Equal(t, "0.52", r.Totals.ChangeDue.StringFixed(2))
	assert.Equal(t, "ana", r.Cashier)
	assert.Len(t, r.Items, 2)
	assert.True(t, c.Empty())
	assert.Empty(t, c.CashReceived)

	require.NotNil(t, sub.got)
	assert.Equal(t, int64(7), sub.got.UserID)
	assert.Equal(t, int64(2), sub.got.LocationID)
	assert.Nil(t, sub.got.CustomerID)
	assert.Equal(t, model.PaymentPaid, sub.got.PaymentStatus)
	assert.Equal(t, 2, sub.got.OrderDetails[0].Quantity)
	assert.True(t, sub.got.OrderDetails[1].Price.Equal(dec("5.50")))
}

func TestCheckout_NoOrderIDUsesTemp(t *testing.T) {
	c := scenarioCart()
	c.CashReceived = "20"
	now := time.UnixMilli(1700000000123)

	r, err := Checkout(context.Background(), c, saleCtx, &stubSubmitter{}, now)
	require.NoError(t, err)
	assert.Equal(t, "TEMP-1700000000123", r.OrderNumber)
	assert.Equal(t, now, r.OrderDate)
}

func TestCheckout_Preconditions(t *testing.T) {
	sub := &stubSubmitter{}

	_, err := Checkout(context.Background(), &Cart{}, saleCtx, sub, time.Now())
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
	assert.Equal(t, MsgEmptyCart, err.Error())

	c := scenarioCart()
	c.CashReceived = "9.00"
	_, err = Checkout(context.Background(), c, saleCtx, sub, time.Now())
	assert.Equal(t, MsgCashShort, err.Error())
	assert.Nil(t, sub.got, "validation never reaches the network")
}

func TestCheckout_FailureLeavesCartUnchanged(t *testing.T) {
	c := scenarioCart()
	c.CashReceived = "10.00"
	before := *c
	before.Lines = append([]Line(nil), c.Lines...)

	_, err := Checkout(context.Background(), c, saleCtx, &stubSubmitter{err: errors.New("Failed to create order (status 500)")}, time.Now())
	require.Error(t, err)
	assert.Equal(t, before, *c)
}

func TestStateOf(t *testing.T) {
	assert.Equal(t, StateIdle, StateOf(&Cart{}, false))
	assert.Equal(t, StateBuilding, StateOf(scenarioCart(), false))
	assert.Equal(t, StateCheckingOut, StateOf(scenarioCart(), true))
}
