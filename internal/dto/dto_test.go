package dto

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPurchaseOrderRequest_TotalsLines(t *testing.T) {
	req := PurchaseOrderRequest{
		SupplierID: 2,
		LocationID: 1,
		Details: []PurchaseOrderLineRequest{
			{ProductID: 1, Quantity: 3, Price: decimal.RequireFromString("1.20")},
			{ProductID: 2, Quantity: 1, Price: decimal.RequireFromString("4.05")},
		},
	}
	po := req.Order()
	assert.True(t, po.Total.Equal(decimal.RequireFromString("7.65")), po.Total.String())
	assert.Len(t, po.Details, 2)
}
