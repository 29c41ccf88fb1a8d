package model

import "github.com/shopspring/decimal"

type ProfitLossProduct struct {
	ProductID    int64           `json:"productId"`
	ProductName  string          `json:"productName"`
	QuantitySold int             `json:"quantitySold"`
	Revenue      decimal.Decimal `json:"revenue"`
	CostOfGoods  decimal.Decimal `json:"costOfGoods"`
	GrossProfit  decimal.Decimal `json:"grossProfit"`
}

type ExpenseSummary struct {
	Category    string          `json:"category"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// ProfitLossReport is computed by the backend for a date range.
type ProfitLossReport struct {
	StartDate        string              `json:"startDate"`
	EndDate          string              `json:"endDate"`
	TotalRevenue     decimal.Decimal     `json:"totalRevenue"`
	TotalDiscounts   decimal.Decimal     `json:"totalDiscounts"`
	CostOfGoodsSold  decimal.Decimal     `json:"costOfGoodsSold"`
	GrossProfit      decimal.Decimal     `json:"grossProfit"`
	TotalExpenses    decimal.Decimal     `json:"totalExpenses"`
	NetProfit        decimal.Decimal     `json:"netProfit"`
	ProductBreakdown []ProfitLossProduct `json:"productBreakdown"`
	ExpenseBreakdown []ExpenseSummary    `json:"expenseBreakdown"`
}

// ProfitLossFilter narrows /reports/profit-loss. Dates are yyyy-mm-dd.
type ProfitLossFilter struct {
	StartDate  string
	EndDate    string
	LocationID *int64
}

type ActivityUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role,omitempty"`
	Email    string `json:"email,omitempty"`
}

type ActivityLog struct {
	ID      int64         `json:"id"`
	Action  string        `json:"action"`
	LogDate string        `json:"logDate"`
	User    *ActivityUser `json:"user,omitempty"`
}

// NewActivityLog is the POST /activity-logs payload.
type NewActivityLog struct {
	UserID  int64  `json:"userId"`
	Action  string `json:"action"`
	LogDate string `json:"logDate,omitempty"`
}
