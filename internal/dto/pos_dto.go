package dto

type ScanRequest struct {
	Query    string  `json:"query"    validate:"required"`
	Quantity float64 `json:"quantity" validate:"gte=0"`
}

type AddLineRequest struct {
	ProductID int64   `json:"productId" validate:"required,gt=0"`
	Quantity  float64 `json:"quantity"  validate:"gte=0"`
}

type AdjustLineRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// CashRequest holds the raw tendered text; an empty string clears it.
type CashRequest struct {
	Cash string `json:"cash" validate:"max=32"`
}

type CashShortcutRequest struct {
	Value string `json:"value" validate:"required"`
}

type EmailReceiptRequest struct {
	To string `json:"to" validate:"omitempty,email"`
}

type QuickPickQuery struct {
	Tab string `form:"tab"`
}

type SearchQuery struct {
	Q string `form:"q"`
}

type RecentReceiptsQuery struct {
	Limit int `form:"limit,default=10" validate:"min=1,max=50"`
}
