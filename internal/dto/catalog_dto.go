package dto

import (
	"minimart/internal/model"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ProductRequest struct {
	Name       string          `json:"name"       validate:"max=120"`
	SKU        string          `json:"sku"        validate:"max=64"`
	Price      decimal.Decimal `json:"price"      validate:"gte=0"`
	CostPrice  decimal.Decimal `json:"costPrice"  validate:"gte=0"`
	CategoryID int64           `json:"categoryId" validate:"gte=0"`
}

func (r ProductRequest) Input() model.ProductInput {
	return model.ProductInput{
		Name:       r.Name,
		SKU:        r.SKU,
		Price:      r.Price,
		CostPrice:  r.CostPrice,
		CategoryID: r.CategoryID,
	}
}

type CategoryRequest struct {
	Name string `json:"name" validate:"max=80"`
}

type CustomerRequest struct {
	Name   string `json:"name"   validate:"max=120"`
	Phone  string `json:"phone"  validate:"max=32"`
	Email  string `json:"email"  validate:"omitempty,email"`
	Points int    `json:"points" validate:"gte=0"`
}

func (r CustomerRequest) Customer() model.Customer {
	return model.Customer{Name: r.Name, Phone: r.Phone, Email: r.Email, Points: r.Points}
}

type SupplierRequest struct {
	Name    string `json:"name"    validate:"max=120"`
	Phone   string `json:"phone"   validate:"max=32"`
	Email   string `json:"email"   validate:"omitempty,email"`
	Address string `json:"address" validate:"max=255"`
}

func (r SupplierRequest) Supplier() model.Supplier {
	return model.Supplier{Name: r.Name, Phone: r.Phone, Email: r.Email, Address: r.Address}
}

type UserRequest struct {
	Username   string `json:"username"   validate:"max=150"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	LocationID *int64 `json:"locationId"`
	Shift      string `json:"shift"`
	Status     string `json:"status"`
	Phone      string `json:"phone"      validate:"max=32"`
	Email      string `json:"email"      validate:"omitempty,email"`
}

func (r UserRequest) Input() model.UserInput {
	return model.UserInput{
		Username:   r.Username,
		Password:   r.Password,
		Role:       model.Role(r.Role),
		LocationID: r.LocationID,
		Shift:      r.Shift,
		Status:     r.Status,
		Phone:      r.Phone,
		Email:      r.Email,
	}
}

type PurchaseOrderLineRequest struct {
	ProductID int64           `json:"productId" validate:"required,gt=0"`
	Quantity  int             `json:"quantity"  validate:"required,gt=0"`
	Price     decimal.Decimal `json:"price"     validate:"gte=0"`
}

type PurchaseOrderRequest struct {
	SupplierID int64                      `json:"supplierId" validate:"required,gt=0"`
	LocationID int64                      `json:"locationId" validate:"required,gt=0"`
	OrderDate  string                     `json:"orderDate"  validate:"omitempty,datetime=2006-01-02"`
	Details    []PurchaseOrderLineRequest `json:"details"    validate:"dive"`
}

// Order totals the lines; the backend stores the total as sent.
func (r PurchaseOrderRequest) Order() model.NewPurchaseOrder {
	po := model.NewPurchaseOrder{
		SupplierID: r.SupplierID,
		LocationID: r.LocationID,
		OrderDate:  r.OrderDate,
		Total:      decimal.Zero,
	}
	for _, d := range r.Details {
		po.Details = append(po.Details, model.NewPurchaseOrderLine{
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			Price:     d.Price,
		})
		po.Total = po.Total.Add(d.Price.Mul(decimal.NewFromInt(int64(d.Quantity))))
	}
	return po
}

// ─── Filters ─────────────────────────────────────────────────────────────────

type UserFilter struct {
	Role string `form:"role"`
}

type DateRange struct {
	StartDate string `form:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"endDate"   validate:"omitempty,datetime=2006-01-02"`
}
