package model

import "github.com/shopspring/decimal"

// Category groups products.
type Category struct {
	CategoryID int64  `json:"categoryId"`
	Name       string `json:"name"`
}

// Product is a sellable catalog item as served by the backend.
type Product struct {
	ProductID    int64           `json:"productId"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	SKU          string          `json:"sku"`
	Barcode      string          `json:"barcode,omitempty"`
	Category     *Category       `json:"category,omitempty"`
	CategoryName string          `json:"categoryName,omitempty"`
}

// CategoryLabel returns the nested category name, then the flat one.
func (p Product) CategoryLabel() string {
	if p.Category != nil && p.Category.Name != "" {
		return p.Category.Name
	}
	return p.CategoryName
}

// ProductInput is the create/update payload for /products.
type ProductInput struct {
	Name       string          `json:"name"`
	SKU        string          `json:"sku"`
	Price      decimal.Decimal `json:"price"`
	CostPrice  decimal.Decimal `json:"costPrice"`
	CategoryID int64           `json:"categoryId"`
}

type Customer struct {
	CustomerID int64  `json:"customerId"`
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	Points     int    `json:"points"`
}

type Supplier struct {
	SupplierID int64  `json:"supplierId"`
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	Address    string `json:"address,omitempty"`
}

type Location struct {
	LocationID int64  `json:"locationId"`
	Name       string `json:"name"`
	Address    string `json:"address,omitempty"`
}

// User is a staff account as listed by /users.
type User struct {
	UserID       int64  `json:"userId"`
	Username     string `json:"username"`
	Role         Role   `json:"role"`
	LocationID   *int64 `json:"locationId,omitempty"`
	LocationName string `json:"locationName,omitempty"`
	Shift        string `json:"shift,omitempty"`
	Status       string `json:"status,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
}

// UserInput is the create/update payload for /users. Password is only sent when set.
type UserInput struct {
	Username   string `json:"username"`
	Password   string `json:"password,omitempty"`
	Role       Role   `json:"role"`
	LocationID *int64 `json:"locationId"`
	Shift      string `json:"shift,omitempty"`
	Status     string `json:"status,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
}
