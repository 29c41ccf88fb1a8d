package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"minimart/internal/model"
)

// ── Products ─────────────────────────────────────────────────────────────────

func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	var out []model.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, nil, &out, "Failed to load products"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProduct(ctx context.Context, in model.ProductInput) (*model.Product, error) {
	var out model.Product
	if err := c.do(ctx, http.MethodPost, "/products", nil, in, &out, "Failed to create product"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, in model.ProductInput) (*model.Product, error) {
	var out model.Product
	if err := c.do(ctx, http.MethodPut, idPath("/products", id), nil, in, &out, "Failed to update product"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/products", id), nil, nil, nil, "Failed to delete product")
}

// ── Categories ───────────────────────────────────────────────────────────────

type categoryInput struct {
	Name string `json:"name"`
}

func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &out, "Failed to load categories"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	var out model.Category
	if err := c.do(ctx, http.MethodPost, "/categories", nil, categoryInput{Name: name}, &out, "Failed to create category"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id int64, name string) (*model.Category, error) {
	var out model.Category
	if err := c.do(ctx, http.MethodPut, idPath("/categories", id), nil, categoryInput{Name: name}, &out, "Failed to update category"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/categories", id), nil, nil, nil, "Failed to delete category")
}

// ── Customers ────────────────────────────────────────────────────────────────

func (c *Client) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	var out []model.Customer
	if err := c.do(ctx, http.MethodGet, "/customers", nil, nil, &out, "Failed to load customers"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateCustomer(ctx context.Context, in model.Customer) (*model.Customer, error) {
	var out model.Customer
	if err := c.do(ctx, http.MethodPost, "/customers", nil, in, &out, "Failed to create customer"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCustomer(ctx context.Context, id int64, in model.Customer) (*model.Customer, error) {
	var out model.Customer
	if err := c.do(ctx, http.MethodPut, idPath("/customers", id), nil, in, &out, "Failed to update customer"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCustomer(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/customers", id), nil, nil, nil, "Failed to delete customer")
}

// ── Suppliers ────────────────────────────────────────────────────────────────

func (c *Client) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	var out []model.Supplier
	if err := c.do(ctx, http.MethodGet, "/suppliers", nil, nil, &out, "Failed to load suppliers"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateSupplier(ctx context.Context, in model.Supplier) (*model.Supplier, error) {
	var out model.Supplier
	if err := c.do(ctx, http.MethodPost, "/suppliers", nil, in, &out, "Failed to create supplier"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSupplier(ctx context.Context, id int64, in model.Supplier) (*model.Supplier, error) {
	var out model.Supplier
	if err := c.do(ctx, http.MethodPut, idPath("/suppliers", id), nil, in, &out, "Failed to update supplier"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSupplier(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/suppliers", id), nil, nil, nil, "Failed to delete supplier")
}

// ── Users ────────────────────────────────────────────────────────────────────

// ListUsers returns staff accounts, optionally filtered by role.
func (c *Client) ListUsers(ctx context.Context, role model.Role) ([]model.User, error) {
	q := url.Values{}
	setIf(q, "role", string(role))
	var out []model.User
	if err := c.do(ctx, http.MethodGet, "/users", q, nil, &out, "Failed to load users"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateUser(ctx context.Context, in model.UserInput) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, http.MethodPost, "/users", nil, in, &out, "Failed to create user"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int64, in model.UserInput) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, http.MethodPut, idPath("/users", id), nil, in, &out, "Failed to update user"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/users", id), nil, nil, nil, "Failed to delete user")
}

// ── Locations ────────────────────────────────────────────────────────────────

func (c *Client) ListLocations(ctx context.Context) ([]model.Location, error) {
	var out []model.Location
	if err := c.do(ctx, http.MethodGet, "/locations", nil, nil, &out, "Failed to load locations"); err != nil {
		return nil, err
	}
	return out, nil
}
