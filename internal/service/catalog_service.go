package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"minimart/internal/apiclient"
	"minimart/internal/apierror"
	"minimart/internal/live"
	"minimart/internal/model"
)

const (
	MsgNameRequired     = "Name is required."
	MsgUsernameRequired = "Username is required."
	MsgPasswordRequired = "Password is required for new users."
	MsgInvalidRole      = "Role must be ADMIN, MANAGER or CASHIER."
	MsgNoOrderLines     = "Add at least one product line."
)

// CatalogService proxies the backend's master data endpoints. Every successful
// write is recorded in the activity log and announced to live clients.
type CatalogService interface {
	ListProducts(ctx context.Context, sess *model.Session) ([]model.Product, error)
	CreateProduct(ctx context.Context, sess *model.Session, in model.ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, sess *model.Session, id int64, in model.ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, sess *model.Session, id int64) error

	ListCategories(ctx context.Context, sess *model.Session) ([]model.Category, error)
	CreateCategory(ctx context.Context, sess *model.Session, name string) (*model.Category, error)
	UpdateCategory(ctx context.Context, sess *model.Session, id int64, name string) (*model.Category, error)
	DeleteCategory(ctx context.Context, sess *model.Session, id int64) error

	ListCustomers(ctx context.Context, sess *model.Session) ([]model.Customer, error)
	CreateCustomer(ctx context.Context, sess *model.Session, in model.Customer) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, sess *model.Session, id int64, in model.Customer) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, sess *model.Session, id int64) error

	ListSuppliers(ctx context.Context, sess *model.Session) ([]model.Supplier, error)
	CreateSupplier(ctx context.Context, sess *model.Session, in model.Supplier) (*model.Supplier, error)
	UpdateSupplier(ctx context.Context, sess *model.Session, id int64, in model.Supplier) (*model.Supplier, error)
	DeleteSupplier(ctx context.Context, sess *model.Session, id int64) error

	ListUsers(ctx context.Context, sess *model.Session, role model.Role) ([]model.User, error)
	CreateUser(ctx context.Context, sess *model.Session, in model.UserInput) (*model.User, error)
	UpdateUser(ctx context.Context, sess *model.Session, id int64, in model.UserInput) (*model.User, error)
	DeleteUser(ctx context.Context, sess *model.Session, id int64) error

	ListLocations(ctx context.Context, sess *model.Session) ([]model.Location, error)
	ListOrders(ctx context.Context, sess *model.Session) ([]model.Order, error)
	ListPurchaseOrders(ctx context.Context, sess *model.Session, start, end string) ([]model.PurchaseOrder, error)
	CreatePurchaseOrder(ctx context.Context, sess *model.Session, in model.NewPurchaseOrder) (*model.PurchaseOrder, error)
}

type catalogService struct {
	api       *apiclient.Client
	jobs      JobQueue
	publisher live.Publisher
	now       func() time.Time
}

func NewCatalogService(api *apiclient.Client, jobs JobQueue, publisher live.Publisher) CatalogService {
	return &catalogService{api: api, jobs: jobs, publisher: publisher, now: time.Now}
}

func (s *catalogService) backend(sess *model.Session) *apiclient.Client {
	return s.api.WithToken(sess.Token)
}

// changed runs after a successful write.
func (s *catalogService) changed(ctx context.Context, sess *model.Session, resource, action string) {
	recordActivity(ctx, s.jobs, sess, action, s.now())
	if s.publisher != nil {
		s.publisher.Publish(live.Event{Type: live.EventCatalogChange, Data: map[string]string{"resource": resource}})
	}
}

func requireName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apierror.Validation(MsgNameRequired)
	}
	return nil
}

// ── Products ─────────────────────────────────────────────────────────────────

func (s *catalogService) ListProducts(ctx context.Context, sess *model.Session) ([]model.Product, error) {
	return s.backend(sess).ListProducts(ctx)
}

func (s *catalogService) CreateProduct(ctx context.Context, sess *model.Session, in model.ProductInput) (*model.Product, error) {
	if err := requireName(in.Name); err != nil {
		return nil, err
	}
	p, err := s.backend(sess).CreateProduct(ctx, in)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, sess, "products", "Created product "+in.Name)
	return p, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, sess *model.Session, id int64, in model.ProductInput) (*model.Product, error) {
	if err := requireName(in.Name); err != nil {
		return nil, err
	}
	p, err := s.backend(sess).UpdateProduct(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, sess, "products", "Updated product "+in.Name)
	return p, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, sess *model.Session, id int64) error {
	if err := s.backend(sess).DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, sess, "products", fmt.Sprintf("Deleted product %d", id))
	return nil
}

// ── Categories ───────────────────────────────────────────────────────────────

func (s *catalogService) ListCategories(ctx context.Context, sess *model.Session) ([]model.Category, error) {
	return s.backend(sess).ListCategories(ctx)
}

func (s *catalogService) CreateCategory(ctx context.Context, sess *model.Session, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if err := requireName(name); err != nil {
		return nil, err
	}
	c, err := s.backend(sess).CreateCategory(ctx, name)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, sess, "categories", "Created category "+name)
	return c, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, sess *model.Session, id int64, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if err := requireName(name); err != nil {
		return nil, err
	}
	c, err := s.backend(sess).UpdateCategory(ctx, id, name)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, sess, "categories", "Renamed category to "+name)
	return c, nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, sess *model.Session, id int64) error {
	if err := s.backend(sess).DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, sess, "categories", fmt.Sprintf("Deleted category %d", id))
	return nil
}

// ── Customers ────────────────────────────────────────────────────────────────

func (s *catalogService) ListCustomers(ctx context.Context, sess *model.Session) ([]model.Customer, error) {
	return s.backend(sess).ListCustomers(ctx)
}

func (s *catalogService) CreateCustomer(ctx context.Context, sess *model.Session, in model.Customer) (*model.Customer, error) {
	if err := requireName(in.Name); err != nil {
		return nil, err
	}
	c, err := s.backend(sess).CreateCustomer(ctx, in)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, sess, "customers", "Created customer "+in.Name)
	return c, nil
}

func (s *catalogService) UpdateCustomer(ctx context.Context, sess *model.Session, id int64, in model.Customer) (*model.Customer, error) {
	if err := requireName(in.Name); err != nil {
		return nil, err
	}
	c, err := s.backend(sess).UpdateCustomer(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, sess, "customers", "Updated customer "+in.Name)
	return c, nil
}

func (s *catalogService) DeleteCustomer(ctx context.Context, sess *model.Session, id int64) error {
	if err := s.backend(sess).DeleteCustomer(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, sess, "customers", fmt.Sprintf("Deleted customer %d", id))
	return nil
}

// ── Suppliers ────────────────────────────────────────────────────────────────

func (s *catalogService) ListSuppliers(ctx context.Context, sess *model.Session) ([]model.Supplier, error) {
	return s.backend(sess).ListSuppliers(ctx)
}

func (s *catalogService) CreateSupplier(ctx context.Context, sess *model.Session, in model.Supplier) (*model.Supplier, error) {
	if err := requireName(in.Name); err != nil {
		return nil, err
	}
	out, err := s.backend(sess).CreateSupplier(ctx, in)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, sess, "suppliers", "Created supplier "+in.Name)
	return out, nil
}

func (s *catalogService) UpdateSupplier(ctx context.Context, sess *model.Session, id int64, in model.Supplier) (*model.Supplier, error) {
	if err := requireName(in.Name); err != nil {
		return nil, err
	}
	out, err := s.backend(sess).UpdateSupplier(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, sess, "suppliers", "Updated supplier "+in.Name)
	return out, nil
}

func (s *catalogService) DeleteSupplier(ctx context.Context, sess *model.Session, id int64) error {
	if err := s.backend(sess).DeleteSupplier(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, sess, "suppliers", fmt.Sprintf("Deleted supplier %d", id))
	return nil
}

// ── Users ────────────────────────────────────────────────────────────────────

func validateUser(in *model.UserInput, creating bool) error {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" {
		return apierror.Validation(MsgUsernameRequired)
	}
	if creating && in.Password == "" {
		return apierror.Validation(MsgPasswordRequired)
	}
	role, ok := model.ParseRole(string(in.Role))
	if !ok {
		return apierror.Validation(MsgInvalidRole)
	}
	in.Role = role
	return nil
}

func (s *catalogService) ListUsers(ctx context.Context, sess *model.Session, role model.Role) ([]model.User, error) {
	return s.backend(sess).ListUsers(ctx, role)
}

func (s *catalogService) CreateUser(ctx context.Context, sess *model.Session, in model.UserInput) (*model.User, error) {
	if err := validateUser(&in, true); err != nil {
		return nil, err
	}
	u, err := s.backend(sess).CreateUser(ctx, in)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, sess, "users", "Created user "+in.Username)
	return u, nil
}

func (s *catalogService) UpdateUser(ctx context.Context, sess *model.Session, id int64, in model.UserInput) (*model.User, error) {
	if err := validateUser(&in, false); err != nil {
		return nil, err
	}
	u, err := s.backend(sess).UpdateUser(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, sess, "users", "Updated user "+in.Username)
	return u, nil
}

func (s *catalogService) DeleteUser(ctx context.Context, sess *model.Session, id int64) error {
	if err := s.backend(sess).DeleteUser(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, sess, "users", fmt.Sprintf("Deleted user %d", id))
	return nil
}

// ── Locations & orders ───────────────────────────────────────────────────────

func (s *catalogService) ListLocations(ctx context.Context, sess *model.Session) ([]model.Location, error) {
	return s.backend(sess).ListLocations(ctx)
}

func (s *catalogService) ListOrders(ctx context.Context, sess *model.Session) ([]model.Order, error) {
	return s.backend(sess).ListOrders(ctx)
}

func (s *catalogService) ListPurchaseOrders(ctx context.Context, sess *model.Session, start, end string) ([]model.PurchaseOrder, error) {
	return s.backend(sess).ListPurchaseOrders(ctx, start, end)
}

func (s *catalogService) CreatePurchaseOrder(ctx context.Context, sess *model.Session, in model.NewPurchaseOrder) (*model.PurchaseOrder, error) {
	if len(in.Details) == 0 {
		return nil, apierror.Validation(MsgNoOrderLines)
	}
	po, err := s.backend(sess).CreatePurchaseOrder(ctx, in)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, sess, "purchase-orders", fmt.Sprintf("Created purchase order for supplier %d", in.SupplierID))
	return po, nil
}
