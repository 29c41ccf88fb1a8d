package handler

import (
	"net/http"

	"minimart/internal/dto"
	"minimart/internal/model"
	"minimart/internal/service"

	"github.com/gin-gonic/gin"
)

// CatalogHandler is the CRUD surface for the back-office screens. Each route
// group is gated by the screen that owns it; the backend enforces the rest.
type CatalogHandler struct{ svc service.CatalogService }

func NewCatalogHandler(svc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// respond writes v with status, or the error.
func respond(c *gin.Context, status int, v any, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, v)
}

func respondDeleted(c *gin.Context, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Products ─────────────────────────────────────────────────────────────────

// ListProducts godoc
// @Summary  List products
// @Tags     catalog
// @Produce  json
// @Success  200  {array}   model.Product
// @Failure  502  {object}  apierror.APIError
// @Router   /api/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.svc.ListProducts(c.Request.Context(), session(c))
	respond(c, http.StatusOK, products, err)
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req dto.ProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.CreateProduct(c.Request.Context(), session(c), req.Input())
	respond(c, http.StatusCreated, p, err)
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.ProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.UpdateProduct(c.Request.Context(), session(c), id, req.Input())
	respond(c, http.StatusOK, p, err)
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	respondDeleted(c, h.svc.DeleteProduct(c.Request.Context(), session(c), id))
}

// ── Categories ───────────────────────────────────────────────────────────────

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.svc.ListCategories(c.Request.Context(), session(c))
	respond(c, http.StatusOK, categories, err)
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req dto.CategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cat, err := h.svc.CreateCategory(c.Request.Context(), session(c), req.Name)
	respond(c, http.StatusCreated, cat, err)
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cat, err := h.svc.UpdateCategory(c.Request.Context(), session(c), id, req.Name)
	respond(c, http.StatusOK, cat, err)
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	respondDeleted(c, h.svc.DeleteCategory(c.Request.Context(), session(c), id))
}

// ── Customers ────────────────────────────────────────────────────────────────

func (h *CatalogHandler) ListCustomers(c *gin.Context) {
	customers, err := h.svc.ListCustomers(c.Request.Context(), session(c))
	respond(c, http.StatusOK, customers, err)
}

func (h *CatalogHandler) CreateCustomer(c *gin.Context) {
	var req dto.CustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cu, err := h.svc.CreateCustomer(c.Request.Context(), session(c), req.Customer())
	respond(c, http.StatusCreated, cu, err)
}

func (h *CatalogHandler) UpdateCustomer(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.CustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cu, err := h.svc.UpdateCustomer(c.Request.Context(), session(c), id, req.Customer())
	respond(c, http.StatusOK, cu, err)
}

func (h *CatalogHandler) DeleteCustomer(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	respondDeleted(c, h.svc.DeleteCustomer(c.Request.Context(), session(c), id))
}

// ── Suppliers ────────────────────────────────────────────────────────────────

func (h *CatalogHandler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.svc.ListSuppliers(c.Request.Context(), session(c))
	respond(c, http.StatusOK, suppliers, err)
}

func (h *CatalogHandler) CreateSupplier(c *gin.Context) {
	var req dto.SupplierRequest
	if !bindAndValidate(c, &req) {
		return
	}
	s, err := h.svc.CreateSupplier(c.Request.Context(), session(c), req.Supplier())
	respond(c, http.StatusCreated, s, err)
}

func (h *CatalogHandler) UpdateSupplier(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.SupplierRequest
	if !bindAndValidate(c, &req) {
		return
	}
	s, err := h.svc.UpdateSupplier(c.Request.Context(), session(c), id, req.Supplier())
	respond(c, http.StatusOK, s, err)
}

func (h *CatalogHandler) DeleteSupplier(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	respondDeleted(c, h.svc.DeleteSupplier(c.Request.Context(), session(c), id))
}

// ── Users ────────────────────────────────────────────────────────────────────

// ListUsers godoc
// @Summary  List staff accounts
// @Tags     people
// @Produce  json
// @Param    role  query     string  false  "ADMIN, MANAGER or CASHIER"
// @Success  200   {array}   model.User
// @Router   /api/users [get]
func (h *CatalogHandler) ListUsers(c *gin.Context) {
	var f dto.UserFilter
	if !bindQuery(c, &f) {
		return
	}
	users, err := h.svc.ListUsers(c.Request.Context(), session(c), model.Role(f.Role))
	respond(c, http.StatusOK, users, err)
}

func (h *CatalogHandler) CreateUser(c *gin.Context) {
	var req dto.UserRequest
	if !bindAndValidate(c, &req) {
		return
	}
	u, err := h.svc.CreateUser(c.Request.Context(), session(c), req.Input())
	respond(c, http.StatusCreated, u, err)
}

func (h *CatalogHandler) UpdateUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.UserRequest
	if !bindAndValidate(c, &req) {
		return
	}
	u, err := h.svc.UpdateUser(c.Request.Context(), session(c), id, req.Input())
	respond(c, http.StatusOK, u, err)
}

func (h *CatalogHandler) DeleteUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	respondDeleted(c, h.svc.DeleteUser(c.Request.Context(), session(c), id))
}

// ── Locations, orders, purchase orders ───────────────────────────────────────

func (h *CatalogHandler) ListLocations(c *gin.Context) {
	locations, err := h.svc.ListLocations(c.Request.Context(), session(c))
	respond(c, http.StatusOK, locations, err)
}

func (h *CatalogHandler) ListOrders(c *gin.Context) {
	orders, err := h.svc.ListOrders(c.Request.Context(), session(c))
	respond(c, http.StatusOK, orders, err)
}

func (h *CatalogHandler) ListPurchaseOrders(c *gin.Context) {
	var r dto.DateRange
	if !bindQuery(c, &r) {
		return
	}
	purchaseOrders, err := h.svc.ListPurchaseOrders(c.Request.Context(), session(c), r.StartDate, r.EndDate)
	respond(c, http.StatusOK, purchaseOrders, err)
}

func (h *CatalogHandler) CreatePurchaseOrder(c *gin.Context) {
	var req dto.PurchaseOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	po, err := h.svc.CreatePurchaseOrder(c.Request.Context(), session(c), req.Order())
	respond(c, http.StatusCreated, po, err)
}
