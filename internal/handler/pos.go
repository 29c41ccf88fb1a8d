package handler

import (
	"fmt"
	"net/http"

	"minimart/internal/dto"
	"minimart/internal/infra"
	"minimart/internal/middleware"
	"minimart/internal/service"

	"github.com/gin-gonic/gin"
)

// PosHandler drives the register. The cart belongs to the browser session,
// so every call works on the caller's own cart.
type PosHandler struct{ svc service.PosService }

func NewPosHandler(svc service.PosService) *PosHandler {
	return &PosHandler{svc: svc}
}

func (h *PosHandler) reply(c *gin.Context, reg *service.Register, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reg)
}

// Cart godoc
// @Summary  Current register state
// @Tags     pos
// @Produce  json
// @Success  200  {object}  service.Register
// @Router   /api/pos/cart [get]
func (h *PosHandler) Cart(c *gin.Context) {
	reg, err := h.svc.Register(c.Request.Context(), middleware.GetSessionID(c))
	h.reply(c, reg, err)
}

// Scan godoc
// @Summary      Add a product by barcode, SKU or name
// @Tags         pos
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ScanRequest  true  "Scan"
// @Success      200   {object}  service.Register
// @Failure      422   {object}  apierror.APIError
// @Router       /api/pos/scan [post]
func (h *PosHandler) Scan(c *gin.Context) {
	var req dto.ScanRequest
	if !bindAndValidate(c, &req) {
		return
	}
	reg, err := h.svc.Scan(c.Request.Context(), middleware.GetSessionID(c), session(c), req.Query, req.Quantity)
	h.reply(c, reg, err)
}

func (h *PosHandler) AddLine(c *gin.Context) {
	var req dto.AddLineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	reg, err := h.svc.AddProduct(c.Request.Context(), middleware.GetSessionID(c), session(c), req.ProductID, req.Quantity)
	h.reply(c, reg, err)
}

func (h *PosHandler) AdjustLine(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.AdjustLineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	reg, err := h.svc.AdjustQuantity(c.Request.Context(), middleware.GetSessionID(c), id, req.Delta)
	h.reply(c, reg, err)
}

func (h *PosHandler) RemoveLine(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	reg, err := h.svc.RemoveLine(c.Request.Context(), middleware.GetSessionID(c), id)
	h.reply(c, reg, err)
}

func (h *PosHandler) Clear(c *gin.Context) {
	reg, err := h.svc.Clear(c.Request.Context(), middleware.GetSessionID(c))
	h.reply(c, reg, err)
}

func (h *PosHandler) SetCash(c *gin.Context) {
	var req dto.CashRequest
	if !bindAndValidate(c, &req) {
		return
	}
	reg, err := h.svc.SetCash(c.Request.Context(), middleware.GetSessionID(c), req.Cash)
	h.reply(c, reg, err)
}

func (h *PosHandler) CashShortcut(c *gin.Context) {
	var req dto.CashShortcutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	reg, err := h.svc.CashShortcut(c.Request.Context(), middleware.GetSessionID(c), req.Value)
	h.reply(c, reg, err)
}

func (h *PosHandler) Search(c *gin.Context) {
	var q dto.SearchQuery
	if !bindQuery(c, &q) {
		return
	}
	products, err := h.svc.Search(c.Request.Context(), session(c), q.Q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *PosHandler) QuickPicks(c *gin.Context) {
	var q dto.QuickPickQuery
	if !bindQuery(c, &q) {
		return
	}
	view, err := h.svc.QuickPicks(c.Request.Context(), session(c), q.Tab)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Checkout godoc
// @Summary      Complete the sale
// @Description  Submits the cart as a paid order and returns the receipt
// @Tags         pos
// @Produce      json
// @Success      201  {object}  model.Receipt
// @Failure      409  {object}  apierror.APIError
// @Failure      422  {object}  apierror.APIError
// @Failure      502  {object}  apierror.APIError
// @Router       /api/pos/checkout [post]
func (h *PosHandler) Checkout(c *gin.Context) {
	receipt, err := h.svc.Checkout(c.Request.Context(), middleware.GetSessionID(c), session(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

func (h *PosHandler) RecentReceipts(c *gin.Context) {
	var q dto.RecentReceiptsQuery
	if !bindQuery(c, &q) {
		return
	}
	receipts, err := h.svc.RecentReceipts(c.Request.Context(), session(c), q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipts)
}

func (h *PosHandler) Receipt(c *gin.Context) {
	r, err := h.svc.Receipt(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// ReceiptPDF godoc
// @Summary  Download a receipt as PDF
// @Tags     pos
// @Produce  application/pdf
// @Param    orderNumber  path  string  true  "Order number"
// @Success  200
// @Failure  404  {object}  apierror.APIError
// @Router   /api/pos/receipts/{orderNumber}/pdf [get]
func (h *PosHandler) ReceiptPDF(c *gin.Context) {
	orderNumber := c.Param("orderNumber")
	pdf, err := h.svc.ReceiptPDF(c.Request.Context(), orderNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", infra.ReceiptFileName(orderNumber)))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *PosHandler) EmailReceipt(c *gin.Context) {
	var req dto.EmailReceiptRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.EmailReceipt(c.Request.Context(), session(c), c.Param("orderNumber"), req.To); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}
