package handler

import (
	"net/http"

	"minimart/internal/dto"
	"minimart/internal/service"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

func (h *InventoryHandler) StockLevels(c *gin.Context) {
	var q dto.StockQuery
	if !bindQuery(c, &q) {
		return
	}
	levels, err := h.svc.StockLevels(c.Request.Context(), session(c), q.Filter())
	respond(c, http.StatusOK, levels, err)
}

func (h *InventoryHandler) Movements(c *gin.Context) {
	var q dto.MovementQuery
	if !bindQuery(c, &q) {
		return
	}
	movements, err := h.svc.Movements(c.Request.Context(), session(c), q.Filter())
	respond(c, http.StatusOK, movements, err)
}

// Adjust godoc
// @Summary      Record a stock movement
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body      dto.AdjustStockRequest  true  "Adjustment"
// @Success      201   {object}  model.StockMovement
// @Failure      422   {object}  apierror.APIError
// @Router       /api/inventory/adjust [post]
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	mv, err := h.svc.Adjust(c.Request.Context(), session(c), req.Adjustment())
	respond(c, http.StatusCreated, mv, err)
}
