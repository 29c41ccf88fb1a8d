package handler

import (
	"fmt"
	"net/http"
	"time"

	"minimart/internal/dto"
	"minimart/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct{ svc service.ReportService }

func NewReportHandler(svc service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Dashboard godoc
// @Summary  Dashboard overview
// @Tags     reports
// @Produce  json
// @Success  200  {object}  report.Overview
// @Failure  502  {object}  apierror.APIError
// @Router   /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	overview, err := h.svc.Dashboard(c.Request.Context(), session(c))
	respond(c, http.StatusOK, overview, err)
}

func (h *ReportHandler) Sales(c *gin.Context) {
	sales, err := h.svc.Sales(c.Request.Context(), session(c))
	respond(c, http.StatusOK, sales, err)
}

// ExportSales godoc
// @Summary  Sales summary as a spreadsheet
// @Tags     reports
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success  200
// @Router   /api/reports/sales/export [get]
func (h *ReportHandler) ExportSales(c *gin.Context) {
	data, err := h.svc.SalesWorkbook(c.Request.Context(), session(c))
	if err != nil {
		respondError(c, err)
		return
	}
	name := fmt.Sprintf("sales_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *ReportHandler) ProfitLoss(c *gin.Context) {
	var q dto.ProfitLossQuery
	if !bindQuery(c, &q) {
		return
	}
	pl, err := h.svc.ProfitLoss(c.Request.Context(), session(c), q.Filter())
	respond(c, http.StatusOK, pl, err)
}

func (h *ReportHandler) Activity(c *gin.Context) {
	var r dto.DateRange
	if !bindQuery(c, &r) {
		return
	}
	page, err := h.svc.Activity(c.Request.Context(), session(c), r.StartDate, r.EndDate)
	respond(c, http.StatusOK, page, err)
}
