package handler

import (
	"net/http"

	"minimart/internal/config"

	"github.com/gin-gonic/gin"
)

// SettingsHandler exposes the branch and receipt settings the server runs with.
// They come from the environment and are read-only here.
type SettingsHandler struct{ cfg *config.Config }

func NewSettingsHandler(cfg *config.Config) *SettingsHandler {
	return &SettingsHandler{cfg: cfg}
}

func (h *SettingsHandler) Branch(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"storeName":  h.cfg.StoreName,
		"branchName": h.cfg.BranchName,
		"locationId": h.cfg.DefaultLocationID,
		"currency":   h.cfg.CurrencySymbol,
	})
}

func (h *SettingsHandler) Receipts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"storeName":    h.cfg.StoreName,
		"cashierName":  h.cfg.CashierName,
		"footer":       h.cfg.ReceiptFooter,
		"currency":     h.cfg.CurrencySymbol,
		"emailEnabled": h.cfg.EmailEnabled(),
	})
}
