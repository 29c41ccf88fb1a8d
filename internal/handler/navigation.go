package handler

import (
	"net/http"

	"minimart/internal/authz"
	"minimart/internal/service"

	"github.com/gin-gonic/gin"
)

type NavigationHandler struct {
	svc    service.NavigationService
	policy *authz.Policy
}

func NewNavigationHandler(svc service.NavigationService, policy *authz.Policy) *NavigationHandler {
	return &NavigationHandler{svc: svc, policy: policy}
}

// Get returns the signed-in role's menu with its badge counters.
// Counters that fail to load show as zero; the menu itself never fails.
func (h *NavigationHandler) Get(c *gin.Context) {
	sess := session(c)
	counters := h.svc.Counters(c.Request.Context(), sess)
	c.JSON(http.StatusOK, gin.H{
		"sections": h.policy.BuildNavigation(sess.Role(), counters),
		"counters": counters,
	})
}
