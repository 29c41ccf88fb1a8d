package handler

import (
	"net/http"
	"strings"

	"minimart/internal/apierror"
	"minimart/internal/authz"
	"minimart/internal/dto"
	"minimart/internal/service"

	"github.com/gin-gonic/gin"
)

const msgNotFound = "Not found."

// ScreenHandler serves the shell for every console route: the screen id,
// its title, the signed-in user and the menu. Access has already been
// decided by ScreenGuard.
type ScreenHandler struct {
	nav    service.NavigationService
	policy *authz.Policy
}

func NewScreenHandler(nav service.NavigationService, policy *authz.Policy) *ScreenHandler {
	return &ScreenHandler{nav: nav, policy: policy}
}

func (h *ScreenHandler) Show(c *gin.Context) {
	path := c.Request.URL.Path
	sess := session(c)
	resp := dto.ScreenResponse{Screen: path, Title: h.policy.Title(path)}

	if path == h.policy.LoginPath() {
		next := c.Query("next")
		if sess != nil {
			c.Redirect(http.StatusFound, h.policy.AfterLogin(sess.Role(), next))
			return
		}
		resp.Next = next
		c.JSON(http.StatusOK, resp)
		return
	}

	resp.User = sess.User
	resp.DefaultRoute = h.policy.DefaultRouteFor(sess.Role())
	resp.Navigation = h.nav.Navigation(c.Request.Context(), sess)
	c.JSON(http.StatusOK, resp)
}

// NoRoute answers unknown /api paths with 404 and hands every other unknown
// path to guard, which redirects to the login page or the default route.
func (h *ScreenHandler) NoRoute(guard gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, apierror.New(msgNotFound))
			return
		}
		guard(c)
		if !c.IsAborted() {
			h.Show(c)
		}
	}
}
