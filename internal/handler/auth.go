package handler

import (
	"net/http"
	"time"

	"minimart/internal/authz"
	"minimart/internal/config"
	"minimart/internal/dto"
	"minimart/internal/middleware"
	"minimart/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc    service.AuthService
	policy *authz.Policy
	cookie string
	secure bool
}

func NewAuthHandler(svc service.AuthService, policy *authz.Policy, cfg *config.Config) *AuthHandler {
	return &AuthHandler{svc: svc, policy: policy, cookie: cfg.SessionCookie, secure: cfg.CookieSecure}
}

// Login godoc
// @Summary      Sign in
// @Description  Authenticates against the backend and sets the session cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  apierror.APIError
// @Failure      422   {object}  apierror.APIError
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	res, err := h.svc.Login(c.Request.Context(), req.Username, req.Password, req.Next)
	if err != nil {
		respondError(c, err)
		return
	}
	// A browser that was already signed in drops its old session.
	if old := middleware.GetSessionID(c); old != "" {
		h.svc.Logout(c.Request.Context(), old)
	}

	maxAge := 0
	if !res.Session.ExpiresAt.IsZero() {
		maxAge = int(time.Until(res.Session.ExpiresAt).Seconds())
	}
	h.setCookie(c, res.SessionID, maxAge)

	c.JSON(http.StatusOK, dto.LoginResponse{
		User:      res.Session.User,
		Redirect:  res.Redirect,
		ExpiresAt: res.Session.ExpiresAt,
	})
}

// Logout godoc
// @Summary  Sign out
// @Tags     auth
// @Success  204
// @Router   /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if sid := middleware.GetSessionID(c); sid != "" {
		h.svc.Logout(c.Request.Context(), sid)
	}
	h.setCookie(c, "", -1)
	c.Status(http.StatusNoContent)
}

// Session godoc
// @Summary  Current session
// @Tags     auth
// @Produce  json
// @Success  200  {object}  dto.SessionResponse
// @Failure  401  {object}  apierror.RedirectError
// @Router   /api/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	sess := session(c)
	c.JSON(http.StatusOK, dto.SessionResponse{
		User:         sess.User,
		ExpiresAt:    sess.ExpiresAt,
		DefaultRoute: h.policy.DefaultRouteFor(sess.Role()),
	})
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie, value, maxAge, "/", "", h.secure, true)
}
