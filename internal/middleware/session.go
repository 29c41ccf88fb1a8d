package middleware

import (
	"context"
	"net/http"

	"minimart/internal/apierror"
	"minimart/internal/authz"
	"minimart/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	SessionKey   = "session"
	SessionIDKey = "session_id"

	MsgAuthRequired = "Authentication required."
	MsgForbidden    = "You do not have permission to access this page."
)

// SessionLoader resolves a session id; (nil, nil) means not signed in.
type SessionLoader interface {
	Current(ctx context.Context, sessionID string) (*model.Session, error)
}

// SessionAuth reads the session cookie and, when it names a live session,
// stores the session in the gin context. It never rejects a request.
func SessionAuth(loader SessionLoader, cookie string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookie)
		if err == nil && id != "" {
			sess, err := loader.Current(c.Request.Context(), id)
			if err != nil {
				log.Warn().Err(err).Str("request_id", c.GetString(RequestIDKey)).Msg("session lookup failed")
			}
			if sess != nil {
				c.Set(SessionKey, sess)
				c.Set(SessionIDKey, id)
			}
		}
		c.Next()
	}
}

// GetSession returns the signed-in session or nil.
func GetSession(c *gin.Context) *model.Session {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*model.Session)
	return sess
}

// GetSessionID returns the id of the signed-in session or "".
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

// ScreenGuard applies the route table to screen requests, redirecting with
// 302 to the login page, the unauthorized page or the role's default route.
func ScreenGuard(policy *authz.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := GetSession(c)
		d := policy.Guard(sess != nil, sess.Role(), c.Request.URL.Path)
		if d.Outcome != authz.Allow {
			c.Redirect(http.StatusFound, d.Location)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSession rejects API calls without a session. The body carries the
// login location so the client can navigate there.
func RequireSession(policy *authz.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetSession(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.RedirectError{
				Detail:   MsgAuthRequired,
				Redirect: policy.LoginPath(),
			})
			return
		}
		c.Next()
	}
}

// RequireScreen gates an API group with the roles of the screen that owns it.
func RequireScreen(policy *authz.Policy, screen string) gin.HandlerFunc {
	roles, ok := policy.RolesFor(screen)
	if !ok {
		panic("middleware: unknown screen " + screen)
	}
	return func(c *gin.Context) {
		sess := GetSession(c)
		if sess == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.RedirectError{
				Detail:   MsgAuthRequired,
				Redirect: policy.LoginPath(),
			})
			return
		}
		if !authz.IsRouteAllowed(sess.Role(), roles) {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.RedirectError{
				Detail:   MsgForbidden,
				Redirect: policy.UnauthorizedPath(),
			})
			return
		}
		c.Next()
	}
}
