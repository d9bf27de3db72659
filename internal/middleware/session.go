package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"admin_console/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const sessionKey = "session"

// ReturnToParam carries the originally requested page through the login form.
const ReturnToParam = "return_to"

// SessionGate loads the session cookie and lets only authenticated
// requests through. Page navigation is redirected to the login form;
// JSON endpoints under /api answer 401.
func SessionGate(store *session.Store, loginPath string, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := store.Load(c)
		if !sess.IsAuthenticated() {
			if sess.BearerToken() != "" {
				log.Infof("Middleware: Session token expired at %s", sess.ExpiresAt().Format("2006-01-02T15:04:05Z07:00"))
				store.Clear(c)
			} else {
				log.Debugf("Middleware: No session for %s", c.Request.URL.Path)
			}

			if strings.HasPrefix(c.Request.URL.Path, "/api/") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sesión requerida"})
				return
			}
			target := loginPath + "?" + ReturnToParam + "=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusSeeOther, target)
			c.Abort()
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// CurrentSession returns the session stored by SessionGate, or an
// unauthenticated one when the gate did not run.
func CurrentSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(*session.Session); ok {
			return sess
		}
	}
	return session.New("", nil)
}

// SafeReturnTo keeps only local paths so the login form cannot be used as
// an open redirect.
func SafeReturnTo(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	return target
}
