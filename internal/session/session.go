// Package session is the console's session gate: it knows whether the
// current browser is signed in and which bearer token to forward.
package session

import (
	"net/http"
	"time"

	"admin_console/pkg/clock"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Session wraps the bearer token issued by the remote API. When the token
// is a JWT its exp and email claims are read without verifying the
// signature; the remote API stays authoritative.
type Session struct {
	token     string
	email     string
	expiresAt time.Time
	clk       clock.Clock
}

func New(token string, clk clock.Clock) *Session {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	s := &Session{token: token, clk: clk}
	if token == "" {
		return s
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return s // opaque token
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		s.expiresAt = exp.Time
	}
	if email, ok := claims["email"].(string); ok {
		s.email = email
	}
	return s
}

func (s *Session) IsAuthenticated() bool {
	if s == nil || s.token == "" {
		return false
	}
	return s.expiresAt.IsZero() || s.clk.Now().Before(s.expiresAt)
}

// BearerToken returns the stored token even when it looks expired.
func (s *Session) BearerToken() string {
	if s == nil {
		return ""
	}
	return s.token
}

func (s *Session) Email() string {
	if s == nil {
		return ""
	}
	return s.email
}

func (s *Session) ExpiresAt() time.Time {
	return s.expiresAt
}

// Store keeps the token in an HttpOnly cookie.
type Store struct {
	CookieName string
	Secure     bool
	clk        clock.Clock
}

func NewStore(cookieName string, secure bool, clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &Store{CookieName: cookieName, Secure: secure, clk: clk}
}

func (st *Store) Load(c *gin.Context) *Session {
	token, err := c.Cookie(st.CookieName)
	if err != nil {
		return New("", st.clk)
	}
	sess := New(token, st.clk)
	if sess.email == "" {
		if email, err := c.Cookie(st.emailCookie()); err == nil {
			sess.email = email
		}
	}
	return sess
}

// Save writes the token; the cookie lives as long as the JWT when known,
// otherwise for the browser session. email is the account reported by the
// login response and is kept alongside for tokens that carry no claims.
func (st *Store) Save(c *gin.Context, token, email string) *Session {
	sess := New(token, st.clk)
	maxAge := 0
	if !sess.expiresAt.IsZero() {
		maxAge = int(sess.expiresAt.Sub(st.clk.Now()).Seconds())
		if maxAge <= 0 {
			maxAge = -1
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(st.CookieName, token, maxAge, "/", "", st.Secure, true)
	if sess.email == "" && email != "" {
		sess.email = email
		c.SetCookie(st.emailCookie(), email, maxAge, "/", "", st.Secure, true)
	}
	return sess
}

func (st *Store) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(st.CookieName, "", -1, "/", "", st.Secure, true)
	c.SetCookie(st.emailCookie(), "", -1, "/", "", st.Secure, true)
}

func (st *Store) emailCookie() string {
	return st.CookieName + "_email"
}
