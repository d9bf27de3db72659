package delivery

import (
	"errors"
	"net/http"
	"strings"

	"admin_console/internal/domain"
	"admin_console/internal/middleware"
	"admin_console/internal/usecase"

	"github.com/gin-gonic/gin"
)

type loginView struct {
	Email    string
	ReturnTo string
}

func (h *Handler) LoginForm(c *gin.Context) {
	returnTo := middleware.SafeReturnTo(c.Query(middleware.ReturnToParam), usecase.DashboardPath)
	if h.sessions.Load(c).IsAuthenticated() {
		c.Redirect(http.StatusSeeOther, returnTo)
		return
	}
	h.render.Render(c, http.StatusOK, "login", h.page(c, "Iniciar sesión", nil, loginView{ReturnTo: returnTo}))
}

func (h *Handler) Login(c *gin.Context) {
	handlerLogger := h.log.WithField("handler", "Login")
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	returnTo := middleware.SafeReturnTo(c.PostForm(middleware.ReturnToParam), usecase.DashboardPath)
	view := loginView{Email: email, ReturnTo: returnTo}

	if email == "" || password == "" {
		h.render.Render(c, http.StatusUnprocessableEntity, "login", h.page(c, "Iniciar sesión", []domain.Notification{errorNotification(msgLoginMissing)}, view))
		return
	}

	res, err := h.auth.Login(c.Request.Context(), email, password)
	if err != nil {
		handlerLogger.Warnf("Login failed for %s: %v", email, err)
		msg := msgLoginFailed
		if !errors.Is(err, domain.ErrAuth) {
			msg = msgLoginUnavailable
		}
		h.render.Render(c, statusFor(err), "login", h.page(c, "Iniciar sesión", []domain.Notification{errorNotification(msg)}, view))
		return
	}

	sess := h.sessions.Save(c, res.Token, res.Email)
	handlerLogger.Infof("User %s signed in (session expires %v)", email, sess.ExpiresAt())
	c.Redirect(http.StatusSeeOther, returnTo)
}

func (h *Handler) Logout(c *gin.Context) {
	h.sessions.Clear(c)
	h.redirect(c, usecase.LoginPath, []domain.Notification{{Level: domain.LevelInfo, Message: msgLoggedOut}})
}

func errorNotification(msg string) domain.Notification {
	return domain.Notification{Level: domain.LevelError, Message: msg}
}
