package delivery

import (
	"errors"
	"net/http"

	"admin_console/internal/clients"
	"admin_console/internal/domain"
	"admin_console/internal/flash"
	"admin_console/internal/middleware"
	"admin_console/internal/session"
	"admin_console/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler hosts the view-models behind gin routes. A fresh view-model is
// built for every request and closed when the response is written.
type Handler struct {
	api       clients.Caller
	auth      *clients.AuthClient
	sessions  *session.Store
	flash     *flash.Codec
	render    *Renderer
	maxUpload int64
	log       *logrus.Logger
}

func NewHandler(api clients.Caller, auth *clients.AuthClient, sessions *session.Store, flashCodec *flash.Codec, renderer *Renderer, maxUpload int64, logger *logrus.Logger) *Handler {
	return &Handler{
		api:       api,
		auth:      auth,
		sessions:  sessions,
		flash:     flashCodec,
		render:    renderer,
		maxUpload: maxUpload,
		log:       logger,
	}
}

// repository builds the product facade bound to the caller's session.
func (h *Handler) repository(c *gin.Context) *clients.ProductClient {
	return clients.NewProductClient(h.api, middleware.CurrentSession(c), h.log)
}

func (h *Handler) page(c *gin.Context, title string, notes []domain.Notification, data any) page {
	return page{
		Title:         title,
		Email:         sessionLabel(middleware.CurrentSession(c)),
		Notifications: append(h.flash.Pop(c), notes...),
		Data:          data,
	}
}

// redirect replays the view-model's notifications on the next page.
func (h *Handler) redirect(c *gin.Context, to string, notes []domain.Notification) {
	if err := h.flash.Set(c, notes); err != nil {
		h.log.Errorf("Handler: Failed to set flash cookie: %v", err)
	}
	c.Redirect(http.StatusSeeOther, to)
}

func sessionLabel(s *session.Session) string {
	if !s.IsAuthenticated() {
		return ""
	}
	if email := s.Email(); email != "" {
		return email
	}
	return "Administrador"
}

// statusFor maps a view-model or facade failure to the HTTP status of the
// re-rendered page.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, new(*http.MaxBytesError)):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errMalformedForm):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotAnImage), errors.Is(err, domain.ErrImageTooLarge):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNetwork), errors.Is(err, domain.ErrParse), errors.Is(err, domain.ErrHTTP):
		return http.StatusBadGateway
	case errors.Is(err, usecase.ErrNotReady):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
