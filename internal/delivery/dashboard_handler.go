package delivery

import (
	"net/http"
	"strings"
	"time"

	"admin_console/internal/domain"
	"admin_console/internal/usecase"

	"github.com/gin-gonic/gin"
)

type dashboardView struct {
	Total  int
	Recent []domain.Product
}

type ProductSummary struct {
	ID             string    `json:"_id"`
	Name           string    `json:"nombre"`
	Price          float64   `json:"precio"`
	FormattedPrice string    `json:"precioFormateado"`
	ImageURL       string    `json:"imagen"`
	CreatedAt      time.Time `json:"createdAt"`
}

type DashboardResponse struct {
	Total  int              `json:"total"`
	Recent []ProductSummary `json:"recientes"`
}

func (h *Handler) Dashboard(c *gin.Context) {
	fx := &usecase.Effects{}
	vm := usecase.NewDashboardViewModel(h.repository(c), fx, h.log)
	defer vm.Close()

	err := vm.Load(c.Request.Context())
	h.render.Render(c, statusFor(err), "dashboard", h.page(c, "Dashboard", fx.Notifications(), dashboardView{
		Total:  vm.Total(),
		Recent: vm.Recent(),
	}))
}

// DashboardJSON serves the same summary for external widgets.
func (h *Handler) DashboardJSON(c *gin.Context) {
	handlerLogger := h.log.WithField("handler", "DashboardJSON")
	repo := h.repository(c)
	fx := &usecase.Effects{}
	vm := usecase.NewDashboardViewModel(repo, fx, h.log)
	defer vm.Close()

	if err := vm.Load(c.Request.Context()); err != nil {
		handlerLogger.Warnf("Dashboard summary failed: %v", err)
		msg := err.Error()
		if notes := fx.Notifications(); len(notes) > 0 {
			msg = notes[0].Message
		}
		c.JSON(statusFor(err), ErrorResponse{Error: msg})
		return
	}

	resp := DashboardResponse{Total: vm.Total(), Recent: []ProductSummary{}}
	for _, p := range vm.Recent() {
		resp.Recent = append(resp.Recent, ProductSummary{
			ID:             p.ID,
			Name:           p.Name,
			Price:          p.Price,
			FormattedPrice: p.FormattedPrice(),
			ImageURL:       repo.ImageURL(p.ImageRef),
			CreatedAt:      p.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) NotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Recurso no encontrado"})
		return
	}
	h.render.Render(c, http.StatusNotFound, "notfound", h.page(c, "Página no encontrada", nil, nil))
}
