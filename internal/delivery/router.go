package delivery

import (
	"admin_console/internal/middleware"
	"admin_console/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewRouter wires the console routes. Everything except login, logout
// and health sits behind the session gate.
func NewRouter(h *Handler, corsOrigins []string, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(middleware.RequestID(), middleware.RequestLogger(logger), gin.Recovery())

	router.NoRoute(h.NotFound)

	router.GET("/health", h.Health)
	router.GET(usecase.LoginPath, h.LoginForm)
	router.POST(usecase.LoginPath, h.Login)
	router.POST("/logout", h.Logout)

	protected := router.Group("/")
	protected.Use(middleware.SessionGate(h.sessions, usecase.LoginPath, logger))
	{
		protected.GET(usecase.DashboardPath, h.Dashboard)

		products := protected.Group(usecase.ListPath)
		{
			products.GET("", h.ListProducts)
			products.GET("/nuevo", h.NewProductForm)
			products.POST("/nuevo", h.CreateProduct)
			products.GET("/editar/:id", h.EditProductForm)
			products.POST("/editar/:id", h.UpdateProduct)
			products.GET("/eliminar/:id", h.ConfirmDelete)
			products.POST("/eliminar/:id", h.DeleteProduct)
		}
	}

	api := router.Group("/api")
	if corsHandler := middleware.CORS(corsOrigins); corsHandler != nil {
		api.Use(corsHandler)
	}
	api.Use(middleware.SessionGate(h.sessions, usecase.LoginPath, logger))
	{
		api.GET("/dashboard", h.DashboardJSON)
		api.OPTIONS("/dashboard", func(c *gin.Context) {})
	}

	return router
}
