package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/account-api/internal/middleware"
)

// Register mounts the public auth routes and the token-protected /api routes.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/healthz", h.Health)

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", h.RegisterAccount)
		authRoutes.POST("/login", h.Login)
	}

	apiRoutes := r.Group("/api")
	apiRoutes.Use(middleware.AuthMiddleware(h.Tokens))
	{
		apiRoutes.GET("/account", h.GetCurrentAccount)
		apiRoutes.PUT("/account", h.UpdateCurrentAccount)
		apiRoutes.DELETE("/account", h.DeleteCurrentAccount)
	}
}
