package router

import (
	"taskcal/core/middleware"
	"taskcal/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

type AuthRouter struct {
	controller *controller.AuthController
}

func NewAuthRouter(controller *controller.AuthController) *AuthRouter {
	return &AuthRouter{controller: controller}
}

func (r *AuthRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	authRoutes := e.Group("/api/auth")

	// Public routes
	authRoutes.POST("/register", r.controller.Register)
	authRoutes.POST("/login", r.controller.Login)

	// Private routes
	authRoutes.POST("/logout", r.controller.Logout, mw.AuthMiddleware())
	authRoutes.GET("/me", r.controller.Me, mw.AuthMiddleware())
}
