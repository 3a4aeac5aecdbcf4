package auth

import (
	"taskcal/core/config"
	"taskcal/core/database"
	"taskcal/core/middleware"
	"taskcal/modules/auth/controller"
	"taskcal/modules/auth/repository"
	"taskcal/modules/auth/router"
	"taskcal/modules/auth/service"

	"github.com/labstack/echo/v4"
)

// Init registers the /api/auth routes and returns the service other modules
// use for session checks and user lookups.
func Init(e *echo.Echo, db database.IDatabase, cache service.SessionStore, cfg *config.Config) (*service.AuthService, *middleware.Middleware) {
	repo := repository.NewUserRepository(db)
	authService := service.NewAuthService(repo, cache, cfg.JWT)
	mw := middleware.NewMiddleware(authService)

	router.NewAuthRouter(controller.NewAuthController(authService)).Setup(e, mw)
	return authService, mw
}
