package router

import (
	"taskcal/core/middleware"
	"taskcal/modules/calendar/controller"

	"github.com/labstack/echo/v4"
)

type CalendarRouter struct {
	controller *controller.CalendarController
}

func NewCalendarRouter(controller *controller.CalendarController) *CalendarRouter {
	return &CalendarRouter{controller: controller}
}

func (r *CalendarRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	// The provider redirects the browser here without a session header.
	e.GET("/api/calendar/callback", r.controller.Callback)

	calendarRoutes := e.Group("/api/calendar")
	calendarRoutes.Use(mw.AuthMiddleware())

	calendarRoutes.GET("/connect", r.controller.Connect)
	calendarRoutes.POST("/sync", r.controller.Sync)
	calendarRoutes.GET("/status", r.controller.Status)
	calendarRoutes.POST("/disconnect", r.controller.Disconnect)
	calendarRoutes.PUT("/settings", r.controller.UpdateSettings)
	calendarRoutes.GET("/sync/history", r.controller.SyncHistory)
}
