package router

import (
	"taskcal/core/middleware"
	"taskcal/modules/event/controller"

	"github.com/labstack/echo/v4"
)

type EventRouter struct {
	controller *controller.EventController
}

func NewEventRouter(controller *controller.EventController) *EventRouter {
	return &EventRouter{controller: controller}
}

func (r *EventRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	eventRoutes := e.Group("/api/events")
	eventRoutes.Use(mw.AuthMiddleware())

	eventRoutes.GET("", r.controller.ListEvents)
	eventRoutes.POST("", r.controller.CreateEvent)
	eventRoutes.POST("/export", r.controller.ExportEvents)
	eventRoutes.GET("/:id", r.controller.GetEvent)
	eventRoutes.PUT("/:id", r.controller.UpdateEvent)
	eventRoutes.DELETE("/:id", r.controller.DeleteEvent)
}
