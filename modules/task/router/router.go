package router

import (
	"taskcal/core/middleware"
	"taskcal/modules/task/controller"

	"github.com/labstack/echo/v4"
)

type TaskRouter struct {
	controller *controller.TaskController
}

func NewTaskRouter(controller *controller.TaskController) *TaskRouter {
	return &TaskRouter{controller: controller}
}

func (r *TaskRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	taskRoutes := e.Group("/api/tasks")
	taskRoutes.Use(mw.AuthMiddleware())

	taskRoutes.GET("", r.controller.ListTasks)
	taskRoutes.POST("", r.controller.CreateTask)
	taskRoutes.GET("/:id", r.controller.GetTask)
	taskRoutes.PUT("/:id", r.controller.UpdateTask)
	taskRoutes.DELETE("/:id", r.controller.DeleteTask)

	// Timer
	taskRoutes.POST("/:id/start", r.controller.StartTask)
	taskRoutes.POST("/:id/stop", r.controller.StopTask)
}
