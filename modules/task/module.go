package task

import (
	"taskcal/core/database"
	"taskcal/core/middleware"
	"taskcal/modules/task/controller"
	"taskcal/modules/task/repository"
	"taskcal/modules/task/router"
	"taskcal/modules/task/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) {
	repo := repository.NewTaskRepository(db)
	taskService := service.NewTaskService(repo)
	router.NewTaskRouter(controller.NewTaskController(taskService)).Setup(e, mw)
}
