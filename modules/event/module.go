package event

import (
	"taskcal/core/config"
	"taskcal/core/database"
	"taskcal/core/logger"
	"taskcal/core/middleware"
	"taskcal/core/storage"
	"taskcal/modules/event/controller"
	"taskcal/modules/event/repository"
	"taskcal/modules/event/router"
	"taskcal/modules/event/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase, users service.UserLookup, mw *middleware.Middleware, cfg *config.Config) {
	repo := repository.NewEventRepository(db)

	var objects storage.ObjectStorage
	if cfg.Storage.Configured() {
		objects = storage.NewS3Storage(cfg.Storage)
	} else {
		logger.Info("Event:Init:ExportDisabled", "reason", "storage bucket or region not configured")
	}

	eventService := service.NewEventService(repo, users, objects, cfg.Storage.PresignTTL)
	router.NewEventRouter(controller.NewEventController(eventService)).Setup(e, mw)
}
