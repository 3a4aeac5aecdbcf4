package calendar

import (
	"taskcal/core/cache"
	"taskcal/core/config"
	"taskcal/core/constants"
	"taskcal/core/database"
	"taskcal/core/logger"
	"taskcal/core/middleware"
	"taskcal/modules/calendar/controller"
	"taskcal/modules/calendar/provider"
	"taskcal/modules/calendar/repository"
	"taskcal/modules/calendar/router"
	"taskcal/modules/calendar/service"
	eventRepository "taskcal/modules/event/repository"

	"github.com/labstack/echo/v4"
)

// Module holds what the HTTP server and the background worker share.
type Module struct {
	Repository repository.CalendarRepository
	Sync       *service.SyncService
	Calendar   *service.CalendarService
}

// New builds the calendar services without registering routes, so the worker
// can run without an HTTP server.
func New(db database.IDatabase, states service.StateStore, cfg *config.Config) *Module {
	repo := repository.NewCalendarRepository(db)
	events := eventRepository.NewEventRepository(db)

	var prov provider.Provider
	if cfg.GoogleAPI.Configured() {
		prov = provider.NewGoogleProvider(cfg.GoogleAPI, cfg.Sync)
	} else {
		logger.Warn("Calendar:Init:ProviderDisabled", "reason", "google_api client id, secret or redirect uri not configured")
	}

	syncService := service.NewSyncService(repo, events, prov, cfg.Sync)
	stateSigner := service.NewStateSigner(cfg.JWT.Secret, states, constants.OAuthStateTTL)
	calendarService := service.NewCalendarService(repo, prov, stateSigner, syncService, cfg.App)

	return &Module{Repository: repo, Sync: syncService, Calendar: calendarService}
}

func Init(e *echo.Echo, db database.IDatabase, states cache.Cache, mw *middleware.Middleware, cfg *config.Config) *Module {
	m := New(db, states, cfg)
	router.NewCalendarRouter(controller.NewCalendarController(m.Calendar)).Setup(e, mw)
	return m
}
