package controller

import (
	"taskcal/core/controller"
	"taskcal/core/errors"
	"taskcal/core/middleware"
	"taskcal/core/params"
	"taskcal/core/utils"
	"taskcal/modules/event/dto"
	"taskcal/modules/event/service"
	"taskcal/modules/event/validator"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type EventController struct {
	controller.BaseController
	EventService *service.EventService
}

func NewEventController(eventService *service.EventService) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		EventService:   eventService,
	}
}

func (controller *EventController) CreateEvent(c echo.Context) error {
	userID, _ := middleware.GetUserID(c)

	requestData := new(dto.EventRequest)
	if err := c.Bind(requestData); err != nil {
		return controller.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	validationResult := validator.ValidateEventRequest(requestData)
	if validationResult.HasError() {
		return controller.BadRequest(errors.ErrInvalidInput, "Invalid request data", validationResult)
	}

	event, err := controller.EventService.CreateEvent(c.Request().Context(), userID, requestData)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}
	return controller.CreatedResponse(c, event, "create event success")
}

func (controller *EventController) GetEvent(c echo.Context) error {
	userID, _ := middleware.GetUserID(c)

	eventID := utils.ToUUID(c.Param("id"))
	if eventID == uuid.Nil {
		return controller.BadRequest(errors.ErrInvalidInput, "invalid event id")
	}

	event, err := controller.EventService.GetEvent(c.Request().Context(), userID, eventID)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}
	return controller.SuccessResponse(c, event, "get event success")
}

func (controller *EventController) ListEvents(c echo.Context) error {
	userID, _ := middleware.GetUserID(c)

	queryParams := params.NewQueryParams(c)

	events, err := controller.EventService.ListEvents(c.Request().Context(), userID, *queryParams)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}
	return controller.SuccessResponse(c, events, "get events success")
}

func (controller *EventController) UpdateEvent(c echo.Context) error {
	userID, _ := middleware.GetUserID(c)

	eventID := utils.ToUUID(c.Param("id"))
	if eventID == uuid.Nil {
		return controller.BadRequest(errors.ErrInvalidInput, "invalid event id")
	}

	requestData := new(dto.EventRequest)
	if err := c.Bind(requestData); err != nil {
		return controller.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	validationResult := validator.ValidateEventRequest(requestData)
	if validationResult.HasError() {
		return controller.BadRequest(errors.ErrInvalidInput, "Invalid request data", validationResult)
	}

	event, err := controller.EventService.UpdateEvent(c.Request().Context(), userID, eventID, requestData)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}
	return controller.SuccessResponse(c, event, "update event success")
}

func (controller *EventController) DeleteEvent(c echo.Context) error {
	userID, _ := middleware.GetUserID(c)

	eventID := utils.ToUUID(c.Param("id"))
	if eventID == uuid.Nil {
		return controller.BadRequest(errors.ErrInvalidInput, "invalid event id")
	}

	if err := controller.EventService.DeleteEvent(c.Request().Context(), userID, eventID); err != nil {
		return controller.ErrorResponse(c, err)
	}
	return controller.SuccessResponse(c, nil, "delete event success")
}

func (controller *EventController) ExportEvents(c echo.Context) error {
	userID, _ := middleware.GetUserID(c)

	export, err := controller.EventService.ExportEvents(c.Request().Context(), userID)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}
	return controller.SuccessResponse(c, export, "export events success")
}
