package controller

import (
	"net/http"
	"strconv"

	"taskcal/core/controller"
	"taskcal/core/errors"
	"taskcal/core/middleware"
	"taskcal/core/params"
	"taskcal/modules/calendar/dto"
	"taskcal/modules/calendar/service"

	"github.com/labstack/echo/v4"
)

type CalendarController struct {
	controller.BaseController
	CalendarService *service.CalendarService
}

func NewCalendarController(calendarService *service.CalendarService) *CalendarController {
	return &CalendarController{
		BaseController:  controller.NewBaseController(),
		CalendarService: calendarService,
	}
}

// Connect returns the provider authorization URL, or redirects to it when
// called with ?redirect=1.
func (controller *CalendarController) Connect(c echo.Context) error {
	userID, _ := middleware.GetUserID(c)

	resp, err := controller.CalendarService.ConnectURL(c.Request().Context(), userID)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}

	if redirect, _ := strconv.ParseBool(c.QueryParam("redirect")); redirect {
		return c.Redirect(http.StatusFound, resp.URL)
	}
	return controller.SuccessResponse(c, resp, "calendar authorization url")
}

func (controller *CalendarController) Callback(c echo.Context) error {
	req := &dto.CallbackRequest{
		Code:  c.QueryParam("code"),
		State: c.QueryParam("state"),
		Error: c.QueryParam("error"),
	}
	return c.Redirect(http.StatusFound, controller.CalendarService.HandleCallback(c.Request().Context(), req))
}

func (controller *CalendarController) Sync(c echo.Context) error {
	userID, _ := middleware.GetUserID(c)

	result, err := controller.CalendarService.Sync(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, syncFailureBody(err))
	}
	return controller.SuccessResponse(c, result, "calendar sync finished")
}

// syncFailureBody keeps the result shape on failure with zero counts.
func syncFailureBody(err *errors.AppError) *controller.ErrorResponse {
	return controller.NewErrorBody(err.Code, err.Message, dto.SyncResultResponse{
		Errors: []string{err.Message},
	})
}

func (controller *CalendarController) Status(c echo.Context) error {
	userID, _ := middleware.GetUserID(c)

	status, err := controller.CalendarService.Status(c.Request().Context(), userID)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}
	if !status.Connected {
		return controller.SuccessResponse(c, dto.NotConnectedResponse{Connected: false}, "calendar not connected")
	}
	return controller.SuccessResponse(c, status, "calendar connected")
}

func (controller *CalendarController) Disconnect(c echo.Context) error {
	userID, _ := middleware.GetUserID(c)

	if err := controller.CalendarService.Disconnect(c.Request().Context(), userID); err != nil {
		return controller.ErrorResponse(c, err)
	}
	return controller.SuccessResponse(c, dto.NotConnectedResponse{Connected: false}, "calendar disconnected")
}

func (controller *CalendarController) UpdateSettings(c echo.Context) error {
	userID, _ := middleware.GetUserID(c)

	requestData := new(dto.UpdateSettingsRequest)
	if err := c.Bind(requestData); err != nil {
		return controller.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	status, err := controller.CalendarService.UpdateSettings(c.Request().Context(), userID, requestData)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}
	return controller.SuccessResponse(c, status, "update calendar settings success")
}

func (controller *CalendarController) SyncHistory(c echo.Context) error {
	userID, _ := middleware.GetUserID(c)

	queryParams := params.NewQueryParams(c)

	history, err := controller.CalendarService.SyncHistory(c.Request().Context(), userID, *queryParams)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}
	return controller.SuccessResponse(c, history, "get sync history success")
}
