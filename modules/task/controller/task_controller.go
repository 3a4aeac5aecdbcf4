package controller

import (
	"strconv"

	"taskcal/core/controller"
	"taskcal/core/errors"
	"taskcal/core/middleware"
	"taskcal/core/params"
	"taskcal/core/utils"
	"taskcal/modules/task/dto"
	"taskcal/modules/task/service"
	"taskcal/modules/task/validator"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type TaskController struct {
	controller.BaseController
	TaskService *service.TaskService
}

func NewTaskController(taskService *service.TaskService) *TaskController {
	return &TaskController{
		BaseController: controller.NewBaseController(),
		TaskService:    taskService,
	}
}

func (controller *TaskController) CreateTask(c echo.Context) error {
	userID, _ := middleware.GetUserID(c)

	requestData := new(dto.TaskRequest)
	if err := c.Bind(requestData); err != nil {
		return controller.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	validationResult := validator.ValidateTaskRequest(requestData)
	if validationResult.HasError() {
		return controller.BadRequest(errors.ErrInvalidInput, "Invalid request data", validationResult)
	}

	task, err := controller.TaskService.CreateTask(c.Request().Context(), userID, requestData)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}
	return controller.CreatedResponse(c, task, "create task success")
}

func (controller *TaskController) GetTask(c echo.Context) error {
	userID, _ := middleware.GetUserID(c)

	taskID := utils.ToUUID(c.Param("id"))
	if taskID == uuid.Nil {
		return controller.BadRequest(errors.ErrInvalidInput, "invalid task id")
	}

	task, err := controller.TaskService.GetTask(c.Request().Context(), userID, taskID)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}
	return controller.SuccessResponse(c, task, "get task success")
}

func (controller *TaskController) ListTasks(c echo.Context) error {
	userID, _ := middleware.GetUserID(c)

	queryParams := params.NewQueryParams(c)

	tasks, err := controller.TaskService.ListTasks(c.Request().Context(), userID, *queryParams)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}
	return controller.SuccessResponse(c, tasks, "get tasks success")
}

func (controller *TaskController) UpdateTask(c echo.Context) error {
	userID, _ := middleware.GetUserID(c)

	taskID := utils.ToUUID(c.Param("id"))
	if taskID == uuid.Nil {
		return controller.BadRequest(errors.ErrInvalidInput, "invalid task id")
	}

	requestData := new(dto.TaskRequest)
	if err := c.Bind(requestData); err != nil {
		return controller.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	validationResult := validator.ValidateTaskRequest(requestData)
	if validationResult.HasError() {
		return controller.BadRequest(errors.ErrInvalidInput, "Invalid request data", validationResult)
	}

	task, err := controller.TaskService.UpdateTask(c.Request().Context(), userID, taskID, requestData)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}
	return controller.SuccessResponse(c, task, "update task success")
}

func (controller *TaskController) DeleteTask(c echo.Context) error {
	userID, _ := middleware.GetUserID(c)

	taskID := utils.ToUUID(c.Param("id"))
	if taskID == uuid.Nil {
		return controller.BadRequest(errors.ErrInvalidInput, "invalid task id")
	}

	if err := controller.TaskService.DeleteTask(c.Request().Context(), userID, taskID); err != nil {
		return controller.ErrorResponse(c, err)
	}
	return controller.SuccessResponse(c, nil, "delete task success")
}

func (controller *TaskController) StartTask(c echo.Context) error {
	userID, _ := middleware.GetUserID(c)

	taskID := utils.ToUUID(c.Param("id"))
	if taskID == uuid.Nil {
		return controller.BadRequest(errors.ErrInvalidInput, "invalid task id")
	}

	task, err := controller.TaskService.StartTask(c.Request().Context(), userID, taskID)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}
	return controller.SuccessResponse(c, task, "start task success")
}

func (controller *TaskController) StopTask(c echo.Context) error {
	userID, _ := middleware.GetUserID(c)

	taskID := utils.ToUUID(c.Param("id"))
	if taskID == uuid.Nil {
		return controller.BadRequest(errors.ErrInvalidInput, "invalid task id")
	}

	done, _ := strconv.ParseBool(c.QueryParam("done"))

	task, err := controller.TaskService.StopTask(c.Request().Context(), userID, taskID, done)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}
	return controller.SuccessResponse(c, task, "stop task success")
}
