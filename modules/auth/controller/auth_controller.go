package controller

import (
	"net/http"

	"taskcal/core/constants"
	"taskcal/core/controller"
	"taskcal/core/errors"
	"taskcal/core/middleware"
	"taskcal/modules/auth/dto"
	"taskcal/modules/auth/service"
	"taskcal/modules/auth/validator"

	"github.com/labstack/echo/v4"
)

type AuthController struct {
	controller.BaseController
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{
		BaseController: controller.NewBaseController(),
		AuthService:    authService,
	}
}

func (controller *AuthController) Register(c echo.Context) error {
	ctx := c.Request().Context()

	requestData := new(dto.RegisterRequest)
	if err := c.Bind(requestData); err != nil {
		return controller.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	validationResult := validator.ValidateRegisterRequest(requestData)
	if validationResult.HasError() {
		return controller.BadRequest(errors.ErrInvalidInput, "Invalid request data", validationResult)
	}

	registerResponse, err := controller.AuthService.Register(ctx, requestData)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}

	setSessionCookie(c, registerResponse)
	return controller.CreatedResponse(c, registerResponse, "Register success")
}

func (controller *AuthController) Login(c echo.Context) error {
	ctx := c.Request().Context()

	requestData := new(dto.LoginRequest)
	if err := c.Bind(requestData); err != nil {
		return controller.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	validationResult := validator.ValidateLoginRequest(requestData)
	if validationResult.HasError() {
		return controller.BadRequest(errors.ErrInvalidInput, "Invalid request data", validationResult)
	}

	loginResponse, err := controller.AuthService.Login(ctx, requestData)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}

	setSessionCookie(c, loginResponse)
	return controller.SuccessResponse(c, loginResponse, "Login success")
}

func (controller *AuthController) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	if err := controller.AuthService.Logout(ctx, middleware.GetToken(c)); err != nil {
		return controller.ErrorResponse(c, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     constants.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return controller.SuccessResponse(c, nil, "Logout success")
}

func (controller *AuthController) Me(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return controller.Unauthorized(errors.ErrUnauthorized, "not authenticated")
	}

	user, err := controller.AuthService.Me(c.Request().Context(), userID)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}
	return controller.SuccessResponse(c, user, "Get user success")
}

func setSessionCookie(c echo.Context, token *dto.TokenResponse) {
	c.SetCookie(&http.Cookie{
		Name:     constants.AccessTokenCookie,
		Value:    token.AccessToken,
		Path:     "/",
		Expires:  token.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
