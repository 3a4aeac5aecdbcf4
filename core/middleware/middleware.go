package middleware

import (
	"context"
	"net/http"
	"strings"

	"taskcal/core/constants"
	"taskcal/core/controller"
	"taskcal/core/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const notAuthenticated = "not authenticated"

// SessionValidator resolves a raw session token to the user it belongs to.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (uuid.UUID, error)
}

type Middleware struct {
	sessions SessionValidator
}

func NewMiddleware(sessions SessionValidator) *Middleware {
	return &Middleware{sessions: sessions}
}

// AuthMiddleware rejects requests without a valid session with 401.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractToken(c)
			if token == "" {
				return unauthorized(errors.ErrMissingAuthorizationHeader)
			}

			userID, err := m.sessions.ValidateSession(c.Request().Context(), token)
			if err != nil || userID == uuid.Nil {
				return unauthorized(errors.ErrUnauthorized)
			}

			c.Set(constants.ContextKeyUserID, userID)
			c.Set(constants.ContextKeyToken, token)
			return next(c)
		}
	}
}

func unauthorized(code errors.ErrorCode) *echo.HTTPError {
	return controller.NewErrorResponse(http.StatusUnauthorized, code, notAuthenticated)
}

// ExtractToken reads the bearer token from the Authorization header, falling
// back to the session cookie.
func ExtractToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	cookie, err := c.Cookie(constants.AccessTokenCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func GetUserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(constants.ContextKeyUserID).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func GetToken(c echo.Context) string {
	token, _ := c.Get(constants.ContextKeyToken).(string)
	return token
}
