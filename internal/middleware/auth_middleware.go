package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"mailbrief/internal/handler"
)

// AuthMiddleware rejects requests without a signed-in user and stores the
// user on the context for the handlers.
func AuthMiddleware(users handler.CurrentUserProvider) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := users.GetCurrentUser(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "Unauthorized",
				})
			}

			c.Set(handler.ContextUserKey, user)
			return next(c)
		}
	}
}
