package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "serve-board.com/serve-board/internal/errors"
	"serve-board.com/serve-board/internal/membership"
)

const actorKey = "actor"

// ResolveMembership resolves the acting user's membership in the :orgID of
// the route once, before the handler runs.
func ResolveMembership(resolver *membership.Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, err := resolver.Resolve(c.Request().Context(), c.Param("orgID"), UserID(c))
			if err != nil {
				var appErr *apperrors.Exception
				if errors.As(err, &appErr) {
					return echo.NewHTTPError(appErr.StatusCode, appErr.Message)
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "failed to resolve membership")
			}

			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

// Actor returns the membership context stored by ResolveMembership.
func Actor(c echo.Context) membership.Context {
	actor, _ := c.Get(actorKey).(membership.Context)
	return actor
}
