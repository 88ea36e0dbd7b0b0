package httpadapter

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/PabloGalante/quip-agent/internal/observability"
)

// RequestID tags each request with an id, stores it on the request context
// so log lines correlate, and echoes it back in the X-Request-Id header.
// An id supplied by the caller is reused.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}

			ctx := observability.WithRequestID(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Response().Header().Set(echo.HeaderXRequestID, id)

			return next(c)
		}
	}
}
