package middleware

import (
	"net/http"
	"runtime"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Recovery converts a handler panic into a 500 response so a single request
// cannot take the server down.
func Recovery(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				buf := make([]byte, 4096)
				n := runtime.Stack(buf, false)
				rid, _ := c.Get("request_id").(string)

				logger.Error().
					Str("request_id", rid).
					Interface("panic", r).
					Str("stack", string(buf[:n])).
					Msg("panic recovered")

				err = echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
			}()
			return next(c)
		}
	}
}
