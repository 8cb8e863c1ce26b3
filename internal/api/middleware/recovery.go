package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/labstack/echo/v4"
)

const panicStackBytes = 4 << 10

// panicResponse is the body returned for a recovered panic. It echoes the
// request ID assigned by RequestLog so a failed sync call can be tied back to
// its log entry.
type panicResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// Recovery returns Echo middleware that converts handler panics into 500
// responses instead of letting them kill the connection.
func Recovery(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				stack := make([]byte, panicStackBytes)
				stack = stack[:runtime.Stack(stack, false)]

				reqID, _ := c.Get("request_id").(string)
				log.Error("panic recovered",
					"panic", fmt.Sprint(r),
					"request_id", reqID,
					"method", c.Request().Method,
					"path", c.Request().URL.Path,
					"stack", string(stack),
				)

				err = c.JSON(http.StatusInternalServerError, panicResponse{
					Error:     "internal server error",
					RequestID: reqID,
				})
			}()
			return next(c)
		}
	}
}
