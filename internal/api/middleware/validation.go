package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobfill/pkg/models"
	"jobfill/pkg/utils"
)

// DOM snapshots of real job boards run large; anything beyond this is a
// misbehaving host.
const maxSnapshotBytes = 5 * 1024 * 1024

// RequestValidation middleware tags every request with an id and rejects
// oversized snapshot bodies before they reach a handler.
func RequestValidation() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := utils.GenerateRequestID()
			c.Set("request_id", requestID)
			c.Response().Header().Set("X-Request-ID", requestID)

			if c.Request().Method == http.MethodPost {
				if c.Request().ContentLength > maxSnapshotBytes {
					return c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
						Error:     "request_too_large",
						Message:   "Request body too large",
						RequestID: requestID,
						Timestamp: time.Now(),
					})
				}
			}

			return next(c)
		}
	}
}
