package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"jobfill/internal/engine"
	"jobfill/internal/logging"
	"jobfill/pkg/models"
	"jobfill/pkg/utils"
)

// MutationsHandler accepts mutation notifications from host runtimes. The
// response is immediate; the debounced re-scan runs out of band and the
// host fetches the refreshed detection set afterwards.
func MutationsHandler(eng *engine.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := requestIDFrom(c)
		logger := logging.LogWithRequestID(requestID)

		var req models.MutationNotification
		if err := c.Bind(&req); err != nil {
			return badRequest(c, requestID, "invalid_request", "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return errorResponse(c, requestID, utils.NewValidationError(err.Error()))
		}

		eng.NotifyMutation(&req)

		logger.Debug("Mutation notification accepted", map[string]interface{}{
			"session_id":  req.SessionID,
			"added_forms": req.AddedForms,
		})
		return c.JSON(http.StatusAccepted, map[string]interface{}{
			"accepted":   true,
			"request_id": requestID,
		})
	}
}
