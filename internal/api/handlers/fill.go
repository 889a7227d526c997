package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"jobfill/internal/engine"
	"jobfill/internal/logging"
	"jobfill/pkg/models"
	"jobfill/pkg/utils"
)

// FillHandler executes a fill cycle for one detected form. withAI forces
// the AI path regardless of the request flag (the /fill/ai route).
func FillHandler(eng *engine.Engine, tasks taskSubmitter, withAI bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		startTime := time.Now()
		requestID := requestIDFrom(c)
		logger := logging.LogWithRequestID(requestID)

		var req models.FillRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, requestID, "invalid_request", "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return errorResponse(c, requestID, utils.NewValidationError(err.Error()))
		}

		token := bearerToken(c)
		if token == "" {
			return errorResponse(c, requestID, utils.NewAuthInvalidError("missing bearer token"))
		}

		useAI := withAI || req.WithAI

		if req.Async {
			processID := utils.GenerateRequestID()
			if err := tasks.SubmitFill(c.Request().Context(), processID, req.SessionID, req.FormID, token, useAI); err != nil {
				return errorResponse(c, requestID, utils.NewInternalServerError("could not queue fill: "+err.Error()))
			}
			return c.JSON(http.StatusAccepted, models.AsyncAcceptedResponse{
				ProcessID: processID,
				Status:    "ACCEPTED",
				Message:   "Fill accepted for background processing",
			})
		}

		result, err := eng.Fill(c.Request().Context(), req.SessionID, req.FormID, token, useAI)
		if err != nil {
			return errorResponse(c, requestID, err)
		}
		result.ProcessingTime = time.Since(startTime)
		result.RequestID = requestID

		logger.Info("Fill request completed", map[string]interface{}{
			"session_id":   req.SessionID,
			"form_id":      result.FormID,
			"filled":       result.FilledCount,
			"total":        result.TotalFields,
			"ai_generated": result.AIGenerated,
			"duration":     utils.FormatDuration(time.Since(startTime)),
		})
		return c.JSON(http.StatusOK, result)
	}
}

// GenerateContentHandler serves single-field generation requests.
func GenerateContentHandler(eng *engine.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := requestIDFrom(c)

		var req models.GenerateContentRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, requestID, "invalid_request", "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return errorResponse(c, requestID, utils.NewValidationError(err.Error()))
		}

		token := bearerToken(c)
		if token == "" {
			return errorResponse(c, requestID, utils.NewAuthInvalidError("missing bearer token"))
		}

		resp, err := eng.GenerateContent(c.Request().Context(), token, &req)
		if err != nil {
			return errorResponse(c, requestID, err)
		}
		return c.JSON(http.StatusOK, resp)
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
