package handlers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"jobfill/internal/api/validation"
	"jobfill/internal/engine"
	"jobfill/internal/logging"
	"jobfill/pkg/models"
	"jobfill/pkg/utils"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	validation.RegisterEngineValidators(v)
	return v
}

// AnalyzeHandler runs one detection cycle over a host-provided snapshot.
func AnalyzeHandler(eng *engine.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		startTime := time.Now()
		requestID := requestIDFrom(c)
		logger := logging.LogWithRequestID(requestID)

		var req models.AnalyzeRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, requestID, "invalid_request", "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return errorResponse(c, requestID, utils.NewValidationError(err.Error()))
		}

		forms, err := eng.AnalyzeSnapshot(req.SessionID, req.HTML, req.PageURL, req.PageTitle)
		if err != nil {
			return errorResponse(c, requestID, err)
		}

		jobData, _ := eng.JobData(req.SessionID)

		logger.Info("Snapshot analyzed", map[string]interface{}{
			"session_id":     req.SessionID,
			"forms_detected": len(forms),
			"duration":       utils.FormatDuration(time.Since(startTime)),
		})

		return c.JSON(http.StatusOK, models.AnalyzeResponse{
			Success:        true,
			Forms:          forms,
			JobData:        jobData,
			ProcessingTime: time.Since(startTime),
			RequestID:      requestID,
		})
	}
}

// AnalyzeURLHandler loads a page server-side and analyzes it. With async
// set, the load runs as a background task and the caller polls for the
// result.
func AnalyzeURLHandler(eng *engine.Engine, tasks taskSubmitter) echo.HandlerFunc {
	return func(c echo.Context) error {
		startTime := time.Now()
		requestID := requestIDFrom(c)
		logger := logging.LogWithRequestID(requestID)

		var req models.AnalyzeURLRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, requestID, "invalid_request", "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return errorResponse(c, requestID, utils.NewValidationError(err.Error()))
		}

		// URL analysis gets a synthetic session keyed to the process id.
		sessionID := "url_" + uuid.New().String()[:8]

		if isAsync(c) {
			processID := utils.GenerateRequestID()
			err := tasks.SubmitAnalyze(c.Request().Context(), processID, sessionID, &req)
			if err != nil {
				return errorResponse(c, requestID, utils.NewInternalServerError("could not queue analysis: "+err.Error()))
			}
			return c.JSON(http.StatusAccepted, models.AsyncAcceptedResponse{
				ProcessID: processID,
				Status:    "ACCEPTED",
				Message:   "Analysis accepted for background processing",
			})
		}

		forms, engineUsed, err := eng.AnalyzeURL(c.Request().Context(), sessionID, &req)
		if err != nil {
			return errorResponse(c, requestID, err)
		}

		jobData, _ := eng.JobData(sessionID)

		logger.Info("URL analyzed", map[string]interface{}{
			"url":            req.URL,
			"engine":         engineUsed,
			"forms_detected": len(forms),
			"duration":       utils.FormatDuration(time.Since(startTime)),
		})

		return c.JSON(http.StatusOK, models.AnalyzeResponse{
			Success:        true,
			Forms:          forms,
			JobData:        jobData,
			Engine:         engineUsed,
			ProcessingTime: time.Since(startTime),
			RequestID:      requestID,
		})
	}
}

// FormsHandler returns the current detection set for a session.
func FormsHandler(eng *engine.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := requestIDFrom(c)

		forms, err := eng.Forms(c.Param("session"))
		if err != nil {
			return errorResponse(c, requestID, err)
		}
		return c.JSON(http.StatusOK, models.AnalyzeResponse{
			Success:   true,
			Forms:     forms,
			RequestID: requestID,
		})
	}
}

func isAsync(c echo.Context) bool {
	return c.QueryParam("async") == "true"
}

func requestIDFrom(c echo.Context) string {
	if id, ok := c.Get("request_id").(string); ok && id != "" {
		return id
	}
	return utils.GenerateRequestID()
}

func badRequest(c echo.Context, requestID, code, message string) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:     code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}

// errorResponse maps engine errors onto their HTTP status, falling back
// to 500 for anything untyped.
func errorResponse(c echo.Context, requestID string, err error) error {
	if customErr, ok := err.(*utils.CustomError); ok {
		return c.JSON(customErr.Code, models.ErrorResponse{
			Error:     http.StatusText(customErr.Code),
			Message:   customErr.Error(),
			RequestID: requestID,
			Timestamp: time.Now(),
		})
	}
	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:     "internal_error",
		Message:   err.Error(),
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}
