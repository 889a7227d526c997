package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobfill/internal/engine"
	"jobfill/internal/logging"
	"jobfill/pkg/models"
	"jobfill/pkg/utils"
)

// Host message types, one request/response pair each.
const (
	MsgGetForms          = "GET_FORMS"
	MsgReanalyzePage     = "REANALYZE_PAGE"
	MsgFillForm          = "FILL_FORM"
	MsgFillCurrentForm   = "FILL_CURRENT_FORM"
	MsgFillWithAI        = "FILL_WITH_AI"
	MsgGenerateAIContent = "GENERATE_AI_CONTENT"
	MsgExtractJobData    = "EXTRACT_JOB_DATA"
	MsgSubmitForm        = "SUBMIT_FORM"
)

// HostMessage is the typed envelope host runtimes send over the message
// channel. Payload decoding is per message type.
type HostMessage struct {
	Type      string          `json:"type" validate:"required"`
	SessionID string          `json:"session_id" validate:"required,session_id"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// HostResponse is the uniform reply envelope.
type HostResponse struct {
	Type      string      `json:"type"`
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	RequestID string      `json:"request_id"`
	Timestamp time.Time   `json:"timestamp"`
}

// MessagesHandler dispatches typed host messages to the engine. Handlers
// doing async work hold the HTTP channel open until resolution, mirroring
// a message port that stays open for the response.
func MessagesHandler(eng *engine.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := requestIDFrom(c)
		logger := logging.LogWithRequestID(requestID)

		var msg HostMessage
		if err := c.Bind(&msg); err != nil {
			return badRequest(c, requestID, "invalid_request", "Invalid message format")
		}
		if err := validate.Struct(&msg); err != nil {
			return errorResponse(c, requestID, utils.NewValidationError(err.Error()))
		}

		logger.Debug("Host message received", map[string]interface{}{
			"type":       msg.Type,
			"session_id": msg.SessionID,
		})

		data, err := dispatch(c, eng, &msg)
		resp := HostResponse{
			Type:      msg.Type,
			RequestID: requestID,
			Timestamp: time.Now(),
		}
		if err != nil {
			resp.Error = err.Error()
			code := http.StatusInternalServerError
			if customErr, ok := err.(*utils.CustomError); ok {
				code = customErr.Code
			}
			return c.JSON(code, resp)
		}

		resp.Success = true
		resp.Data = data
		return c.JSON(http.StatusOK, resp)
	}
}

func dispatch(c echo.Context, eng *engine.Engine, msg *HostMessage) (interface{}, error) {
	ctx := c.Request().Context()

	switch msg.Type {
	case MsgGetForms:
		return eng.Forms(msg.SessionID)

	case MsgReanalyzePage:
		var req models.AnalyzeRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return nil, utils.NewBadRequestError("REANALYZE_PAGE payload must carry a snapshot")
		}
		return eng.AnalyzeSnapshot(msg.SessionID, req.HTML, req.PageURL, req.PageTitle)

	case MsgFillForm, MsgFillCurrentForm, MsgFillWithAI:
		token := bearerToken(c)
		if token == "" {
			return nil, utils.NewAuthInvalidError("missing bearer token")
		}
		var req models.FillRequest
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &req); err != nil {
				return nil, utils.NewBadRequestError("invalid fill payload")
			}
		}
		formID := req.FormID
		if msg.Type == MsgFillCurrentForm {
			formID = ""
		}
		withAI := req.WithAI || msg.Type == MsgFillWithAI
		return eng.Fill(ctx, msg.SessionID, formID, token, withAI)

	case MsgGenerateAIContent:
		token := bearerToken(c)
		if token == "" {
			return nil, utils.NewAuthInvalidError("missing bearer token")
		}
		var req models.GenerateContentRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return nil, utils.NewBadRequestError("GENERATE_AI_CONTENT payload must carry field context")
		}
		req.SessionID = msg.SessionID
		return eng.GenerateContent(ctx, token, &req)

	case MsgExtractJobData:
		return eng.JobData(msg.SessionID)

	case MsgSubmitForm:
		var req struct {
			FormID string `json:"form_id"`
		}
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &req); err != nil {
				return nil, utils.NewBadRequestError("invalid submit payload")
			}
		}
		return eng.SubmitPlan(msg.SessionID, req.FormID)

	default:
		return nil, utils.NewBadRequestError("unknown message type: " + msg.Type)
	}
}
