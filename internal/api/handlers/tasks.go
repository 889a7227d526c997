package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"jobfill/internal/background"
	"jobfill/internal/engine"
	"jobfill/pkg/models"
)

// taskSubmitter is the slice of async behavior the handlers need.
type taskSubmitter interface {
	SubmitAnalyze(ctx context.Context, processID, sessionID string, req *models.AnalyzeURLRequest) error
	SubmitFill(ctx context.Context, processID, sessionID, formID, token string, withAI bool) error
}

// TaskService bridges HTTP handlers and the background task manager,
// wrapping engine calls into task executions.
type TaskService struct {
	engine  *engine.Engine
	manager background.TaskManager
}

// NewTaskService creates a new task service instance
func NewTaskService(eng *engine.Engine, manager background.TaskManager) *TaskService {
	return &TaskService{engine: eng, manager: manager}
}

// SubmitAnalyze queues a background analyze-by-URL task.
func (ts *TaskService) SubmitAnalyze(ctx context.Context, processID, sessionID string, req *models.AnalyzeURLRequest) error {
	metadata := map[string]interface{}{
		"url":        req.URL,
		"session_id": sessionID,
	}
	return ts.manager.Submit(ctx, processID, background.TaskTypeAnalyze, metadata, func(taskCtx context.Context) (interface{}, error) {
		forms, engineUsed, err := ts.engine.AnalyzeURL(taskCtx, sessionID, req)
		if err != nil {
			return nil, err
		}
		jobData, _ := ts.engine.JobData(sessionID)
		return models.AnalyzeResponse{
			Success: true,
			Forms:   forms,
			JobData: jobData,
			Engine:  engineUsed,
		}, nil
	})
}

// SubmitFill queues a background fill task.
func (ts *TaskService) SubmitFill(ctx context.Context, processID, sessionID, formID, token string, withAI bool) error {
	metadata := map[string]interface{}{
		"session_id": sessionID,
		"form_id":    formID,
		"with_ai":    withAI,
	}
	return ts.manager.Submit(ctx, processID, background.TaskTypeFill, metadata, func(taskCtx context.Context) (interface{}, error) {
		return ts.engine.Fill(taskCtx, sessionID, formID, token, withAI)
	})
}

// TaskStatusHandler returns the stored result of a background task.
func TaskStatusHandler(manager background.TaskManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := requestIDFrom(c)
		processID := c.Param("id")

		result, err := manager.GetTaskResult(c.Request().Context(), processID)
		if err != nil {
			if err == background.ErrTaskNotFound {
				return c.JSON(http.StatusNotFound, models.ErrorResponse{
					Error:     "task_not_found",
					Message:   "No task with that process id",
					RequestID: requestID,
				})
			}
			return errorResponse(c, requestID, err)
		}
		return c.JSON(http.StatusOK, result)
	}
}
