package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobfill/internal/ai"
	"jobfill/internal/background"
	"jobfill/internal/config"
	"jobfill/internal/engine"
	"jobfill/internal/session"
	"jobfill/pkg/models"
)

const snapshotHTML = `
<html><head><title>Apply</title></head><body>
<form action="/careers/apply" method="post">
	<h2>Job Application</h2>
	<label>First Name <input type="text" name="first_name"></label>
	<label>Email <input type="email" name="email"></label>
	<label>Resume <input type="file" name="resume"></label>
	<button type="submit">Submit Application</button>
</form>
</body></html>`

func newPlatformStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/auth/verify", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(models.AuthUser{UserID: "u1"})
	})
	mux.HandleFunc("/api/users/u1/profile", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.UserProfileRecord{
			UserID: "u1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		})
	})
	return httptest.NewServer(mux)
}

type testHarness struct {
	engine  *engine.Engine
	service *TaskService
	echo    *echo.Echo
}

func newHarness(t *testing.T, platformURL string) *testHarness {
	t.Helper()
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.Session.BaseURL = platformURL
	cfg.AI.Provider = "platform"
	cfg.AI.BaseURL = platformURL

	aiManager := ai.NewManager(cfg)
	require.NoError(t, aiManager.Start())

	eng := engine.New(cfg, aiManager, session.NewClient(cfg))

	tm := background.NewTaskManager(cfg)
	require.NoError(t, tm.Start(context.Background()))
	t.Cleanup(func() { tm.Stop(context.Background()) })

	return &testHarness{
		engine:  eng,
		service: NewTaskService(eng, tm),
		echo:    echo.New(),
	}
}

func TestAnalyzeHandler(t *testing.T) {
	srv := newPlatformStub(t)
	defer srv.Close()
	h := newHarness(t, srv.URL)

	body, _ := json.Marshal(models.AnalyzeRequest{
		SessionID: "sess_1",
		HTML:      snapshotHTML,
		PageURL:   "https://example.com/jobs/1",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(string(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := h.echo.NewContext(req, rec)

	require.NoError(t, AnalyzeHandler(h.engine)(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Forms, 1)
	assert.Equal(t, models.FormTypeFullApplication, resp.Forms[0].FormType)
	assert.NotEmpty(t, resp.RequestID)
}

func TestAnalyzeHandlerRejectsBadSessionID(t *testing.T) {
	srv := newPlatformStub(t)
	defer srv.Close()
	h := newHarness(t, srv.URL)

	body := `{"session_id":"!!","html":"<html></html>"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := h.echo.NewContext(req, rec)

	require.NoError(t, AnalyzeHandler(h.engine)(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var errBody models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	assert.Contains(t, errBody.Message, "Validation failed")
}

func TestFormsHandler(t *testing.T) {
	srv := newPlatformStub(t)
	defer srv.Close()
	h := newHarness(t, srv.URL)

	_, err := h.engine.AnalyzeSnapshot("sess_1", snapshotHTML, "https://example.com/jobs/1", "")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/forms/sess_1", nil)
	rec := httptest.NewRecorder()
	c := h.echo.NewContext(req, rec)
	c.SetParamNames("session")
	c.SetParamValues("sess_1")

	require.NoError(t, FormsHandler(h.engine)(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Forms, 1)
}

func TestFillHandlerRequiresToken(t *testing.T) {
	srv := newPlatformStub(t)
	defer srv.Close()
	h := newHarness(t, srv.URL)

	body := `{"session_id":"sess_1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/fill", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := h.echo.NewContext(req, rec)

	require.NoError(t, FillHandler(h.engine, h.service, false)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFillHandlerSync(t *testing.T) {
	srv := newPlatformStub(t)
	defer srv.Close()
	h := newHarness(t, srv.URL)

	_, err := h.engine.AnalyzeSnapshot("sess_1", snapshotHTML, "https://example.com/jobs/1", "")
	require.NoError(t, err)

	body := `{"session_id":"sess_1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/fill", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good-token")
	rec := httptest.NewRecorder()
	c := h.echo.NewContext(req, rec)

	require.NoError(t, FillHandler(h.engine, h.service, false)(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.FillResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.TotalFields)
	assert.GreaterOrEqual(t, resp.FilledCount, 2)
}

func TestMessagesHandlerGetForms(t *testing.T) {
	srv := newPlatformStub(t)
	defer srv.Close()
	h := newHarness(t, srv.URL)

	_, err := h.engine.AnalyzeSnapshot("sess_1", snapshotHTML, "https://example.com/jobs/1", "")
	require.NoError(t, err)

	body := `{"type":"GET_FORMS","session_id":"sess_1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := h.echo.NewContext(req, rec)

	require.NoError(t, MessagesHandler(h.engine)(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HostResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, MsgGetForms, resp.Type)
}

func TestMessagesHandlerFillCurrentForm(t *testing.T) {
	srv := newPlatformStub(t)
	defer srv.Close()
	h := newHarness(t, srv.URL)

	_, err := h.engine.AnalyzeSnapshot("sess_1", snapshotHTML, "https://example.com/jobs/1", "")
	require.NoError(t, err)

	body := `{"type":"FILL_CURRENT_FORM","session_id":"sess_1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good-token")
	rec := httptest.NewRecorder()
	c := h.echo.NewContext(req, rec)

	require.NoError(t, MessagesHandler(h.engine)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMessagesHandlerUnknownType(t *testing.T) {
	srv := newPlatformStub(t)
	defer srv.Close()
	h := newHarness(t, srv.URL)

	body := `{"type":"RUN_MARATHON","session_id":"sess_1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := h.echo.NewContext(req, rec)

	require.NoError(t, MessagesHandler(h.engine)(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMessagesHandlerSubmitPlan(t *testing.T) {
	srv := newPlatformStub(t)
	defer srv.Close()
	h := newHarness(t, srv.URL)

	forms, err := h.engine.AnalyzeSnapshot("sess_1", snapshotHTML, "https://example.com/jobs/1", "")
	require.NoError(t, err)

	body, _ := json.Marshal(map[string]interface{}{
		"type":       MsgSubmitForm,
		"session_id": "sess_1",
		"payload":    map[string]string{"form_id": forms[0].ID},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(string(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := h.echo.NewContext(req, rec)

	require.NoError(t, MessagesHandler(h.engine)(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HostResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	raw, _ := json.Marshal(resp.Data)
	var plan models.SubmitPlan
	require.NoError(t, json.Unmarshal(raw, &plan))
	assert.Equal(t, "/careers/apply", plan.Action)
}

func TestTaskStatusHandlerNotFound(t *testing.T) {
	srv := newPlatformStub(t)
	defer srv.Close()
	h := newHarness(t, srv.URL)

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	tm := background.NewTaskManager(cfg)
	require.NoError(t, tm.Start(context.Background()))
	defer tm.Stop(context.Background())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/proc_missing", nil)
	rec := httptest.NewRecorder()
	c := h.echo.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("proc_missing")

	require.NoError(t, TaskStatusHandler(tm)(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
