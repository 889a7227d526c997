package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobfill/internal/ai"
	"jobfill/internal/config"
	"jobfill/internal/session"
	"jobfill/pkg/models"
)

const applicationPage = `
<html>
<head><title>Senior Go Engineer | Example Co</title></head>
<body>
<h1 class="job-title">Senior Go Engineer</h1>
<form action="/careers/apply" method="post">
	<h2>Job Application</h2>
	<label for="fn">First Name</label><input type="text" id="fn" name="first_name" required>
	<label for="em">Email</label><input type="email" id="em" name="email" required>
	<label for="res">Upload Resume</label><input type="file" id="res" name="resume">
	<label for="why">Why do you want to work here?</label><textarea id="why" name="why_us"></textarea>
	<label for="team">How do you collaborate with a team?</label><textarea id="team" name="teamwork"></textarea>
	<button type="submit">Submit Application</button>
</form>
</body>
</html>`

const quickApplyPage = `
<html>
<head><title>Quick Apply</title></head>
<body>
<form action="/apply" method="post">
	<p>Submit your application</p>
	<label>First Name <input type="text" name="first_name"></label>
	<label>Last Name <input type="text" name="last_name"></label>
	<label>Email <input type="email" name="email"></label>
	<label>Resume <input type="file" name="resume"></label>
	<button type="submit">Apply Now</button>
</form>
</body>
</html>`

// newPlatformServer fakes the job platform: auth, profile and content
// generation. Essays whose question mentions "team" fail, exercising the
// per-field isolation path.
func newPlatformServer(t *testing.T) *httptest.Server {
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
		json.NewEncoder(w).Encode(models.AuthUser{UserID: "u1", Email: "ada@example.com"})
	})
	mux.HandleFunc("/api/users/u1/profile", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.UserProfileRecord{
			UserID:    "u1",
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
		})
	})
	mux.HandleFunc("/api/ai/answer-essay-question", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		json.NewDecoder(r.Body).Decode(&payload)
		question, _ := payload["question"].(string)
		if strings.Contains(strings.ToLower(question), "team") {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(models.AIContentResponse{
			Success:   true,
			Content:   "I admire the engineering culture at Example Co.",
			WordCount: 8,
		})
	})
	return httptest.NewServer(mux)
}

func newTestEngine(t *testing.T, platformURL string) *Engine {
	t.Helper()
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.Session.BaseURL = platformURL
	cfg.AI.Provider = "platform"
	cfg.AI.BaseURL = platformURL

	aiManager := ai.NewManager(cfg)
	require.NoError(t, aiManager.Start())

	return New(cfg, aiManager, session.NewClient(cfg))
}

func TestRegisterCheckAndSet(t *testing.T) {
	srv := newPlatformServer(t)
	defer srv.Close()
	eng := newTestEngine(t, srv.URL)

	assert.True(t, eng.Register("sess_1"))
	assert.False(t, eng.Register("sess_1"), "second registration reuses existing state")
	assert.True(t, eng.Register("sess_2"))
}

func TestAnalyzeSnapshotAndForms(t *testing.T) {
	srv := newPlatformServer(t)
	defer srv.Close()
	eng := newTestEngine(t, srv.URL)

	forms, err := eng.AnalyzeSnapshot("sess_1", applicationPage, "https://example.com/jobs/1", "Senior Go Engineer | Example Co")
	require.NoError(t, err)
	require.Len(t, forms, 1)
	assert.Equal(t, models.FormTypeFullApplication, forms[0].FormType)

	got, err := eng.Forms("sess_1")
	require.NoError(t, err)
	assert.Equal(t, forms[0].ID, got[0].ID)

	jobData, err := eng.JobData("sess_1")
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Engineer", jobData.Title)
}

func TestFormsUnknownSession(t *testing.T) {
	srv := newPlatformServer(t)
	defer srv.Close()
	eng := newTestEngine(t, srv.URL)

	_, err := eng.Forms("nope")
	assert.Error(t, err)
}

func TestFillProfileOnly(t *testing.T) {
	srv := newPlatformServer(t)
	defer srv.Close()
	eng := newTestEngine(t, srv.URL)

	_, err := eng.AnalyzeSnapshot("sess_1", applicationPage, "https://example.com/jobs/1", "")
	require.NoError(t, err)

	resp, err := eng.Fill(context.Background(), "sess_1", "", "good-token", false)
	require.NoError(t, err)

	assert.True(t, resp.Success)
	byField := map[string]models.FieldResult{}
	for _, r := range resp.Results {
		byField[r.FieldName] = r
	}

	assert.Equal(t, models.FieldFilled, byField["first_name"].Status)
	assert.Equal(t, "Ada", byField["first_name"].Value)
	assert.Equal(t, models.FieldFilled, byField["email"].Status)
	// Essays stay untouched without the AI path.
	assert.Equal(t, models.FieldSkipped, byField["why_us"].Status)
	assert.Equal(t, models.FieldSkipped, byField["teamwork"].Status)
	assert.Equal(t, 0, resp.AIGenerated)
}

func TestFillWithAIFailureIsolation(t *testing.T) {
	srv := newPlatformServer(t)
	defer srv.Close()
	eng := newTestEngine(t, srv.URL)

	_, err := eng.AnalyzeSnapshot("sess_1", applicationPage, "https://example.com/jobs/1", "")
	require.NoError(t, err)

	resp, err := eng.Fill(context.Background(), "sess_1", "", "good-token", true)
	require.NoError(t, err)
	assert.True(t, resp.Success)

	byField := map[string]models.FieldResult{}
	for _, r := range resp.Results {
		byField[r.FieldName] = r
	}

	// One essay generates, the other fails; profile fields are untouched by
	// the failure.
	assert.Equal(t, models.FieldFilled, byField["why_us"].Status)
	assert.Equal(t, models.FillSourceAI, byField["why_us"].Source)
	assert.Equal(t, models.FieldErrored, byField["teamwork"].Status)
	assert.NotEmpty(t, byField["teamwork"].Error)
	assert.Equal(t, models.FieldFilled, byField["first_name"].Status)
	assert.Equal(t, 1, resp.AIGenerated)
}

func TestFillRejectsBadToken(t *testing.T) {
	srv := newPlatformServer(t)
	defer srv.Close()
	eng := newTestEngine(t, srv.URL)

	_, err := eng.AnalyzeSnapshot("sess_1", applicationPage, "https://example.com/jobs/1", "")
	require.NoError(t, err)

	_, err = eng.Fill(context.Background(), "sess_1", "", "bad-token", false)
	assert.Error(t, err)
}

func TestFillUnknownFormID(t *testing.T) {
	srv := newPlatformServer(t)
	defer srv.Close()
	eng := newTestEngine(t, srv.URL)

	_, err := eng.AnalyzeSnapshot("sess_1", applicationPage, "https://example.com/jobs/1", "")
	require.NoError(t, err)

	_, err = eng.Fill(context.Background(), "sess_1", "form_deadbeef", "good-token", false)
	assert.Error(t, err)
}

func TestSubmitPlan(t *testing.T) {
	srv := newPlatformServer(t)
	defer srv.Close()
	eng := newTestEngine(t, srv.URL)

	forms, err := eng.AnalyzeSnapshot("sess_1", applicationPage, "https://example.com/jobs/1", "")
	require.NoError(t, err)
	require.Len(t, forms, 1)

	plan, err := eng.SubmitPlan("sess_1", forms[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "/careers/apply", plan.Action)
	assert.Equal(t, "post", strings.ToLower(plan.Method))
	assert.NotEmpty(t, plan.SubmitSelector)
}

// A debounced burst of mutations yields exactly one re-scan, and that
// re-scan replaces the detection set instead of merging with it.
func TestObserverDebouncedFullReplacement(t *testing.T) {
	srv := newPlatformServer(t)
	defer srv.Close()
	eng := newTestEngine(t, srv.URL)

	first, err := eng.AnalyzeSnapshot("sess_1", applicationPage, "https://example.com/jobs/1", "")
	require.NoError(t, err)
	require.Len(t, first, 1)
	oldID := first[0].ID

	clock := &fakeClock{}
	obs := NewObserver(eng, clock)

	notification := &models.MutationNotification{
		SessionID:  "sess_1",
		AddedForms: 1,
		HTML:       quickApplyPage,
		PageURL:    "https://example.com/jobs/1",
		PageTitle:  "Quick Apply",
	}
	obs.Notify(notification)
	obs.Notify(notification)
	obs.Notify(notification)

	// Still the old state until the quiet window elapses.
	current, err := eng.Forms("sess_1")
	require.NoError(t, err)
	assert.Equal(t, oldID, current[0].ID)

	clock.advance()

	replaced, err := eng.Forms("sess_1")
	require.NoError(t, err)
	require.Len(t, replaced, 1, "re-scan replaces, never appends")
	assert.NotEqual(t, oldID, replaced[0].ID)
	assert.Equal(t, models.FormTypeQuickApply, replaced[0].FormType)
}

func TestObserverIgnoresNonStructuralMutations(t *testing.T) {
	srv := newPlatformServer(t)
	defer srv.Close()
	eng := newTestEngine(t, srv.URL)

	_, err := eng.AnalyzeSnapshot("sess_1", applicationPage, "https://example.com/jobs/1", "")
	require.NoError(t, err)

	clock := &fakeClock{}
	obs := NewObserver(eng, clock)
	obs.Notify(&models.MutationNotification{SessionID: "sess_1"})
	clock.advance()

	forms, err := eng.Forms("sess_1")
	require.NoError(t, err)
	assert.Equal(t, models.FormTypeFullApplication, forms[0].FormType)
}

func TestFormsReturnsCopy(t *testing.T) {
	srv := newPlatformServer(t)
	defer srv.Close()
	eng := newTestEngine(t, srv.URL)

	_, err := eng.AnalyzeSnapshot("sess_1", applicationPage, "https://example.com/jobs/1", "")
	require.NoError(t, err)

	forms, err := eng.Forms("sess_1")
	require.NoError(t, err)
	forms[0].FormType = models.FormTypeBasicForm

	again, err := eng.Forms("sess_1")
	require.NoError(t, err)
	assert.Equal(t, models.FormTypeFullApplication, again[0].FormType)
}

// Re-scans arrive from both HTTP handlers and the observer's debounce
// timer while other requests read the same session; every page read must
// see either the old state or the new one, never a mix.
func TestConcurrentRescanAndReads(t *testing.T) {
	srv := newPlatformServer(t)
	defer srv.Close()
	eng := newTestEngine(t, srv.URL)

	_, err := eng.AnalyzeSnapshot("sess_1", applicationPage, "https://example.com/jobs/1", "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			page := applicationPage
			if n%2 == 0 {
				page = quickApplyPage
			}
			for j := 0; j < 25; j++ {
				_, scanErr := eng.AnalyzeSnapshot("sess_1", page, "https://example.com/jobs/1", "")
				assert.NoError(t, scanErr)
			}
		}(i)
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				forms, readErr := eng.Forms("sess_1")
				if assert.NoError(t, readErr) {
					assert.Len(t, forms, 1)
					assert.NotEmpty(t, forms[0].ID)
					assert.NotEmpty(t, forms[0].Fields)
				}
				_, jdErr := eng.JobData("sess_1")
				assert.NoError(t, jdErr)
			}
		}()
	}
	wg.Wait()

	forms, err := eng.Forms("sess_1")
	require.NoError(t, err)
	require.Len(t, forms, 1)
}

func TestConcurrentFillAndRescan(t *testing.T) {
	srv := newPlatformServer(t)
	defer srv.Close()
	eng := newTestEngine(t, srv.URL)

	_, err := eng.AnalyzeSnapshot("sess_1", applicationPage, "https://example.com/jobs/1", "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 10; i++ {
			_, scanErr := eng.AnalyzeSnapshot("sess_1", applicationPage, "https://example.com/jobs/1", "")
			assert.NoError(t, scanErr)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 10; i++ {
			resp, fillErr := eng.Fill(context.Background(), "sess_1", "", "good-token", false)
			if assert.NoError(t, fillErr) {
				assert.True(t, resp.Success)
				assert.Equal(t, 5, resp.TotalFields)
			}
		}
	}()
	wg.Wait()
}
