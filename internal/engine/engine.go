package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobfill/internal/ai"
	"jobfill/internal/analyzer"
	"jobfill/internal/config"
	"jobfill/internal/dom"
	"jobfill/internal/fill"
	"jobfill/internal/jobdata"
	"jobfill/internal/logging"
	"jobfill/internal/page"
	"jobfill/internal/session"
	"jobfill/pkg/models"
	"jobfill/pkg/utils"
)

// pageSession is the engine's working state for one host page. It is
// rebuilt wholesale on every scan; a fill that arrives after a mutation
// re-resolves every element against the current snapshot. The session
// mutex serializes snapshot replacement against fills and submit-plan
// reads: the executor writes into the document, so doc access must not
// interleave with a re-scan swapping it out underneath.
type pageSession struct {
	id        string
	createdAt time.Time

	mu        sync.Mutex
	doc       *dom.Document
	forms     []models.DetectedForm
	jobData   models.JobData
	stale     bool
	updatedAt time.Time
}

// state returns a consistent view of the session's detection state. The
// forms slice is copied so callers can hand it out without racing the
// next re-scan.
func (s *pageSession) state() (*dom.Document, []models.DetectedForm, models.JobData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return nil, nil, models.JobData{}, utils.NewDetectionEmptyError(fmt.Sprintf("no analyzed page for session %s", s.id))
	}
	forms := make([]models.DetectedForm, len(s.forms))
	copy(forms, s.forms)
	return s.doc, forms, s.jobData, nil
}

// Engine ties the detection and fill pipeline together and owns the
// per-session state registry. Session creation is check-and-set: a second
// registration of the same session id reuses the existing state instead of
// stacking a duplicate.
type Engine struct {
	cfg          *config.Config
	analyzer     *analyzer.Analyzer
	executor     *fill.Executor
	aiManager    *ai.Manager
	sessions     *session.Client
	jobExtractor *jobdata.Extractor
	observer     *Observer
	logger       logging.Logger

	mu      sync.RWMutex
	pages   map[string]*pageSession
	loaders map[string]page.Loader
	loadMu  sync.Mutex
}

// New creates the engine with its collaborators wired in.
func New(cfg *config.Config, aiManager *ai.Manager, sessionClient *session.Client) *Engine {
	e := &Engine{
		cfg:          cfg,
		analyzer:     analyzer.New(cfg),
		executor:     fill.NewExecutor(cfg),
		aiManager:    aiManager,
		sessions:     sessionClient,
		jobExtractor: jobdata.NewExtractor(),
		logger:       logging.GetGlobalLogger(),
		pages:        make(map[string]*pageSession),
		loaders:      make(map[string]page.Loader),
	}
	e.observer = NewObserver(e, NewRealClock())
	return e
}

// Register ensures a session exists. Returns true when this call created
// it, false when it already existed.
func (e *Engine) Register(sessionID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.pages[sessionID]; exists {
		return false
	}
	e.pages[sessionID] = &pageSession{
		id:        sessionID,
		createdAt: time.Now(),
	}
	return true
}

// AnalyzeSnapshot runs one detection cycle over a host-provided snapshot
// and replaces the session's state with the result.
func (e *Engine) AnalyzeSnapshot(sessionID, html, pageURL, pageTitle string) ([]models.DetectedForm, error) {
	doc, err := dom.Parse(html, pageURL, pageTitle)
	if err != nil {
		return nil, utils.NewBadRequestError(fmt.Sprintf("unparseable snapshot: %v", err))
	}

	forms := e.analyzer.Analyze(doc)
	jobData := e.jobExtractor.Extract(doc)

	e.mu.Lock()
	sess, exists := e.pages[sessionID]
	if !exists {
		sess = &pageSession{id: sessionID, createdAt: time.Now()}
		e.pages[sessionID] = sess
	}
	e.mu.Unlock()

	sess.mu.Lock()
	sess.doc = doc
	sess.forms = forms
	sess.jobData = jobData
	sess.stale = false
	sess.updatedAt = time.Now()
	sess.mu.Unlock()

	return forms, nil
}

// AnalyzeURL loads the page server-side and analyzes the rendered snapshot.
func (e *Engine) AnalyzeURL(ctx context.Context, sessionID string, req *models.AnalyzeURLRequest) ([]models.DetectedForm, string, error) {
	engineName := e.cfg.Loader.Engine
	if req.Options != nil && req.Options.Engine != "" {
		engineName = req.Options.Engine
	}

	loader, err := e.getLoader(engineName)
	if err != nil {
		return nil, "", utils.NewBadRequestError(err.Error())
	}

	loaded, err := loader.LoadPage(ctx, req.URL)
	if err != nil {
		return nil, loader.Name(), err
	}

	forms, err := e.AnalyzeSnapshot(sessionID, loaded.HTML, loaded.URL, loaded.Title)
	return forms, loader.Name(), err
}

// Forms returns the current detection set for a session.
func (e *Engine) Forms(sessionID string) ([]models.DetectedForm, error) {
	sess, err := e.session(sessionID)
	if err != nil {
		return nil, err
	}
	_, forms, _, err := sess.state()
	return forms, err
}

// JobData returns the job posting snapshot extracted for a session.
func (e *Engine) JobData(sessionID string) (*models.JobData, error) {
	sess, err := e.session(sessionID)
	if err != nil {
		return nil, err
	}
	_, _, jobData, err := sess.state()
	if err != nil {
		return nil, err
	}
	return &jobData, nil
}

// Fill resolves values for one detected form and executes the fill.
// Profile mapping always runs; WithAI additionally routes essay-class
// fields through content generation with per-field failure isolation.
func (e *Engine) Fill(ctx context.Context, sessionID, formID, token string, withAI bool) (*models.FillResponse, error) {
	sess, err := e.session(sessionID)
	if err != nil {
		return nil, err
	}

	// Held for the whole fill so a debounced re-scan cannot replace the
	// document while the executor is writing into it. A mutation that
	// lands mid-fill supersedes this state as soon as the fill returns.
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.doc == nil {
		return nil, utils.NewDetectionEmptyError(fmt.Sprintf("no analyzed page for session %s", sessionID))
	}
	form, err := e.findForm(sess, formID)
	if err != nil {
		return nil, err
	}

	user, err := e.sessions.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	// No profile means neither mapping nor generation can run, so this is
	// the one failure that aborts the whole fill.
	profile, err := e.sessions.FetchProfile(ctx, user.UserID, token)
	if err != nil {
		return nil, err
	}

	values := make(map[string]fill.ResolvedValue, len(form.Fields))
	for _, field := range form.Fields {
		key := fill.FieldKey(field)
		if field.IsEssayQuestion {
			if !withAI {
				values[key] = fill.ResolvedValue{Source: models.FillSourceNone}
				continue
			}
			resp, genErr := e.aiManager.GenerateForField(ctx, field, sess.jobData, user.UserID, token)
			if genErr != nil {
				values[key] = fill.ResolvedValue{Source: models.FillSourceAI, Err: genErr}
				continue
			}
			values[key] = fill.ResolvedValue{Source: models.FillSourceAI, Value: resp.Content}
			continue
		}
		values[key] = fill.ResolvedValue{
			Source: models.FillSourceProfile,
			Value:  fill.MapProfileValue(field.FieldType, profile),
		}
	}

	return e.executor.Execute(sess.doc, form, values), nil
}

// GenerateContent serves one-off generation requests outside a fill cycle.
func (e *Engine) GenerateContent(ctx context.Context, token string, req *models.GenerateContentRequest) (*models.AIContentResponse, error) {
	user, err := e.sessions.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	jobData := req.JobData
	if jobData.IsEmpty() {
		if sess, sessErr := e.session(req.SessionID); sessErr == nil {
			if _, _, sessData, stateErr := sess.state(); stateErr == nil {
				jobData = sessData
			}
		}
	}

	field := models.FormField{
		Label:           req.FieldContext.Label,
		Placeholder:     req.FieldContext.Placeholder,
		MaxLength:       req.FieldContext.MaxLength,
		Required:        req.FieldContext.Required,
		FieldType:       req.FieldContext.FieldType,
		IsEssayQuestion: req.FieldContext.FieldType.IsEssay(),
	}
	return e.aiManager.GenerateForField(ctx, field, jobData, user.UserID, token)
}

// SubmitPlan describes how the host should submit a detected form. The
// engine never submits on its own.
func (e *Engine) SubmitPlan(sessionID, formID string) (*models.SubmitPlan, error) {
	sess, err := e.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.doc == nil {
		return nil, utils.NewDetectionEmptyError(fmt.Sprintf("no analyzed page for session %s", sessionID))
	}
	form, err := e.findForm(sess, formID)
	if err != nil {
		return nil, err
	}

	plan := &models.SubmitPlan{FormID: form.ID}
	if form.Origin == models.OriginVirtual {
		// Loose-input pages have no form element; the host clicks whatever
		// looks like a submit control.
		plan.SubmitSelector = "button[type=submit], input[type=submit], button"
		return plan, nil
	}

	for _, formSel := range sess.doc.Forms() {
		if !containsField(formSel, form.Fields) {
			continue
		}
		plan.Action, _ = formSel.Attr("action")
		plan.Method, _ = formSel.Attr("method")
		if plan.Method == "" {
			plan.Method = "GET"
		}
		if formSel.Find("button[type=submit], input[type=submit]").Length() > 0 {
			plan.SubmitSelector = "button[type=submit], input[type=submit]"
		}
		return plan, nil
	}
	return nil, utils.NewElementMissingError(fmt.Sprintf("form %s no longer present", formID))
}

// NotifyMutation feeds the change observer.
func (e *Engine) NotifyMutation(notification *models.MutationNotification) {
	if notification.HTML == "" && notification.AddedForms > 0 {
		// Structural change reported without a snapshot: the current state
		// can no longer be trusted, so mark it stale until the host sends
		// a fresh snapshot.
		e.mu.RLock()
		sess, ok := e.pages[notification.SessionID]
		e.mu.RUnlock()
		if ok {
			sess.mu.Lock()
			sess.stale = true
			sess.mu.Unlock()
		}
		return
	}
	e.observer.Notify(notification)
}

// Stats summarizes engine state for the status surface.
func (e *Engine) Stats() map[string]interface{} {
	e.mu.RLock()
	defer e.mu.RUnlock()

	totalForms := 0
	for _, sess := range e.pages {
		sess.mu.Lock()
		totalForms += len(sess.forms)
		sess.mu.Unlock()
	}
	return map[string]interface{}{
		"sessions":       len(e.pages),
		"detected_forms": totalForms,
	}
}

// Shutdown stops the observer and releases loaders.
func (e *Engine) Shutdown() {
	e.observer.Stop()

	e.loadMu.Lock()
	defer e.loadMu.Unlock()
	for _, loader := range e.loaders {
		loader.Cleanup()
	}
	e.loaders = make(map[string]page.Loader)
}

func (e *Engine) session(sessionID string) (*pageSession, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	sess, exists := e.pages[sessionID]
	if !exists {
		return nil, utils.NewDetectionEmptyError(fmt.Sprintf("no analyzed page for session %s", sessionID))
	}
	return sess, nil
}

// findForm picks the requested form, or the first detected one when no id
// is given (the FILL_CURRENT_FORM path). Callers hold sess.mu.
func (e *Engine) findForm(sess *pageSession, formID string) (*models.DetectedForm, error) {
	if len(sess.forms) == 0 {
		return nil, utils.NewDetectionEmptyError("no job application form detected on this page")
	}
	if formID == "" {
		return &sess.forms[0], nil
	}
	for i := range sess.forms {
		if sess.forms[i].ID == formID {
			return &sess.forms[i], nil
		}
	}
	return nil, utils.NewElementMissingError(fmt.Sprintf("form %s not found in current detection set", formID))
}

// containsField reports whether the form selection holds any of the
// detected fields, matching by name or id.
func containsField(formSel *goquery.Selection, fields []models.FormField) bool {
	for _, field := range fields {
		if field.Name != "" {
			if formSel.Find(fmt.Sprintf("[name=%q]", field.Name)).Length() > 0 {
				return true
			}
		}
		if field.ID != "" {
			if formSel.Find(fmt.Sprintf("[id=%q]", field.ID)).Length() > 0 {
				return true
			}
		}
	}
	return false
}

func (e *Engine) getLoader(engineName string) (page.Loader, error) {
	e.loadMu.Lock()
	defer e.loadMu.Unlock()

	if loader, ok := e.loaders[engineName]; ok {
		return loader, nil
	}

	cfgCopy := *e.cfg
	cfgCopy.Loader.Engine = engineName
	loader, err := page.NewLoader(&cfgCopy)
	if err != nil {
		return nil, err
	}
	e.loaders[engineName] = loader
	return loader, nil
}
