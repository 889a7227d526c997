package engine

import (
	"sync"

	"jobfill/internal/logging"
	"jobfill/pkg/models"
)

// Observer turns mutation notifications into debounced re-scans. Each
// session has one pending timer; a burst of mutations collapses into a
// single re-scan using the latest snapshot received. Re-scans fully
// replace the session's detected forms, never merge.
type Observer struct {
	engine *Engine
	clock  Clock
	logger logging.Logger

	mu       sync.Mutex
	pending  map[string]*models.MutationNotification
	debounce map[string]*Debouncer
}

// NewObserver creates a change observer bound to the engine.
func NewObserver(engine *Engine, clock Clock) *Observer {
	return &Observer{
		engine:   engine,
		clock:    clock,
		logger:   logging.GetGlobalLogger(),
		pending:  make(map[string]*models.MutationNotification),
		debounce: make(map[string]*Debouncer),
	}
}

// Notify records a mutation for the session. Only mutations that added a
// form (or arrived with a fresh snapshot) schedule a re-scan; attribute
// churn without structural change is ignored.
func (o *Observer) Notify(notification *models.MutationNotification) {
	if notification.AddedForms == 0 && notification.HTML == "" {
		return
	}

	o.mu.Lock()
	o.pending[notification.SessionID] = notification
	deb, ok := o.debounce[notification.SessionID]
	if !ok {
		sessionID := notification.SessionID
		deb = NewDebouncer(o.engine.cfg.Engine.RescanDebounce, o.clock, func() {
			o.flush(sessionID)
		})
		o.debounce[notification.SessionID] = deb
	}
	o.mu.Unlock()

	deb.Trigger()
}

// flush runs the coalesced re-scan for one session.
func (o *Observer) flush(sessionID string) {
	o.mu.Lock()
	notification := o.pending[sessionID]
	delete(o.pending, sessionID)
	o.mu.Unlock()

	if notification == nil {
		return
	}

	o.logger.Debug("Debounced re-scan firing", map[string]interface{}{
		"session_id":  sessionID,
		"added_forms": notification.AddedForms,
	})

	if _, err := o.engine.AnalyzeSnapshot(sessionID, notification.HTML, notification.PageURL, notification.PageTitle); err != nil {
		o.logger.Warn("Re-scan after mutation failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
}

// Stop cancels all pending re-scans.
func (o *Observer) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, deb := range o.debounce {
		deb.Cancel()
	}
}
