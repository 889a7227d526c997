package fill

import (
	"jobfill/internal/config"
	"jobfill/internal/dom"
	"jobfill/internal/logging"
	"jobfill/pkg/models"
	"jobfill/pkg/utils"
)

// Host-side highlight colors per fill source. The engine reports the cue;
// the host runtime paints it and reverts after CueRevertAfter.
const (
	cueProfile = "#d4edda"
	cueAI      = "#cce5ff"
	cueError   = "#f8d7da"
)

// ResolvedValue is the value decided for one field before execution,
// either mapped from the profile or generated. A non-nil Err marks a field
// whose generation failed; it is reported but never blocks sibling fields.
type ResolvedValue struct {
	Value  string
	Source models.FillSource
	Err    error
}

// Executor writes resolved values into the page snapshot. Every element is
// re-resolved by name/id at write time; references captured during
// analysis are treated as stale.
type Executor struct {
	cfg    *config.Config
	logger logging.Logger
}

func NewExecutor(cfg *config.Config) *Executor {
	return &Executor{cfg: cfg, logger: logging.GetGlobalLogger()}
}

// Execute fills one detected form and returns the per-field report plus
// aggregate counts. A single failed field never aborts the batch.
func (e *Executor) Execute(doc *dom.Document, form *models.DetectedForm, values map[string]ResolvedValue) *models.FillResponse {
	resp := &models.FillResponse{
		FormID:         form.ID,
		TotalFields:    len(form.Fields),
		CueRevertAfter: e.cfg.Engine.HighlightRevert,
	}

	for _, field := range form.Fields {
		result := e.fillField(doc, field, values[fieldKey(field)])
		resp.Results = append(resp.Results, result)
		if result.Status == models.FieldFilled {
			resp.FilledCount++
			if result.Source == models.FillSourceAI {
				resp.AIGenerated++
			}
		}
	}

	resp.Success = true
	e.logger.Info("Fill cycle complete", map[string]interface{}{
		"form_id":      form.ID,
		"filled":       resp.FilledCount,
		"total":        resp.TotalFields,
		"ai_generated": resp.AIGenerated,
	})
	return resp
}

func (e *Executor) fillField(doc *dom.Document, field models.FormField, resolved ResolvedValue) models.FieldResult {
	result := models.FieldResult{
		FieldName: fieldKey(field),
		FieldType: field.FieldType,
		Source:    resolved.Source,
	}

	if resolved.Err != nil {
		result.Status = models.FieldErrored
		result.Error = resolved.Err.Error()
		result.CueColor = cueError
		return result
	}
	if resolved.Value == "" {
		result.Status = models.FieldSkipped
		result.Source = models.FillSourceNone
		return result
	}

	elem, err := doc.Resolve(field.Name, field.ID)
	if err != nil {
		result.Status = models.FieldErrored
		result.Error = "element no longer present"
		result.CueColor = cueError
		return result
	}

	if err := elem.SetValue(resolved.Value); err != nil {
		result.Status = models.FieldErrored
		result.Error = err.Error()
		result.CueColor = cueError
		return result
	}

	// Framework-bound inputs only observe the change when the usual event
	// sequence fires. The AI path skips blur so focus stays predictable
	// while subsequent generations run.
	events := []string{"input", "change"}
	if resolved.Source != models.FillSourceAI {
		events = append(events, "blur")
	}
	for _, ev := range events {
		if err := elem.DispatchEvent(ev); err != nil {
			result.Status = models.FieldErrored
			result.Error = err.Error()
			result.CueColor = cueError
			return result
		}
	}

	result.Status = models.FieldFilled
	result.Value = resolved.Value
	result.Events = elem.DispatchedEvents()
	if resolved.Source == models.FillSourceAI {
		result.CueColor = cueAI
	} else {
		result.CueColor = cueProfile
	}
	return result
}

// fieldKey is the stable lookup key a caller uses when handing the
// executor its value map.
func fieldKey(field models.FormField) string {
	return utils.GetStringOrDefault(field.Name, field.ID)
}

// FieldKey exposes the lookup key used for the value map.
func FieldKey(field models.FormField) string {
	return fieldKey(field)
}
