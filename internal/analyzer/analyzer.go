package analyzer

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"jobfill/internal/config"
	"jobfill/internal/dom"
	"jobfill/internal/logging"
	"jobfill/pkg/models"
)

// Analyzer runs one full detection pass: scan containers, score each, and
// extract fields from the accepted ones. Each pass is an independent
// snapshot; results are never merged with a previous pass.
type Analyzer struct {
	cfg        *config.Config
	classifier *Classifier
	extractor  *Extractor
	logger     logging.Logger
}

func New(cfg *config.Config) *Analyzer {
	return &Analyzer{
		cfg:        cfg,
		classifier: NewClassifier(cfg),
		extractor:  NewExtractor(cfg.Engine.EssayLabelMinChars),
		logger:     logging.GetGlobalLogger(),
	}
}

// Analyze detects job-application forms in a page snapshot. Real <form>
// elements are tried first; when none is accepted, the loose-input virtual
// path runs instead. An empty result is not an error at this level.
func (a *Analyzer) Analyze(doc *dom.Document) []models.DetectedForm {
	started := time.Now()
	detected := a.analyzeCandidates(doc, ScanForms(doc))

	if len(detected) == 0 {
		if virtual := VirtualCandidate(doc, a.cfg.Engine.VirtualMinInputs); virtual != nil {
			detected = a.analyzeCandidates(doc, []*Candidate{virtual})
		}
	}

	a.logger.Info("Page analysis complete", map[string]interface{}{
		"page_url":       doc.PageURL,
		"forms_detected": len(detected),
		"duration":       time.Since(started).String(),
	})
	return detected
}

func (a *Analyzer) analyzeCandidates(doc *dom.Document, candidates []*Candidate) []models.DetectedForm {
	var detected []models.DetectedForm
	for _, cand := range candidates {
		score := a.classifier.Score(cand)
		if !score.Accepted {
			a.logger.Debug("Container rejected", map[string]interface{}{
				"origin": string(cand.Origin),
				"score":  score.Total,
			})
			continue
		}

		fields := a.extractor.Extract(doc, cand)
		if len(fields) == 0 {
			continue
		}

		detected = append(detected, models.DetectedForm{
			ID:         newFormID(),
			Fields:     fields,
			Confidence: score.Confidence,
			FormType:   DeriveFormType(fields, score.HasFileInput),
			Origin:     cand.Origin,
			PageURL:    doc.PageURL,
			PageTitle:  doc.PageTitle,
			DetectedAt: time.Now(),
		})
	}
	return detected
}

// newFormID gives every detection its own identity. Two scans of an
// identical page still produce distinct form ids, which is what lets a
// re-scan fully replace earlier state.
func newFormID() string {
	return fmt.Sprintf("form_%s", uuid.New().String()[:8])
}
