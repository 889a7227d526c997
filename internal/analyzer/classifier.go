package analyzer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobfill/internal/config"
	"jobfill/pkg/models"
)

// Strong phrases are near-certain job-application signals worth a large
// one-time bonus on their own.
var strongPhrases = []string{
	"submit application",
	"submit your application",
	"apply for this position",
	"apply for this job",
	"job application",
	"upload resume",
	"upload your resume",
	"apply now",
}

// Broader job vocabulary, counted once per distinct hit.
var jobKeywords = []string{
	"resume",
	"cover letter",
	"first name",
	"last name",
	"full name",
	"phone",
	"linkedin",
	"portfolio",
	"salary",
	"work authorization",
	"sponsorship",
	"position",
	"experience",
	"education",
	"availability",
	"references",
}

// Anti-patterns pull the score down so login, checkout and newsletter forms
// that mention incidental keywords stay rejected.
var antiPatterns = []string{
	"newsletter",
	"subscribe",
	"sign in",
	"log in",
	"login",
	"password",
	"checkout",
	"payment",
	"credit card",
	"billing",
	"coupon",
	"promo code",
	"track order",
}

// Classifier scores candidate containers against the job-application
// vocabulary. The weights and threshold are configuration, not code: they
// were chosen empirically and are expected to be recalibrated over time.
type Classifier struct {
	cfg *config.Config
}

func NewClassifier(cfg *config.Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Score runs the additive scoring pass over one candidate. Virtual
// candidates bypass the threshold gate entirely and carry a fixed lenient
// confidence, since loose-input pages rarely contain the submit-button
// vocabulary real forms do.
func (c *Classifier) Score(cand *Candidate) models.ClassificationScore {
	if cand.Origin == models.OriginVirtual {
		return models.ClassificationScore{
			Accepted:       true,
			LenientVirtual: true,
			Confidence:     c.cfg.Engine.VirtualConfidence,
			HasFileInput:   hasInputType(cand, "file"),
			HasTextArea:    hasTag(cand, "textarea"),
		}
	}

	blob := containerBlob(cand)
	score := models.ClassificationScore{}

	for _, phrase := range strongPhrases {
		if strings.Contains(blob, phrase) {
			score.StrongHit = true
			score.Total += c.cfg.Engine.StrongIndicator
			break
		}
	}
	for _, kw := range jobKeywords {
		if strings.Contains(blob, kw) {
			score.KeywordHits = append(score.KeywordHits, kw)
			score.Total += c.cfg.Engine.KeywordWeight
		}
	}
	for _, anti := range antiPatterns {
		if strings.Contains(blob, anti) {
			score.AntiHits = append(score.AntiHits, anti)
			score.Total -= c.cfg.Engine.AntiPatternWeight
		}
	}
	if hasInputType(cand, "file") {
		score.HasFileInput = true
		score.Total += c.cfg.Engine.FileInputBonus
	}
	if hasTag(cand, "textarea") {
		score.HasTextArea = true
		score.Total += c.cfg.Engine.TextAreaBonus
	}

	score.Accepted = score.Total >= c.cfg.Engine.ScoreThreshold
	if score.Total > 0 {
		score.Confidence = float64(score.Total) / float64(c.cfg.Engine.ConfidenceDivisor)
		if score.Confidence > 1.0 {
			score.Confidence = 1.0
		}
	}
	return score
}

// containerBlob combines visible text, inner markup and (for real forms)
// the action URL into one lowercase haystack.
func containerBlob(cand *Candidate) string {
	var parts []string
	parts = append(parts, cand.Selection.Text())
	if html, err := cand.Selection.Html(); err == nil {
		parts = append(parts, html)
	}
	if cand.Action != "" {
		parts = append(parts, cand.Action)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func hasInputType(cand *Candidate, inputType string) bool {
	for _, ctrl := range cand.Controls {
		if goquery.NodeName(ctrl) != "input" {
			continue
		}
		t, _ := ctrl.Attr("type")
		if strings.EqualFold(t, inputType) {
			return true
		}
	}
	return false
}

func hasTag(cand *Candidate, tag string) bool {
	for _, ctrl := range cand.Controls {
		if goquery.NodeName(ctrl) == tag {
			return true
		}
	}
	return false
}

// DeriveFormType labels an accepted form by what it asks for. Rules are
// checked in order and the first match wins.
func DeriveFormType(fields []models.FormField, hasFileInput bool) models.FormType {
	var hasResume, hasCoverLetter, hasEmail, hasFirstName, hasTextArea bool
	for _, f := range fields {
		switch f.FieldType {
		case models.FieldTypeResume:
			hasResume = true
		case models.FieldTypeCoverLetter:
			hasCoverLetter = true
		case models.FieldTypeEmail:
			hasEmail = true
		case models.FieldTypeFirstName:
			hasFirstName = true
		}
		if f.TagName == "textarea" {
			hasTextArea = true
		}
	}

	switch {
	case hasFileInput && (hasResume || hasCoverLetter):
		return models.FormTypeFullApplication
	case hasEmail && hasFirstName:
		return models.FormTypeQuickApply
	case hasTextArea:
		return models.FormTypeDetailedApplication
	default:
		return models.FormTypeBasicForm
	}
}
