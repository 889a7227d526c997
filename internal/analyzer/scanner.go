package analyzer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobfill/internal/dom"
	"jobfill/pkg/models"
)

// Candidate is one container under consideration: a real <form>, or a
// synthetic grouping over loose inputs when no form qualifies.
type Candidate struct {
	Origin    models.ContainerOrigin
	Selection *goquery.Selection
	Controls  []*goquery.Selection
	Action    string
}

// ScanForms enumerates all <form> elements in document order as candidates.
func ScanForms(doc *dom.Document) []*Candidate {
	var candidates []*Candidate
	for _, form := range doc.Forms() {
		action, _ := form.Attr("action")
		candidates = append(candidates, &Candidate{
			Origin:    models.OriginReal,
			Selection: form,
			Controls:  dom.Controls(form),
			Action:    action,
		})
	}
	return candidates
}

// VirtualCandidate wraps the page's loose text-like controls into one
// synthetic container rooted at the body. Returns nil when there are not
// enough loose controls to plausibly be an application form. Single-page
// applications commonly render their forms out of bare divs, which is the
// case this path exists for.
func VirtualCandidate(doc *dom.Document, minInputs int) *Candidate {
	var controls []*goquery.Selection
	for _, sel := range doc.LooseControls() {
		if !looseEligible(sel) {
			continue
		}
		controls = append(controls, sel)
	}
	if len(controls) <= minInputs {
		return nil
	}
	return &Candidate{
		Origin:    models.OriginVirtual,
		Selection: doc.Root().Find("body").First(),
		Controls:  controls,
	}
}

// looseEligible keeps text/email/tel/url/file inputs, textareas and
// selects. File uploads stay in so a loose-input page can still score the
// file-input bonus and derive the full-application type. Other input kinds
// (checkbox grids, radios, hidden tracking fields) are noise at the
// virtual-form level.
func looseEligible(sel *goquery.Selection) bool {
	switch goquery.NodeName(sel) {
	case "textarea", "select":
		return true
	case "input":
		t, _ := sel.Attr("type")
		switch strings.ToLower(t) {
		case "", "text", "email", "tel", "url", "file":
			return true
		}
	}
	return false
}
