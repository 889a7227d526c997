package analyzer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobfill/internal/dom"
	"jobfill/internal/logging"
	"jobfill/pkg/models"
)

// Extractor builds the field list for an accepted container. It never
// fails the container as a whole: a malformed control is skipped and the
// rest of the form still extracts.
type Extractor struct {
	essayMinChars int
	logger        logging.Logger
}

func NewExtractor(essayMinChars int) *Extractor {
	return &Extractor{
		essayMinChars: essayMinChars,
		logger:        logging.GetGlobalLogger(),
	}
}

// Extract walks the container's controls and builds one FormField per
// usable element. Hidden, submit and button inputs are excluded up front.
func (e *Extractor) Extract(doc *dom.Document, cand *Candidate) []models.FormField {
	fields := make([]models.FormField, 0, len(cand.Controls))
	for _, ctrl := range cand.Controls {
		if dom.Hidden(ctrl) {
			continue
		}
		field, err := e.buildField(doc, ctrl)
		if err != nil {
			e.logger.Debug("Skipping unextractable field", map[string]interface{}{
				"error": err.Error(),
			})
			continue
		}
		fields = append(fields, field)
	}
	return fields
}

func (e *Extractor) buildField(doc *dom.Document, ctrl *goquery.Selection) (models.FormField, error) {
	tagName := goquery.NodeName(ctrl)
	switch tagName {
	case "input", "textarea", "select":
	default:
		return models.FormField{}, fmt.Errorf("unsupported tag %q", tagName)
	}

	id, _ := ctrl.Attr("id")
	name, _ := ctrl.Attr("name")
	placeholder, _ := ctrl.Attr("placeholder")
	inputType, _ := ctrl.Attr("type")
	inputType = strings.ToLower(inputType)
	if inputType == "" && tagName == "input" {
		inputType = "text"
	}

	label := ResolveLabel(doc, ctrl)
	fieldType := ClassifyFieldType(tagName, inputType, name, label, placeholder, e.essayMinChars)

	field := models.FormField{
		ID:              id,
		Name:            name,
		Label:           label,
		Placeholder:     placeholder,
		Required:        hasBoolAttr(ctrl, "required"),
		MaxLength:       maxLength(ctrl),
		FieldType:       fieldType,
		IsEssayQuestion: fieldType.IsEssay(),
		TagName:         tagName,
		InputType:       inputType,
		Context:         boundedContext(doc, ctrl),
		ElementRef:      elementRef(name, id),
	}

	if tagName == "select" {
		for _, opt := range dom.Options(ctrl) {
			if opt.Value == "" && opt.Label == "" {
				continue
			}
			field.Options = append(field.Options, opt)
		}
	}

	if field.Name == "" && field.ID == "" {
		return models.FormField{}, fmt.Errorf("element has neither name nor id")
	}
	return field, nil
}

func hasBoolAttr(sel *goquery.Selection, attr string) bool {
	_, ok := sel.Attr(attr)
	return ok
}

// maxLength returns a declared positive maxlength, else nil.
func maxLength(sel *goquery.Selection) *int {
	raw, ok := sel.Attr("maxlength")
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}

func elementRef(name, id string) string {
	if name != "" {
		return "name:" + name
	}
	return "id:" + id
}
