package dom

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobfill/pkg/models"
)

// Element is the narrow write surface the fill executor operates on. It
// deliberately exposes only what filling needs: identity for re-resolution,
// value assignment and event dispatch. Writes are applied to the parsed
// snapshot and recorded so the host runtime can replay them.
type Element interface {
	TagName() string
	InputType() string
	ID() string
	Name() string
	Attr(name string) (string, bool)
	SetValue(value string) error
	SelectOption(value string) error
	DispatchEvent(event string) error
	DispatchedEvents() []string
}

// snapshotElement backs Element with a goquery selection from the page
// snapshot. SetValue mutates the selection and the dispatch log accumulates
// the events a real runtime would fire.
type snapshotElement struct {
	sel    *goquery.Selection
	events []string
}

func newSnapshotElement(sel *goquery.Selection) *snapshotElement {
	return &snapshotElement{sel: sel}
}

func (e *snapshotElement) TagName() string {
	if e.sel.Length() == 0 {
		return ""
	}
	return strings.ToLower(goquery.NodeName(e.sel))
}

func (e *snapshotElement) InputType() string {
	t, _ := e.sel.Attr("type")
	if t == "" && e.TagName() == "input" {
		return "text"
	}
	return strings.ToLower(t)
}

func (e *snapshotElement) ID() string {
	id, _ := e.sel.Attr("id")
	return id
}

func (e *snapshotElement) Name() string {
	name, _ := e.sel.Attr("name")
	return name
}

func (e *snapshotElement) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

func (e *snapshotElement) SetValue(value string) error {
	switch e.TagName() {
	case "input":
		e.sel.SetAttr("value", value)
	case "textarea":
		e.sel.SetText(value)
	case "select":
		return e.SelectOption(value)
	default:
		return fmt.Errorf("element <%s> does not accept a value", e.TagName())
	}
	return nil
}

// SelectOption marks the matching <option> selected. Matching is by value
// first, then case-insensitive visible text.
func (e *snapshotElement) SelectOption(value string) error {
	if e.TagName() != "select" {
		return fmt.Errorf("element <%s> is not a select", e.TagName())
	}

	var matched bool
	e.sel.Find("option").Each(func(_ int, opt *goquery.Selection) {
		if matched {
			return
		}
		v, _ := opt.Attr("value")
		if v == value || strings.EqualFold(strings.TrimSpace(opt.Text()), value) {
			opt.SetAttr("selected", "selected")
			matched = true
		}
	})
	if !matched {
		return fmt.Errorf("no option matches %q", value)
	}
	return nil
}

func (e *snapshotElement) DispatchEvent(event string) error {
	if e.sel.Length() == 0 {
		return fmt.Errorf("element detached from document")
	}
	e.events = append(e.events, event)
	return nil
}

func (e *snapshotElement) DispatchedEvents() []string {
	return e.events
}

// Options reads the option list of a select element.
func Options(sel *goquery.Selection) []models.SelectOption {
	var opts []models.SelectOption
	sel.Find("option").Each(func(_ int, opt *goquery.Selection) {
		value, _ := opt.Attr("value")
		opts = append(opts, models.SelectOption{
			Value: value,
			Label: strings.TrimSpace(opt.Text()),
		})
	})
	return opts
}
