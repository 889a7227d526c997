package dom

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document wraps a parsed page snapshot. All analysis and filling runs
// against this single parsed tree; the host runtime sends a fresh snapshot
// whenever the page mutates.
type Document struct {
	doc       *goquery.Document
	PageURL   string
	PageTitle string
}

// Parse builds a Document from raw snapshot HTML.
func Parse(html, pageURL, pageTitle string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page snapshot: %w", err)
	}

	d := &Document{doc: doc, PageURL: pageURL, PageTitle: pageTitle}
	if d.PageTitle == "" {
		d.PageTitle = strings.TrimSpace(doc.Find("title").First().Text())
	}
	return d, nil
}

// Root exposes the underlying document selection for read-only traversal.
func (d *Document) Root() *goquery.Document {
	return d.doc
}

// Forms returns every <form> element in document order.
func (d *Document) Forms() []*goquery.Selection {
	var forms []*goquery.Selection
	d.doc.Find("form").Each(func(_ int, s *goquery.Selection) {
		forms = append(forms, s)
	})
	return forms
}

// LooseControls returns input, textarea and select elements that do not
// live inside any <form>. Pages that build their application UI out of
// bare divs surface their fields here.
func (d *Document) LooseControls() []*goquery.Selection {
	var loose []*goquery.Selection
	d.doc.Find("input, textarea, select").Each(func(_ int, s *goquery.Selection) {
		if s.Closest("form").Length() == 0 {
			loose = append(loose, s)
		}
	})
	return loose
}

// Controls returns the form controls within a container selection.
func Controls(container *goquery.Selection) []*goquery.Selection {
	var out []*goquery.Selection
	container.Find("input, textarea, select").Each(func(_ int, s *goquery.Selection) {
		out = append(out, s)
	})
	return out
}

// Resolve locates a form control by name, falling back to id. Filling
// re-resolves every element this way because references captured at
// analysis time may be stale by fill time.
func (d *Document) Resolve(name, id string) (Element, error) {
	if name != "" {
		sel := d.doc.Find(fmt.Sprintf("input[name=%q], textarea[name=%q], select[name=%q]", name, name, name)).First()
		if sel.Length() > 0 {
			return newSnapshotElement(sel), nil
		}
	}
	if id != "" {
		sel := d.doc.Find(fmt.Sprintf("#%s", cssEscape(id))).First()
		if sel.Length() > 0 {
			return newSnapshotElement(sel), nil
		}
	}
	return nil, fmt.Errorf("element not found (name=%q id=%q)", name, id)
}

// Hidden reports whether a control should be excluded from extraction:
// type hidden/submit/button/image/reset, the hidden attribute, or inline
// display:none / visibility:hidden styling on the element itself.
func Hidden(sel *goquery.Selection) bool {
	t, _ := sel.Attr("type")
	switch strings.ToLower(t) {
	case "hidden", "submit", "button", "image", "reset":
		return true
	}
	if _, ok := sel.Attr("hidden"); ok {
		return true
	}
	if style, ok := sel.Attr("style"); ok {
		s := strings.ReplaceAll(strings.ToLower(style), " ", "")
		if strings.Contains(s, "display:none") || strings.Contains(s, "visibility:hidden") {
			return true
		}
	}
	if aria, ok := sel.Attr("aria-hidden"); ok && aria == "true" {
		return true
	}
	return false
}

// VisibleText collapses the text content of a selection to a single
// whitespace-normalized line.
func VisibleText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

// cssEscape guards id selectors against characters goquery's parser would
// treat as combinators. IDs in the wild contain colons (React portals) and
// dots (server-generated names).
func cssEscape(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch r {
		case ':', '.', '[', ']', '#', '(', ')', ',', '>', '+', '~', '*', '"', '\'':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
