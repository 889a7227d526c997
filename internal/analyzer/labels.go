package analyzer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"jobfill/internal/dom"
)

const unknownFieldLabel = "Unknown field"

// ResolveLabel finds the best human-readable label for a form control.
// Sources are tried in priority order and the first non-empty hit wins.
// The result is never empty: attribute humanization and a literal
// fallback close the chain.
func ResolveLabel(doc *dom.Document, sel *goquery.Selection) string {
	if label := labelForID(doc, sel); label != "" {
		return label
	}
	if label := wrappingLabel(sel); label != "" {
		return label
	}
	if label := precedingLabel(sel); label != "" {
		return label
	}
	if label := containerText(sel); label != "" {
		return label
	}
	if placeholder, ok := sel.Attr("placeholder"); ok && strings.TrimSpace(placeholder) != "" {
		return strings.TrimSpace(placeholder)
	}
	if name, ok := sel.Attr("name"); ok {
		if label := HumanizeAttr(name); label != "" {
			return label
		}
	}
	if id, ok := sel.Attr("id"); ok {
		if label := HumanizeAttr(id); label != "" {
			return label
		}
	}
	return unknownFieldLabel
}

// labelForID matches <label for=...> against the control's id.
func labelForID(doc *dom.Document, sel *goquery.Selection) string {
	id, ok := sel.Attr("id")
	if !ok || id == "" {
		return ""
	}
	var text string
	doc.Root().Find("label").EachWithBreak(func(_ int, l *goquery.Selection) bool {
		if forAttr, _ := l.Attr("for"); forAttr == id {
			text = dom.VisibleText(l)
			return false
		}
		return true
	})
	return text
}

// wrappingLabel walks up to an ancestor <label> enclosing the control.
func wrappingLabel(sel *goquery.Selection) string {
	parent := sel.Closest("label")
	if parent.Length() == 0 {
		return ""
	}
	return dom.VisibleText(parent)
}

// precedingLabel checks the immediately preceding sibling for label-like tags.
func precedingLabel(sel *goquery.Selection) string {
	prev := sel.Prev()
	if prev.Length() == 0 {
		return ""
	}
	switch goquery.NodeName(prev) {
	case "label", "span":
		return dom.VisibleText(prev)
	}
	return ""
}

// containerText takes the parent's text with the control's own markup
// stripped out. Only short runs are accepted so we never swallow a whole
// paragraph of help copy and never return stray punctuation.
func containerText(sel *goquery.Selection) string {
	parent := sel.Parent()
	if parent.Length() == 0 {
		return ""
	}
	clone := parent.Clone()
	clone.Find("input, textarea, select, button, script, style").Remove()
	text := dom.VisibleText(clone)
	if len(text) >= 1 && len(text) <= 100 {
		return text
	}
	return ""
}

// HumanizeAttr turns attribute names like "first_name", "first-name" or
// "firstName" into "First Name".
func HumanizeAttr(attr string) string {
	attr = strings.TrimSpace(attr)
	if attr == "" {
		return ""
	}

	var b strings.Builder
	prev := rune(0)
	for _, r := range attr {
		switch {
		case r == '_' || r == '-' || r == '[' || r == ']' || r == '.':
			b.WriteRune(' ')
		case unicode.IsUpper(r) && unicode.IsLower(prev):
			b.WriteRune(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
		prev = r
	}

	words := strings.Fields(b.String())
	if len(words) == 0 {
		return ""
	}
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

func titleWord(w string) string {
	runes := []rune(strings.ToLower(w))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// boundedContext builds a short context string for AI prompts: nearby
// sibling/help text plus where the page the field lives on.
func boundedContext(doc *dom.Document, sel *goquery.Selection) string {
	var parts []string

	parent := sel.Parent()
	if parent.Length() > 0 {
		clone := parent.Clone()
		clone.Find("input, textarea, select, button, script, style").Remove()
		if text := dom.VisibleText(clone); text != "" && len(text) <= 200 {
			parts = append(parts, text)
		}
	}
	if doc.PageTitle != "" {
		parts = append(parts, fmt.Sprintf("Page: %s", doc.PageTitle))
	}
	if doc.PageURL != "" {
		parts = append(parts, fmt.Sprintf("URL: %s", doc.PageURL))
	}
	return strings.Join(parts, " | ")
}
