package jobdata

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobfill/internal/dom"
	"jobfill/pkg/models"
)

// Extractor pulls the job posting snapshot (title, company, URL) off the
// page so generated content can reference the actual role. It is a
// best-effort heuristic over common job-board markup; an empty result is
// acceptable and simply produces less specific prose.
type Extractor struct {
	// Selectors tried in order; first non-empty text wins.
	titleSelectors   []string
	companySelectors []string
}

// NewExtractor creates a new job data extractor instance
func NewExtractor() *Extractor {
	return &Extractor{
		titleSelectors: []string{
			".job-title", ".jobTitle", ".posting-headline",
			"[class*='job-title']", "[data-testid*='job-title']",
			"h1.title", "main h1", "h1",
		},
		companySelectors: []string{
			".company-name", ".companyName", ".employer",
			"[class*='company-name']", "[class*='company']",
			"[data-testid*='company']", "[itemprop='hiringOrganization']",
		},
	}
}

// Extract reads job data from a parsed page snapshot.
func (e *Extractor) Extract(doc *dom.Document) models.JobData {
	root := doc.Root()

	data := models.JobData{
		URL:     doc.PageURL,
		Title:   e.firstMatch(root, e.titleSelectors),
		Company: e.firstMatch(root, e.companySelectors),
	}

	if data.Title == "" {
		data.Title = titleFromPageTitle(doc.PageTitle)
	}
	if data.Company == "" {
		if content, ok := root.Find("meta[property='og:site_name']").Attr("content"); ok {
			data.Company = strings.TrimSpace(content)
		}
	}
	if data.Company == "" {
		data.Company = companyFromPageTitle(doc.PageTitle)
	}
	return data
}

func (e *Extractor) firstMatch(root *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		text := strings.TrimSpace(root.Find(sel).First().Text())
		text = strings.Join(strings.Fields(text), " ")
		if text != "" && len(text) <= 200 {
			return text
		}
	}
	return ""
}

var pageTitleSeparators = regexp.MustCompile(`\s+[|\-–—·]\s+`)

// titleFromPageTitle takes the first segment of "Senior Engineer - Acme |
// Careers" style page titles.
func titleFromPageTitle(pageTitle string) string {
	parts := pageTitleSeparators.Split(pageTitle, -1)
	if len(parts) == 0 {
		return strings.TrimSpace(pageTitle)
	}
	return strings.TrimSpace(parts[0])
}

// companyFromPageTitle guesses the company from the segment after the
// first separator, skipping generic words job boards put there.
func companyFromPageTitle(pageTitle string) string {
	parts := pageTitleSeparators.Split(pageTitle, -1)
	if len(parts) < 2 {
		return ""
	}
	candidate := strings.TrimSpace(parts[1])
	switch strings.ToLower(candidate) {
	case "careers", "jobs", "job application", "apply":
		return ""
	}
	return candidate
}
