package models

// JobData is the job-posting snapshot extracted from the page being filled.
// It rides along on every AI content request so generated text is aware of
// the position the user is applying to.
type JobData struct {
	Title   string `json:"title"`
	Company string `json:"company"`
	URL     string `json:"url"`
}

// IsEmpty reports whether nothing useful could be extracted from the page.
func (j JobData) IsEmpty() bool {
	return j.Title == "" && j.Company == ""
}
