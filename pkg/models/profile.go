package models

// UserProfileRecord is the profile payload served by the job platform. Only
// these fields may be written into forms; anything absent stays blank.
type UserProfileRecord struct {
	UserID       string `json:"user_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	LinkedinURL  string `json:"linkedin_url,omitempty"`
	PortfolioURL string `json:"portfolio_url,omitempty"`
	WebsiteURL   string `json:"website_url,omitempty"`
	Location     string `json:"location,omitempty"`
}

// AuthUser is the identity resolved from a verified bearer token.
type AuthUser struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
}
