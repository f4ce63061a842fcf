package models

import "time"

// Internship is an internship listing row.
type Internship struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Salary         int       `json:"salary"`
	ApplicationEnd time.Time `json:"applicationEnd"`
	MinimumYear    int       `json:"minimumYear"`
	SiteID         int64     `json:"siteId"`
	WorktypeID     int64     `json:"worktypeId"`
	DurationID     int64     `json:"durationId"`
	DocumentPath   *string   `json:"documentPath,omitempty"`
	ClickCounter   int64     `json:"clickCounter"`
	CreatedAt      time.Time `json:"createdAt"`
}

// InternshipListing is the joined and aggregated shape the listing queries
// return: the internship row enriched with its site, company, worktype and
// duration, the deduplicated department names and the view count.
type InternshipListing struct {
	Internship
	CompanyID   int64    `json:"companyId"`
	CompanyName string   `json:"companyName"`
	CompanyLogo *string  `json:"companyLogo,omitempty"`
	SiteAddress string   `json:"siteAddress"`
	PostalCode  string   `json:"postalCode"`
	City        string   `json:"city"`
	Worktype    string   `json:"worktype"`
	Duration    string   `json:"duration"`
	Category    []string `json:"category"`
	Views       int64    `json:"views"`
}
