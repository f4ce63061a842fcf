package dto

import "time"

// CreateInternshipRequest represents a new internship listing
type CreateInternshipRequest struct {
	Title          string    `json:"title" binding:"required,min=2,max=200"`
	Description    string    `json:"description" binding:"required"`
	Salary         int       `json:"salary" binding:"min=0"`
	ApplicationEnd time.Time `json:"applicationEnd" binding:"required"`
	MinimumYear    int       `json:"minimumYear" binding:"min=0"`
	SiteID         int64     `json:"siteId" binding:"required,min=1"`
	WorktypeID     int64     `json:"worktypeId" binding:"required,min=1"`
	DurationID     int64     `json:"durationId" binding:"required,min=1"`
	DepartmentIDs  []int64   `json:"departmentIds" binding:"omitempty,dive,min=1"`
}

// UpdateInternshipRequest represents an internship update
type UpdateInternshipRequest struct {
	Title          string    `json:"title" binding:"required,min=2,max=200"`
	Description    string    `json:"description" binding:"required"`
	Salary         int       `json:"salary" binding:"min=0"`
	ApplicationEnd time.Time `json:"applicationEnd" binding:"required"`
	MinimumYear    int       `json:"minimumYear" binding:"min=0"`
	SiteID         int64     `json:"siteId" binding:"required,min=1"`
	WorktypeID     int64     `json:"worktypeId" binding:"required,min=1"`
	DurationID     int64     `json:"durationId" binding:"required,min=1"`
	DepartmentIDs  []int64   `json:"departmentIds" binding:"omitempty,dive,min=1"`
}

// CreateSiteRequest represents a new company location
type CreateSiteRequest struct {
	Address    string `json:"address" binding:"required"`
	PostalCode string `json:"postalCode" binding:"required"`
	CityID     int64  `json:"cityId" binding:"required,min=1"`
	CompanyID  int64  `json:"companyId" binding:"required,min=1"`
}

// UpdateSiteRequest represents a site update
type UpdateSiteRequest struct {
	Address    string `json:"address" binding:"required"`
	PostalCode string `json:"postalCode" binding:"required"`
	CityID     int64  `json:"cityId" binding:"required,min=1"`
}

// UpdateCompanyRequest represents a company profile update
type UpdateCompanyRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=200"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required"`
}

// CreateDepartmentRequest represents a new department lookup row
type CreateDepartmentRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}
