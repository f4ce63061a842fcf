package models

import "time"

// Company is an employer account. The two verification flags are independent
// columns, each with its own timestamp; the service layer enforces that admin
// verification requires a verified email first.
type Company struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone"`
	PasswordHash    string     `json:"-"`
	EmailVerified   bool       `json:"emailVerified"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt,omitempty"`
	AdminVerified   bool       `json:"adminVerified"`
	AdminVerifiedAt *time.Time `json:"adminVerifiedAt,omitempty"`
	LogoPath        *string    `json:"logoPath,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// Site is a company location. A company has zero or more sites.
type Site struct {
	ID         int64  `json:"id"`
	Address    string `json:"address"`
	PostalCode string `json:"postalCode"`
	CityID     int64  `json:"cityId"`
	CompanyID  int64  `json:"companyId"`
}
