package models

import "time"

// Favourite is a student's saved-for-later marker. At most one row per
// (student, internship) pair, enforced by a unique constraint.
type Favourite struct {
	StudentID    int64     `json:"studentId"`
	InternshipID int64     `json:"internshipId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ViewedInternship records that a student opened an internship. Re-viewing
// refreshes the timestamp instead of inserting a second row.
type ViewedInternship struct {
	StudentID    int64     `json:"studentId"`
	InternshipID int64     `json:"internshipId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ClickedApplyInternship records that a student clicked apply. Same upsert
// semantics as ViewedInternship.
type ClickedApplyInternship struct {
	StudentID    int64     `json:"studentId"`
	InternshipID int64     `json:"internshipId"`
	CreatedAt    time.Time `json:"createdAt"`
}
