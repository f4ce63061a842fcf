package dto

// TrackingRequest is the body of the favourite / viewed / clicked-apply
// endpoints: one (student, internship) pair.
type TrackingRequest struct {
	StudentID    int64 `json:"studentId" binding:"required,min=1"`
	InternshipID int64 `json:"internshipId" binding:"required,min=1"`
}

// FavouriteResult carries the internship id a favourite mutation touched, or
// -1 when no row was affected.
type FavouriteResult struct {
	InternshipID int64 `json:"internshipId"`
}

// ClickedCountResponse is the trailing-window click count for an internship.
type ClickedCountResponse struct {
	InternshipID int64 `json:"internshipId"`
	Days         int   `json:"days"`
	Count        int64 `json:"count"`
}
