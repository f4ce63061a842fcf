package models

import "time"

// SubjectType names which account table a refresh token belongs to.
type SubjectType string

const (
	SubjectPerson  SubjectType = "PERSON"
	SubjectCompany SubjectType = "COMPANY"
)

// RefreshToken is a persisted refresh token row.
type RefreshToken struct {
	ID          string      `json:"id"`
	SubjectType SubjectType `json:"subjectType"`
	SubjectID   int64       `json:"subjectId"`
	Token       string      `json:"-"`
	Revoked     bool        `json:"revoked"`
	ExpiresAt   time.Time   `json:"expiresAt"`
	CreatedAt   time.Time   `json:"createdAt"`
}
