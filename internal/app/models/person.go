package models

import "time"

// PersonType distinguishes the two account kinds sharing the person table.
type PersonType string

const (
	PersonTypeStudent PersonType = "STUDENT"
	PersonTypeAdmin   PersonType = "ADMIN"
)

// Person is a row in the person table. Students and admins are both persons
// distinguished only by PersonType.
type Person struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PersonType   PersonType `json:"personType"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// IsStudent reports whether the person is a student account.
func (p *Person) IsStudent() bool {
	return p.PersonType == PersonTypeStudent
}
