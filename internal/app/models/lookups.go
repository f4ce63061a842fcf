package models

// Department is a lookup row; internships relate to departments through the
// internship_department_map join table.
type Department struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Worktype is a lookup row (e.g. on-site, remote, hybrid).
type Worktype struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// InternshipDuration is a lookup row (e.g. "3 months").
type InternshipDuration struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// City is a lookup row referenced by sites.
type City struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
