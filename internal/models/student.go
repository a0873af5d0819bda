package models

import "time"

// Student represents a learner registered in the institution's directory.
type Student struct {
	ID         string    `db:"id" json:"id"`
	RollNo     string    `db:"roll_no" json:"roll_no"`
	Email      string    `db:"email" json:"email"`
	FullName   string    `db:"full_name" json:"full_name"`
	Department string    `db:"department" json:"department"`
	Semester   int       `db:"semester" json:"semester"`
	Active     bool      `db:"active" json:"active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search     string
	Department string
	Semester   int
	Active     *bool
	Page       int
	PageSize   int
}
