package models

import "time"

// Course identifies a taught course within a department and semester.
type Course struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Department string    `db:"department" json:"department"`
	Semester   int       `db:"semester" json:"semester"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// EnrollmentScope is the set of students a raw reference may resolve against
// for one course. When Explicit is true the roster is authoritative and the
// department/semester fallback must not be consulted.
type EnrollmentScope struct {
	Course   Course
	Roster   []Student
	Explicit bool
}
