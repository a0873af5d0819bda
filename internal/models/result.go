package models

import "time"

// ExamCategory classifies an assessment attempt.
type ExamCategory string

const (
	// CategoryICA marks a recurring in-course assessment attempt.
	CategoryICA ExamCategory = "ICA"
	// CategoryInternal marks a one-off internal assessment.
	CategoryInternal ExamCategory = "Internal"
	// CategoryExternal marks a final external examination.
	CategoryExternal ExamCategory = "External"
)

// Valid reports whether the category is one of the known values.
func (c ExamCategory) Valid() bool {
	switch c {
	case CategoryICA, CategoryInternal, CategoryExternal:
		return true
	}
	return false
}

// RawScoreRow is one teacher-submitted score line before identity resolution.
// StudentRef may be a canonical student id, a roll number, an email or a
// display name.
type RawScoreRow struct {
	StudentRef string       `json:"student_ref"`
	CourseName string       `json:"course"`
	Category   ExamCategory `json:"category"`
	ExamLabel  string       `json:"exam_label"`
	Marks      float64      `json:"marks"`
	TotalMarks float64      `json:"total_marks"`
	ExamDate   *time.Time   `json:"exam_date,omitempty"`
	Semester   *int         `json:"semester,omitempty"`
}

// ResultRecord is the persisted, graded outcome of one exam attempt by one
// resolved student. Percentage and Grade are derived from Marks/TotalMarks at
// write time and are never supplied by callers.
type ResultRecord struct {
	ID         string       `db:"id" json:"id"`
	StudentID  string       `db:"student_id" json:"student_id"`
	CourseName string       `db:"course_name" json:"course_name"`
	Category   ExamCategory `db:"category" json:"category"`
	ExamLabel  string       `db:"exam_label" json:"exam_label"`
	Marks      float64      `db:"marks" json:"marks"`
	TotalMarks float64      `db:"total_marks" json:"total_marks"`
	Percentage int          `db:"percentage" json:"percentage"`
	Grade      string       `db:"grade" json:"grade"`
	ExamDate   *time.Time   `db:"exam_date" json:"exam_date,omitempty"`
	Semester   *int         `db:"semester" json:"semester,omitempty"`
	UploadedBy string       `db:"uploaded_by" json:"uploaded_by"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
}

// ResultFilter scopes result listing queries.
type ResultFilter struct {
	StudentID  string
	CourseName string
	Category   ExamCategory
	Page       int
	PageSize   int
}
