package models

import "time"

// ICAPolicy selects how repeated in-course assessment attempts fold into one
// theory score.
type ICAPolicy string

const (
	// ICAPolicyBest keeps the highest normalized attempt.
	ICAPolicyBest ICAPolicy = "best"
	// ICAPolicyAverage takes the mean of the available attempts.
	ICAPolicyAverage ICAPolicy = "average"
)

// SubjectAssessmentConfig is the per-subject policy record consumed by the
// internal marks aggregation. Exactly one active configuration exists per
// subject name.
type SubjectAssessmentConfig struct {
	ID               string    `db:"id" json:"id"`
	SubjectName      string    `db:"subject_name" json:"subject_name"`
	InternalMax      int       `db:"internal_max" json:"internal_max"`
	ExternalMax      int       `db:"external_max" json:"external_max"`
	ICAPolicy        ICAPolicy `db:"ica_policy" json:"ica_policy"`
	ICACount         int       `db:"ica_count" json:"ica_count"`
	OtherInternalMax int       `db:"other_internal_max" json:"other_internal_max"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// InternalScore is the derived internal mark for one student and subject.
// Theory is normalized to a 20-point scale; Practical, when present, to a
// 10-point scale. A nil Practical means no practical attempt was recorded,
// which is distinct from a zero score.
type InternalScore struct {
	StudentID   string    `json:"student_id"`
	SubjectName string    `json:"subject_name"`
	Theory      int       `json:"theory"`
	Practical   *int      `json:"practical,omitempty"`
	Policy      ICAPolicy `json:"policy"`
	Attempts    int       `json:"attempts"`
}
