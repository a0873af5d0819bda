package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/acadrec-api/internal/models"
	appErrors "github.com/noah-isme/acadrec-api/pkg/errors"
)

type courseReader interface {
	FindByName(ctx context.Context, name string) (*models.Course, error)
	ListRoster(ctx context.Context, courseID string) ([]models.Student, error)
}

type studentDirectory interface {
	ListByDepartmentSemester(ctx context.Context, department string, semester int) ([]models.Student, error)
}

// ReferenceResolver maps loose student references (canonical id, roll number,
// email or display name) to exactly one enrolled student within a course's
// enrollment scope.
type ReferenceResolver struct {
	courses  courseReader
	students studentDirectory
	logger   *zap.Logger
}

// NewReferenceResolver constructs a ReferenceResolver.
func NewReferenceResolver(courses courseReader, students studentDirectory, logger *zap.Logger) *ReferenceResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferenceResolver{courses: courses, students: students, logger: logger}
}

// ScopeForCourse loads the enrollment scope for a course name. A non-empty
// explicit roster is authoritative; otherwise resolution falls back to the
// course's department and semester population.
func (r *ReferenceResolver) ScopeForCourse(ctx context.Context, courseName string) (*models.EnrollmentScope, error) {
	course, err := r.courses.FindByName(ctx, courseName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course "+courseName+" not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	roster, err := r.courses.ListRoster(ctx, course.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course roster")
	}
	return &models.EnrollmentScope{Course: *course, Roster: roster, Explicit: len(roster) > 0}, nil
}

// Resolve maps a raw reference to a canonical student id inside the given
// scope. A reference that already parses as a canonical id is returned
// unchanged without roster lookup. Matching is case-insensitive and exact;
// roll number wins over email wins over name. No fuzzy matching.
func (r *ReferenceResolver) Resolve(ctx context.Context, rawRef string, scope *models.EnrollmentScope) (string, error) {
	ref := strings.TrimSpace(rawRef)
	if ref == "" {
		return "", appErrors.Clone(appErrors.ErrUnresolved, "empty student reference")
	}
	if _, err := uuid.Parse(ref); err == nil {
		return ref, nil
	}

	if id, ok := matchStudents(scope.Roster, ref); ok {
		return id, nil
	}
	if scope.Explicit {
		return "", appErrors.Clone(appErrors.ErrUnresolved, "reference "+rawRef+" does not match any enrolled student")
	}

	fallback, err := r.students.ListByDepartmentSemester(ctx, scope.Course.Department, scope.Course.Semester)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department students")
	}
	if id, ok := matchStudents(fallback, ref); ok {
		return id, nil
	}
	return "", appErrors.Clone(appErrors.ErrUnresolved, "reference "+rawRef+" does not match any student in "+scope.Course.Department)
}

// matchStudents searches candidates field by field so that a roll-number
// match on any candidate beats an email or name match on another.
func matchStudents(candidates []models.Student, ref string) (string, bool) {
	for _, s := range candidates {
		if s.RollNo != "" && strings.EqualFold(s.RollNo, ref) {
			return s.ID, true
		}
	}
	for _, s := range candidates {
		if s.Email != "" && strings.EqualFold(s.Email, ref) {
			return s.ID, true
		}
	}
	for _, s := range candidates {
		if s.FullName != "" && strings.EqualFold(s.FullName, ref) {
			return s.ID, true
		}
	}
	return "", false
}
