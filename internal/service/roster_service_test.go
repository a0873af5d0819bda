package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/acadrec-api/internal/models"
	appErrors "github.com/noah-isme/acadrec-api/pkg/errors"
)

type mockStudentAdminRepo struct {
	created []models.Student
}

func (m *mockStudentAdminRepo) Create(ctx context.Context, student *models.Student) error {
	student.ID = "generated"
	m.created = append(m.created, *student)
	return nil
}

func (m *mockStudentAdminRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	return m.created, len(m.created), nil
}

type mockCourseAdminRepo struct {
	courses  map[string]*models.Course
	enrolled [][2]string
}

func (m *mockCourseAdminRepo) FindByName(ctx context.Context, name string) (*models.Course, error) {
	if c, ok := m.courses[name]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseAdminRepo) Create(ctx context.Context, course *models.Course) error {
	if m.courses == nil {
		m.courses = make(map[string]*models.Course)
	}
	course.ID = "generated"
	m.courses[course.Name] = course
	return nil
}

func (m *mockCourseAdminRepo) Enroll(ctx context.Context, courseID, studentID string) error {
	m.enrolled = append(m.enrolled, [2]string{courseID, studentID})
	return nil
}

func newRosterService(students *mockStudentAdminRepo, courses *mockCourseAdminRepo) *RosterService {
	return NewRosterService(students, courses, validator.New(), zap.NewNop(), nil)
}

func TestRosterServiceCreateStudent(t *testing.T) {
	students := &mockStudentAdminRepo{}
	svc := newRosterService(students, &mockCourseAdminRepo{})

	student, err := svc.CreateStudent(context.Background(), CreateStudentRequest{
		RollNo: "STU101", Email: "asha@example.edu", FullName: "Asha Rao", Department: "CSE", Semester: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "generated", student.ID)
	assert.True(t, student.Active)
	assert.Len(t, students.created, 1)
}

func TestRosterServiceCreateStudentValidation(t *testing.T) {
	svc := newRosterService(&mockStudentAdminRepo{}, &mockCourseAdminRepo{})

	_, err := svc.CreateStudent(context.Background(), CreateStudentRequest{RollNo: "STU101", Email: "not-an-email", FullName: "Asha", Department: "CSE", Semester: 3})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRosterServiceEnroll(t *testing.T) {
	courses := &mockCourseAdminRepo{courses: map[string]*models.Course{
		"Data Structures": {ID: "c1", Name: "Data Structures"},
	}}
	svc := newRosterService(&mockStudentAdminRepo{}, courses)

	err := svc.Enroll(context.Background(), "Data Structures", "s1")
	require.NoError(t, err)
	require.Len(t, courses.enrolled, 1)
	assert.Equal(t, [2]string{"c1", "s1"}, courses.enrolled[0])
}

func TestRosterServiceEnrollUnknownCourse(t *testing.T) {
	svc := newRosterService(&mockStudentAdminRepo{}, &mockCourseAdminRepo{})

	err := svc.Enroll(context.Background(), "Basket Weaving", "s1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
