package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/acadrec-api/internal/models"
	appErrors "github.com/noah-isme/acadrec-api/pkg/errors"
)

type studentAdminRepo interface {
	Create(ctx context.Context, student *models.Student) error
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
}

type courseAdminRepo interface {
	FindByName(ctx context.Context, name string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Enroll(ctx context.Context, courseID, studentID string) error
}

type dbObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// CreateStudentRequest registers one student in the directory.
type CreateStudentRequest struct {
	RollNo     string `json:"roll_no" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	FullName   string `json:"full_name" validate:"required"`
	Department string `json:"department" validate:"required"`
	Semester   int    `json:"semester" validate:"required,min=1,max=12"`
}

// CreateCourseRequest registers one course.
type CreateCourseRequest struct {
	Name       string `json:"name" validate:"required"`
	Department string `json:"department" validate:"required"`
	Semester   int    `json:"semester" validate:"required,min=1,max=12"`
}

// RosterService administers the student directory and course rosters that
// reference resolution reads from.
type RosterService struct {
	students  studentAdminRepo
	courses   courseAdminRepo
	validator *validator.Validate
	logger    *zap.Logger
	metrics   dbObserver
}

// NewRosterService constructs RosterService. metrics may be nil.
func NewRosterService(students studentAdminRepo, courses courseAdminRepo, validate *validator.Validate, logger *zap.Logger, metrics dbObserver) *RosterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{students: students, courses: courses, validator: validate, logger: logger, metrics: metrics}
}

// CreateStudent registers a new active student.
func (s *RosterService) CreateStudent(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student := &models.Student{
		RollNo:     req.RollNo,
		Email:      req.Email,
		FullName:   req.FullName,
		Department: req.Department,
		Semester:   req.Semester,
		Active:     true,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.logger.Info("student created", zap.String("roll_no", student.RollNo))
	return student, nil
}

// ListStudents returns directory entries matching the filter.
func (s *RosterService) ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	start := time.Now()
	students, total, err := s.students.List(ctx, filter)
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("students_list", time.Since(start))
	}
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return students, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// CreateCourse registers a new course.
func (s *RosterService) CreateCourse(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course := &models.Course{
		Name:       req.Name,
		Department: req.Department,
		Semester:   req.Semester,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return course, nil
}

// Enroll attaches a student to a course's explicit roster.
func (s *RosterService) Enroll(ctx context.Context, courseName, studentID string) error {
	if courseName == "" || studentID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "course name and student id required")
	}
	course, err := s.courses.FindByName(ctx, courseName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course "+courseName+" not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if err := s.courses.Enroll(ctx, course.ID, studentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll student")
	}
	s.logger.Info("student enrolled", zap.String("course", courseName), zap.String("student_id", studentID))
	return nil
}
