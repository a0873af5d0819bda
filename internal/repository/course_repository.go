package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/acadrec-api/internal/models"
)

// CourseRepository handles courses and their explicit enrollment rosters.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new course repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// FindByName returns a course by its exact name.
func (r *CourseRepository) FindByName(ctx context.Context, name string) (*models.Course, error) {
	const query = `SELECT id, name, department, semester, created_at, updated_at FROM courses WHERE name = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, name); err != nil {
		return nil, err
	}
	return &course, nil
}

// ListRoster returns the explicitly enrolled students for a course. An empty
// result means the course has no explicit roster.
func (r *CourseRepository) ListRoster(ctx context.Context, courseID string) ([]models.Student, error) {
	const query = `SELECT s.id, s.roll_no, s.email, s.full_name, s.department, s.semester, s.active, s.created_at, s.updated_at
        FROM course_enrollments ce
        JOIN students s ON s.id = ce.student_id
        WHERE ce.course_id = $1
        ORDER BY s.roll_no`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, courseID); err != nil {
		return nil, fmt.Errorf("list course roster: %w", err)
	}
	return students, nil
}

// Create persists a new course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now
	const query = `INSERT INTO courses (id, name, department, semester, created_at, updated_at)
        VALUES (:id, :name, :department, :semester, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Enroll adds a student to a course's explicit roster.
func (r *CourseRepository) Enroll(ctx context.Context, courseID, studentID string) error {
	const query = `INSERT INTO course_enrollments (id, course_id, student_id, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (course_id, student_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), courseID, studentID, time.Now().UTC()); err != nil {
		return fmt.Errorf("enroll student: %w", err)
	}
	return nil
}
