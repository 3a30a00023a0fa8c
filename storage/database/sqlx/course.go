package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Evgeniy2001Poluhin/learning-platform/core/course"
)

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sqlx.DB) *courseRepository {
	return &courseRepository{db: db}
}

type (
	courseRow struct {
		ID              string         `db:"id"`
		Title           string         `db:"title"`
		Description     sql.NullString `db:"description"`
		CategoryID      string         `db:"category_id"`
		InstructorID    string         `db:"instructor_id"`
		Published       bool           `db:"published"`
		DurationHours   int            `db:"duration_hours"`
		DifficultyLevel string         `db:"difficulty_level"`
		CreatedAt       sql.NullTime   `db:"created_at"`
		UpdatedAt       sql.NullTime   `db:"updated_at"`
	}

	enrollmentRow struct {
		ID                 string          `db:"id"`
		StudentID          string          `db:"student_id"`
		CourseID           string          `db:"course_id"`
		Status             string          `db:"status"`
		ProgressPercentage float64         `db:"progress_percentage"`
		EnrolledAt         sql.NullTime    `db:"enrolled_at"`
		CompletedAt        sql.NullTime    `db:"completed_at"`
		FinalGrade         sql.NullFloat64 `db:"final_grade"`
	}
)

func (repo courseRepository) unpackCourse(row courseRow) course.Course {
	return course.Course{
		ID:              row.ID,
		Title:           row.Title,
		Description:     row.Description.String,
		CategoryID:      row.CategoryID,
		InstructorID:    row.InstructorID,
		Published:       row.Published,
		DurationHours:   row.DurationHours,
		DifficultyLevel: row.DifficultyLevel,
		CreatedAt:       row.CreatedAt.Time,
		UpdatedAt:       row.UpdatedAt.Time,
	}
}

func (repo courseRepository) unpackEnrollment(row enrollmentRow) course.Enrollment {
	enr := course.Enrollment{
		ID:                 row.ID,
		StudentID:          row.StudentID,
		CourseID:           row.CourseID,
		Status:             row.Status,
		ProgressPercentage: row.ProgressPercentage,
		EnrolledAt:         row.EnrolledAt.Time,
	}
	if row.CompletedAt.Valid {
		completedAt := row.CompletedAt.Time
		enr.CompletedAt = &completedAt
	}
	if row.FinalGrade.Valid {
		grade := row.FinalGrade.Float64
		enr.FinalGrade = &grade
	}
	return enr
}

// trapNoRowsErr maps psql "no rows" err to notFound
func (repo courseRepository) trapNoRowsErr(err, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

func (repo courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	crs.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO course (id, title, description, category_id, instructor_id, published, duration_hours, difficulty_level, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		crs.ID, crs.Title, sql.NullString{String: crs.Description, Valid: crs.Description != ""},
		crs.CategoryID, crs.InstructorID, crs.Published, crs.DurationHours, crs.DifficultyLevel,
		crs.CreatedAt, crs.UpdatedAt)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return crs, nil
}

func (repo courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	var row courseRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM course WHERE id = $1`, id); err != nil {
		return course.Course{}, repo.trapNoRowsErr(err, course.ErrNotFound, "getting course by ID")
	}
	return repo.unpackCourse(row), nil
}

func (repo courseRepository) EnrollmentExists(ctx context.Context, studentID, courseID string) (bool, error) {
	var exists bool
	err := repo.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM enrollment WHERE student_id = $1 AND course_id = $2)`, studentID, courseID)
	if err != nil {
		return false, errors.Wrap(err, "checking enrollment existence")
	}
	return exists, nil
}

func (repo courseRepository) CreateEnrollment(ctx context.Context, enr course.Enrollment) (course.Enrollment, error) {
	enr.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO enrollment (id, student_id, course_id, status, progress_percentage, enrolled_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		enr.ID, enr.StudentID, enr.CourseID, enr.Status, enr.ProgressPercentage, enr.EnrolledAt)
	if err != nil {
		if isUniqueViolation(err, "enrollment_student_course_key") {
			return course.Enrollment{}, course.ErrAlreadyEnrolled
		}
		return course.Enrollment{}, errors.Wrap(err, "inserting enrollment")
	}
	return enr, nil
}

func (repo courseRepository) GetEnrollmentByID(ctx context.Context, id string) (course.Enrollment, error) {
	var row enrollmentRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM enrollment WHERE id = $1`, id); err != nil {
		return course.Enrollment{}, repo.trapNoRowsErr(err, course.ErrEnrollmentNotFound, "getting enrollment by ID")
	}
	return repo.unpackEnrollment(row), nil
}

func (repo courseRepository) UpdateEnrollment(ctx context.Context, enr course.Enrollment) (course.Enrollment, error) {
	var completedAt sql.NullTime
	if enr.CompletedAt != nil {
		completedAt = sql.NullTime{Time: enr.CompletedAt.UTC(), Valid: true}
	}
	var finalGrade sql.NullFloat64
	if enr.FinalGrade != nil {
		finalGrade = sql.NullFloat64{Float64: *enr.FinalGrade, Valid: true}
	}
	res, err := repo.db.ExecContext(ctx,
		`UPDATE enrollment SET status = $2, progress_percentage = $3, completed_at = $4, final_grade = $5 WHERE id = $1`,
		enr.ID, enr.Status, enr.ProgressPercentage, completedAt, finalGrade)
	if err != nil {
		return course.Enrollment{}, errors.Wrap(err, "updating enrollment")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return course.Enrollment{}, course.ErrEnrollmentNotFound
	}
	return enr, nil
}

func (repo courseRepository) QueryEnrollmentsByStudent(ctx context.Context, studentID string) ([]course.Enrollment, error) {
	return repo.queryEnrollments(ctx, `SELECT * FROM enrollment WHERE student_id = $1 ORDER BY enrolled_at DESC`, studentID)
}

func (repo courseRepository) QueryEnrollmentsByCourse(ctx context.Context, courseID string) ([]course.Enrollment, error) {
	return repo.queryEnrollments(ctx, `SELECT * FROM enrollment WHERE course_id = $1 ORDER BY enrolled_at DESC`, courseID)
}

func (repo courseRepository) CountActiveEnrollments(ctx context.Context, courseID string) (int, error) {
	var count int
	err := repo.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM enrollment WHERE course_id = $1 AND status = $2`, courseID, course.StatusActive)
	if err != nil {
		return 0, errors.Wrap(err, "counting active enrollments")
	}
	return count, nil
}

func (repo courseRepository) queryEnrollments(ctx context.Context, query string, arg interface{}) ([]course.Enrollment, error) {
	var rows []enrollmentRow
	if err := repo.db.SelectContext(ctx, &rows, query, arg); err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	enrs := make([]course.Enrollment, 0, len(rows))
	for _, row := range rows {
		enrs = append(enrs, repo.unpackEnrollment(row))
	}
	return enrs, nil
}
