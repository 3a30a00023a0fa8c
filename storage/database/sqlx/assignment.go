package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Evgeniy2001Poluhin/learning-platform/core/assignment"
)

type assignmentRepository struct {
	db *sqlx.DB
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *sqlx.DB) *assignmentRepository {
	return &assignmentRepository{db: db}
}

type (
	assignmentRow struct {
		ID          string         `db:"id"`
		LessonID    string         `db:"lesson_id"`
		Title       string         `db:"title"`
		Description sql.NullString `db:"description"`
		MaxScore    int            `db:"max_score"`
		Deadline    sql.NullTime   `db:"deadline"`
		CreatedAt   sql.NullTime   `db:"created_at"`
		UpdatedAt   sql.NullTime   `db:"updated_at"`
	}

	submissionRow struct {
		ID           string         `db:"id"`
		StudentID    string         `db:"student_id"`
		AssignmentID string         `db:"assignment_id"`
		Content      sql.NullString `db:"content"`
		FileURL      sql.NullString `db:"file_url"`
		Status       string         `db:"status"`
		Score        sql.NullInt64  `db:"score"`
		Feedback     sql.NullString `db:"feedback"`
		SubmittedAt  sql.NullTime   `db:"submitted_at"`
		GradedAt     sql.NullTime   `db:"graded_at"`
	}
)

func (repo assignmentRepository) unpackAssignment(row assignmentRow) assignment.Assignment {
	asg := assignment.Assignment{
		ID:          row.ID,
		LessonID:    row.LessonID,
		Title:       row.Title,
		Description: row.Description.String,
		MaxScore:    row.MaxScore,
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
	if row.Deadline.Valid {
		deadline := row.Deadline.Time
		asg.Deadline = &deadline
	}
	return asg
}

func (repo assignmentRepository) unpackSubmission(row submissionRow) assignment.Submission {
	sub := assignment.Submission{
		ID:           row.ID,
		StudentID:    row.StudentID,
		AssignmentID: row.AssignmentID,
		Content:      row.Content.String,
		FileURL:      row.FileURL.String,
		Status:       row.Status,
		Feedback:     row.Feedback.String,
		SubmittedAt:  row.SubmittedAt.Time,
	}
	if row.Score.Valid {
		score := int(row.Score.Int64)
		sub.Score = &score
	}
	if row.GradedAt.Valid {
		gradedAt := row.GradedAt.Time
		sub.GradedAt = &gradedAt
	}
	return sub
}

// trapNoRowsErr maps psql "no rows" err to notFound
func (repo assignmentRepository) trapNoRowsErr(err, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

func (repo assignmentRepository) CreateAssignment(ctx context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	asg.ID = uuid.New().String()

	var deadline sql.NullTime
	if asg.Deadline != nil {
		deadline = sql.NullTime{Time: asg.Deadline.UTC(), Valid: true}
	}
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO assignment (id, lesson_id, title, description, max_score, deadline, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		asg.ID, asg.LessonID, asg.Title, sql.NullString{String: asg.Description, Valid: asg.Description != ""},
		asg.MaxScore, deadline, asg.CreatedAt, asg.UpdatedAt)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	return asg, nil
}

func (repo assignmentRepository) GetAssignmentByID(ctx context.Context, id string) (assignment.Assignment, error) {
	var row assignmentRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM assignment WHERE id = $1`, id); err != nil {
		return assignment.Assignment{}, repo.trapNoRowsErr(err, assignment.ErrNotFound, "getting assignment by ID")
	}
	return repo.unpackAssignment(row), nil
}

func (repo assignmentRepository) SubmissionExists(ctx context.Context, studentID, assignmentID string) (bool, error) {
	var exists bool
	err := repo.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM submission WHERE student_id = $1 AND assignment_id = $2)`, studentID, assignmentID)
	if err != nil {
		return false, errors.Wrap(err, "checking submission existence")
	}
	return exists, nil
}

func (repo assignmentRepository) CreateSubmission(ctx context.Context, sub assignment.Submission) (assignment.Submission, error) {
	sub.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO submission (id, student_id, assignment_id, content, file_url, status, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sub.ID, sub.StudentID, sub.AssignmentID,
		sql.NullString{String: sub.Content, Valid: sub.Content != ""},
		sql.NullString{String: sub.FileURL, Valid: sub.FileURL != ""},
		sub.Status, sub.SubmittedAt)
	if err != nil {
		if isUniqueViolation(err, "submission_student_assignment_key") {
			return assignment.Submission{}, assignment.ErrAlreadySubmitted
		}
		return assignment.Submission{}, errors.Wrap(err, "inserting submission")
	}
	return sub, nil
}

func (repo assignmentRepository) GetSubmissionByID(ctx context.Context, id string) (assignment.Submission, error) {
	var row submissionRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM submission WHERE id = $1`, id); err != nil {
		return assignment.Submission{}, repo.trapNoRowsErr(err, assignment.ErrSubmissionNotFound, "getting submission by ID")
	}
	return repo.unpackSubmission(row), nil
}

func (repo assignmentRepository) UpdateSubmission(ctx context.Context, sub assignment.Submission) (assignment.Submission, error) {
	var score sql.NullInt64
	if sub.Score != nil {
		score = sql.NullInt64{Int64: int64(*sub.Score), Valid: true}
	}
	var gradedAt sql.NullTime
	if sub.GradedAt != nil {
		gradedAt = sql.NullTime{Time: sub.GradedAt.UTC(), Valid: true}
	}
	res, err := repo.db.ExecContext(ctx,
		`UPDATE submission SET status = $2, score = $3, feedback = $4, graded_at = $5 WHERE id = $1`,
		sub.ID, sub.Status, score, sql.NullString{String: sub.Feedback, Valid: sub.Feedback != ""}, gradedAt)
	if err != nil {
		return assignment.Submission{}, errors.Wrap(err, "updating submission")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return assignment.Submission{}, assignment.ErrSubmissionNotFound
	}
	return sub, nil
}

func (repo assignmentRepository) QuerySubmissionsByStudent(ctx context.Context, studentID string) ([]assignment.Submission, error) {
	return repo.querySubmissions(ctx, `SELECT * FROM submission WHERE student_id = $1 ORDER BY submitted_at DESC`, studentID)
}

func (repo assignmentRepository) QuerySubmissionsByAssignment(ctx context.Context, assignmentID string) ([]assignment.Submission, error) {
	return repo.querySubmissions(ctx, `SELECT * FROM submission WHERE assignment_id = $1 ORDER BY submitted_at DESC`, assignmentID)
}

func (repo assignmentRepository) querySubmissions(ctx context.Context, query string, arg interface{}) ([]assignment.Submission, error) {
	var rows []submissionRow
	if err := repo.db.SelectContext(ctx, &rows, query, arg); err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}
	subs := make([]assignment.Submission, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, repo.unpackSubmission(row))
	}
	return subs, nil
}
