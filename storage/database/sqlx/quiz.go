package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/Evgeniy2001Poluhin/learning-platform/core/quiz"
)

type quizRepository struct {
	db *sqlx.DB
}

var _ quiz.Repository = (*quizRepository)(nil) // interface compliance check

func NewQuizRepository(db *sqlx.DB) *quizRepository {
	return &quizRepository{db: db}
}

type (
	quizRow struct {
		ID               string         `db:"id"`
		ModuleID         string         `db:"module_id"`
		Title            string         `db:"title"`
		Description      sql.NullString `db:"description"`
		PassingScore     int            `db:"passing_score"`
		TimeLimitMinutes sql.NullInt64  `db:"time_limit_minutes"`
		CreatedAt        sql.NullTime   `db:"created_at"`
		UpdatedAt        sql.NullTime   `db:"updated_at"`
	}

	questionRow struct {
		ID         string `db:"id"`
		QuizID     string `db:"quiz_id"`
		Text       string `db:"text"`
		Type       string `db:"type"`
		OrderIndex int    `db:"order_index"`
		Points     int    `db:"points"`
	}

	answerOptionRow struct {
		ID         string `db:"id"`
		QuestionID string `db:"question_id"`
		Text       string `db:"text"`
		IsCorrect  bool   `db:"is_correct"`
		OrderIndex int    `db:"order_index"`
	}

	quizSubmissionRow struct {
		ID               string        `db:"id"`
		StudentID        string        `db:"student_id"`
		QuizID           string        `db:"quiz_id"`
		Score            int           `db:"score"`
		MaxScore         int           `db:"max_score"`
		PercentageScore  float64       `db:"percentage_score"`
		Passed           bool          `db:"passed"`
		SubmittedAt      sql.NullTime  `db:"submitted_at"`
		TimeTakenMinutes sql.NullInt64 `db:"time_taken_minutes"`
	}
)

func (repo quizRepository) unpackQuiz(row quizRow) quiz.Quiz {
	qz := quiz.Quiz{
		ID:           row.ID,
		ModuleID:     row.ModuleID,
		Title:        row.Title,
		Description:  row.Description.String,
		PassingScore: row.PassingScore,
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}
	if row.TimeLimitMinutes.Valid {
		limit := int(row.TimeLimitMinutes.Int64)
		qz.TimeLimitMinutes = &limit
	}
	return qz
}

func (repo quizRepository) unpackQuestion(row questionRow) quiz.Question {
	return quiz.Question{
		ID:         row.ID,
		QuizID:     row.QuizID,
		Text:       row.Text,
		Type:       row.Type,
		OrderIndex: row.OrderIndex,
		Points:     row.Points,
	}
}

func (repo quizRepository) unpackSubmission(row quizSubmissionRow) quiz.Submission {
	sub := quiz.Submission{
		ID:              row.ID,
		StudentID:       row.StudentID,
		QuizID:          row.QuizID,
		Score:           row.Score,
		MaxScore:        row.MaxScore,
		PercentageScore: row.PercentageScore,
		Passed:          row.Passed,
		SubmittedAt:     row.SubmittedAt.Time,
	}
	if row.TimeTakenMinutes.Valid {
		taken := int(row.TimeTakenMinutes.Int64)
		sub.TimeTakenMinutes = &taken
	}
	return sub
}

// trapNoRowsErr maps psql "no rows" err to notFound
func (repo quizRepository) trapNoRowsErr(err, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

func (repo quizRepository) CreateQuiz(ctx context.Context, qz quiz.Quiz) (quiz.Quiz, error) {
	qz.ID = uuid.New().String()

	var timeLimit sql.NullInt64
	if qz.TimeLimitMinutes != nil {
		timeLimit = sql.NullInt64{Int64: int64(*qz.TimeLimitMinutes), Valid: true}
	}
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO quiz (id, module_id, title, description, passing_score, time_limit_minutes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		qz.ID, qz.ModuleID, qz.Title, sql.NullString{String: qz.Description, Valid: qz.Description != ""},
		qz.PassingScore, timeLimit, qz.CreatedAt, qz.UpdatedAt)
	if err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "inserting quiz")
	}
	return qz, nil
}

func (repo quizRepository) GetQuizByID(ctx context.Context, id string) (quiz.Quiz, error) {
	var row quizRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM quiz WHERE id = $1`, id); err != nil {
		return quiz.Quiz{}, repo.trapNoRowsErr(err, quiz.ErrNotFound, "getting quiz by ID")
	}
	return repo.unpackQuiz(row), nil
}

func (repo quizRepository) GetQuizWithQuestions(ctx context.Context, id string) (quiz.Quiz, error) {
	qz, err := repo.GetQuizByID(ctx, id)
	if err != nil {
		return quiz.Quiz{}, err
	}

	var qstRows []questionRow
	err = repo.db.SelectContext(ctx, &qstRows,
		`SELECT * FROM question WHERE quiz_id = $1 ORDER BY order_index`, qz.ID)
	if err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "querying quiz questions")
	}
	if len(qstRows) == 0 {
		return qz, nil
	}

	qstIDs := make([]string, 0, len(qstRows))
	for _, row := range qstRows {
		qstIDs = append(qstIDs, row.ID)
	}
	var optRows []answerOptionRow
	err = repo.db.SelectContext(ctx, &optRows,
		`SELECT * FROM answer_option WHERE question_id = ANY($1) ORDER BY order_index`, pq.Array(qstIDs))
	if err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "querying answer options")
	}

	optsByQst := make(map[string][]quiz.AnswerOption, len(qstRows))
	for _, row := range optRows {
		optsByQst[row.QuestionID] = append(optsByQst[row.QuestionID], quiz.AnswerOption(row))
	}
	qz.Questions = make([]quiz.Question, 0, len(qstRows))
	for _, row := range qstRows {
		qst := repo.unpackQuestion(row)
		qst.Options = optsByQst[qst.ID]
		qz.Questions = append(qz.Questions, qst)
	}
	return qz, nil
}

func (repo quizRepository) CreateQuestion(ctx context.Context, qst quiz.Question) (quiz.Question, error) {
	qst.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO question (id, quiz_id, text, type, order_index, points) VALUES ($1, $2, $3, $4, $5, $6)`,
		qst.ID, qst.QuizID, qst.Text, qst.Type, qst.OrderIndex, qst.Points)
	if err != nil {
		return quiz.Question{}, errors.Wrap(err, "inserting question")
	}
	return qst, nil
}

func (repo quizRepository) GetQuestionByID(ctx context.Context, id string) (quiz.Question, error) {
	var row questionRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM question WHERE id = $1`, id); err != nil {
		return quiz.Question{}, repo.trapNoRowsErr(err, quiz.ErrQuestionNotFound, "getting question by ID")
	}
	qst := repo.unpackQuestion(row)

	var optRows []answerOptionRow
	err := repo.db.SelectContext(ctx, &optRows,
		`SELECT * FROM answer_option WHERE question_id = $1 ORDER BY order_index`, qst.ID)
	if err != nil {
		return quiz.Question{}, errors.Wrap(err, "querying answer options")
	}
	for _, optRow := range optRows {
		qst.Options = append(qst.Options, quiz.AnswerOption(optRow))
	}
	return qst, nil
}

func (repo quizRepository) CreateAnswerOption(ctx context.Context, opt quiz.AnswerOption) (quiz.AnswerOption, error) {
	opt.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO answer_option (id, question_id, text, is_correct, order_index) VALUES ($1, $2, $3, $4, $5)`,
		opt.ID, opt.QuestionID, opt.Text, opt.IsCorrect, opt.OrderIndex)
	if err != nil {
		return quiz.AnswerOption{}, errors.Wrap(err, "inserting answer option")
	}
	return opt, nil
}

func (repo quizRepository) SubmissionExists(ctx context.Context, studentID, quizID string) (bool, error) {
	var exists bool
	err := repo.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM quiz_submission WHERE student_id = $1 AND quiz_id = $2)`, studentID, quizID)
	if err != nil {
		return false, errors.Wrap(err, "checking quiz submission existence")
	}
	return exists, nil
}

func (repo quizRepository) CreateSubmission(ctx context.Context, sub quiz.Submission) (quiz.Submission, error) {
	sub.ID = uuid.New().String()

	var timeTaken sql.NullInt64
	if sub.TimeTakenMinutes != nil {
		timeTaken = sql.NullInt64{Int64: int64(*sub.TimeTakenMinutes), Valid: true}
	}
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO quiz_submission (id, student_id, quiz_id, score, max_score, percentage_score, passed, submitted_at, time_taken_minutes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		sub.ID, sub.StudentID, sub.QuizID, sub.Score, sub.MaxScore, sub.PercentageScore, sub.Passed,
		sub.SubmittedAt, timeTaken)
	if err != nil {
		if isUniqueViolation(err, "quiz_submission_student_quiz_key") {
			return quiz.Submission{}, quiz.ErrAlreadySubmitted
		}
		return quiz.Submission{}, errors.Wrap(err, "inserting quiz submission")
	}
	return sub, nil
}

func (repo quizRepository) QuerySubmissionsByStudent(ctx context.Context, studentID string) ([]quiz.Submission, error) {
	return repo.querySubmissions(ctx, `SELECT * FROM quiz_submission WHERE student_id = $1 ORDER BY submitted_at DESC`, studentID)
}

func (repo quizRepository) QuerySubmissionsByQuiz(ctx context.Context, quizID string) ([]quiz.Submission, error) {
	return repo.querySubmissions(ctx, `SELECT * FROM quiz_submission WHERE quiz_id = $1 ORDER BY submitted_at DESC`, quizID)
}

func (repo quizRepository) querySubmissions(ctx context.Context, query string, arg interface{}) ([]quiz.Submission, error) {
	var rows []quizSubmissionRow
	if err := repo.db.SelectContext(ctx, &rows, query, arg); err != nil {
		return nil, errors.Wrap(err, "querying quiz submissions")
	}
	subs := make([]quiz.Submission, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, repo.unpackSubmission(row))
	}
	return subs, nil
}
