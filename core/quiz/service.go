package quiz

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/Evgeniy2001Poluhin/learning-platform/core"
	"github.com/Evgeniy2001Poluhin/learning-platform/core/user"
)

var (
	// errors
	ErrNotFound         = errors.New("quiz not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrNotStudent       = errors.New("user is not a student")
	ErrAlreadySubmitted = errors.New("quiz already taken by this student")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateQuiz(ctx context.Context, qz Quiz) (Quiz, error)
		// GetQuizByID returns quiz metadata without its questions.
		GetQuizByID(ctx context.Context, id string) (Quiz, error)
		// GetQuizWithQuestions returns the quiz fully materialized: all
		// questions with all their options, ordered by order_index.
		GetQuizWithQuestions(ctx context.Context, id string) (Quiz, error)
		CreateQuestion(ctx context.Context, qst Question) (Question, error)
		GetQuestionByID(ctx context.Context, id string) (Question, error)
		CreateAnswerOption(ctx context.Context, opt AnswerOption) (AnswerOption, error)
		// SubmissionExists reports whether a submission for (studentID, quizID) exists.
		SubmissionExists(ctx context.Context, studentID, quizID string) (bool, error)
		// CreateSubmission persists a new Submission; it returns
		// ErrAlreadySubmitted when the (student, quiz) unique key is taken.
		CreateSubmission(ctx context.Context, sub Submission) (Submission, error)
		QuerySubmissionsByStudent(ctx context.Context, studentID string) ([]Submission, error)
		QuerySubmissionsByQuiz(ctx context.Context, quizID string) ([]Submission, error)
	}

	// UserGetter looks up users for role checks.
	UserGetter interface {
		GetByID(ctx context.Context, id string) (user.User, error)
	}

	Service struct {
		repo  Repository
		users UserGetter
		log   core.Logger
	}
)

func NewService(repo Repository, users UserGetter, log core.Logger) *Service {
	return &Service{repo: repo, users: users, log: log}
}

func (svc *Service) Create(ctx context.Context, nq NewQuiz) (Quiz, error) {
	now := time.Now().UTC()
	qz := Quiz{
		ModuleID:         nq.ModuleID,
		Title:            nq.Title,
		Description:      nq.Description,
		PassingScore:     70,
		TimeLimitMinutes: nq.TimeLimitMinutes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if nq.PassingScore != nil {
		qz.PassingScore = *nq.PassingScore
	}
	return svc.repo.CreateQuiz(ctx, qz)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Quiz, error) {
	return svc.repo.GetQuizByID(ctx, id)
}

func (svc *Service) GetWithQuestions(ctx context.Context, id string) (Quiz, error) {
	return svc.repo.GetQuizWithQuestions(ctx, id)
}

// AddQuestion appends a question to a quiz; when no order index is given the
// question goes after the existing ones.
func (svc *Service) AddQuestion(ctx context.Context, quizID string, nq NewQuestion) (Question, error) {
	qz, err := svc.repo.GetQuizWithQuestions(ctx, quizID)
	if err != nil {
		return Question{}, err
	}
	qst := Question{
		QuizID:     qz.ID,
		Text:       nq.Text,
		Type:       nq.Type,
		OrderIndex: len(qz.Questions),
		Points:     1,
	}
	if nq.OrderIndex != nil {
		qst.OrderIndex = *nq.OrderIndex
	}
	if nq.Points != nil {
		qst.Points = *nq.Points
	}
	return svc.repo.CreateQuestion(ctx, qst)
}

func (svc *Service) AddAnswerOption(ctx context.Context, questionID string, no NewAnswerOption) (AnswerOption, error) {
	qst, err := svc.repo.GetQuestionByID(ctx, questionID)
	if err != nil {
		return AnswerOption{}, err
	}
	opt := AnswerOption{
		QuestionID: qst.ID,
		Text:       no.Text,
		IsCorrect:  no.IsCorrect,
		OrderIndex: len(qst.Options),
	}
	if no.OrderIndex != nil {
		opt.OrderIndex = *no.OrderIndex
	}
	return svc.repo.CreateAnswerOption(ctx, opt)
}

// SubmitAttempt grades a student's answers against the quiz's question
// snapshot and persists the resulting Submission. An attempt is single-shot:
// a second attempt for the same (student, quiz) fails with
// ErrAlreadySubmitted and leaves the first record untouched.
func (svc *Service) SubmitAttempt(ctx context.Context, quizID, studentID string, na NewAttempt) (Submission, error) {
	qz, err := svc.repo.GetQuizWithQuestions(ctx, quizID)
	if err != nil {
		return Submission{}, err
	}
	student, err := svc.users.GetByID(ctx, studentID)
	if err != nil {
		return Submission{}, err
	}
	if !student.IsStudent() {
		return Submission{}, ErrNotStudent
	}

	// fast pre-check; the store's unique key is what actually closes the race
	taken, err := svc.repo.SubmissionExists(ctx, student.ID, qz.ID)
	if err != nil {
		return Submission{}, errors.Wrap(err, "checking prior attempt")
	}
	if taken {
		return Submission{}, ErrAlreadySubmitted
	}

	var score, maxScore int
	for _, qst := range qz.Questions {
		maxScore += qst.Points

		submitted, answered := na.Answers[qst.ID]
		if !answered {
			continue // unanswered counts as wrong, not excluded
		}
		if EvaluateAnswer(qst.Type, qst.CorrectOptionIDs(), submitted) {
			score += qst.Points
		}
	}

	// a quiz without questions cannot be passed
	var pct float64
	if maxScore > 0 {
		pct = float64(score) * 100.0 / float64(maxScore)
	}
	passed := maxScore > 0 && pct >= float64(qz.PassingScore)

	sub := Submission{
		StudentID:        student.ID,
		QuizID:           qz.ID,
		Score:            score,
		MaxScore:         maxScore,
		PercentageScore:  pct,
		Passed:           passed,
		SubmittedAt:      nowFunc().UTC(),
		TimeTakenMinutes: na.TimeTakenMinutes,
	}
	sub, err = svc.repo.CreateSubmission(ctx, sub)
	if err != nil {
		return Submission{}, err
	}
	svc.log.Info("student " + student.ID + " took quiz " + qz.ID)
	return sub, nil
}

func (svc *Service) QuerySubmissionsByStudent(ctx context.Context, studentID string) ([]Submission, error) {
	return svc.repo.QuerySubmissionsByStudent(ctx, studentID)
}

func (svc *Service) QuerySubmissionsByQuiz(ctx context.Context, quizID string) ([]Submission, error) {
	return svc.repo.QuerySubmissionsByQuiz(ctx, quizID)
}
