package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/Evgeniy2001Poluhin/learning-platform/core/quiz"
)

type quizRepository struct {
	db *quizTable
}

var _ quiz.Repository = (*quizRepository)(nil) // interface compliance check

func NewQuizRepository(db *DB) *quizRepository {
	return &quizRepository{db: db.quiz}
}

func (repo *quizRepository) CreateQuiz(ctx context.Context, qz quiz.Quiz) (quiz.Quiz, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	qz.ID = uuid.New().String()
	qz.Questions = nil
	repo.db.quizzes[qz.ID] = &qz
	return qz, nil
}

func (repo *quizRepository) GetQuizByID(ctx context.Context, id string) (quiz.Quiz, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if qz, ok := repo.db.quizzes[id]; ok {
		return *qz, nil
	}
	return quiz.Quiz{}, quiz.ErrNotFound
}

func (repo *quizRepository) GetQuizWithQuestions(ctx context.Context, id string) (quiz.Quiz, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	qz, ok := repo.db.quizzes[id]
	if !ok {
		return quiz.Quiz{}, quiz.ErrNotFound
	}
	snapshot := *qz
	snapshot.Questions = nil
	for _, qst := range repo.db.questions {
		if qst.QuizID == id {
			snapshot.Questions = append(snapshot.Questions, repo.materializeQuestion(*qst))
		}
	}
	sort.Slice(snapshot.Questions, func(i, j int) bool {
		return snapshot.Questions[i].OrderIndex < snapshot.Questions[j].OrderIndex
	})
	return snapshot, nil
}

func (repo *quizRepository) materializeQuestion(qst quiz.Question) quiz.Question {
	qst.Options = nil
	for _, opt := range repo.db.options {
		if opt.QuestionID == qst.ID {
			qst.Options = append(qst.Options, *opt)
		}
	}
	sort.Slice(qst.Options, func(i, j int) bool {
		return qst.Options[i].OrderIndex < qst.Options[j].OrderIndex
	})
	return qst
}

func (repo *quizRepository) CreateQuestion(ctx context.Context, qst quiz.Question) (quiz.Question, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	qst.ID = uuid.New().String()
	qst.Options = nil
	repo.db.questions[qst.ID] = &qst
	return qst, nil
}

func (repo *quizRepository) GetQuestionByID(ctx context.Context, id string) (quiz.Question, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if qst, ok := repo.db.questions[id]; ok {
		return repo.materializeQuestion(*qst), nil
	}
	return quiz.Question{}, quiz.ErrQuestionNotFound
}

func (repo *quizRepository) CreateAnswerOption(ctx context.Context, opt quiz.AnswerOption) (quiz.AnswerOption, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	opt.ID = uuid.New().String()
	repo.db.options[opt.ID] = &opt
	return opt, nil
}

func (repo *quizRepository) SubmissionExists(ctx context.Context, studentID, quizID string) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.submissionExists(studentID, quizID), nil
}

func (repo *quizRepository) submissionExists(studentID, quizID string) bool {
	for _, sub := range repo.db.submissions {
		if sub.StudentID == studentID && sub.QuizID == quizID {
			return true
		}
	}
	return false
}

func (repo *quizRepository) CreateSubmission(ctx context.Context, sub quiz.Submission) (quiz.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// (student, quiz) unique key
	if repo.submissionExists(sub.StudentID, sub.QuizID) {
		return quiz.Submission{}, quiz.ErrAlreadySubmitted
	}
	sub.ID = uuid.New().String()
	repo.db.submissions[sub.ID] = &sub
	return sub, nil
}

func (repo *quizRepository) QuerySubmissionsByStudent(ctx context.Context, studentID string) ([]quiz.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	subs := make([]quiz.Submission, 0)
	for _, sub := range repo.db.submissions {
		if sub.StudentID == studentID {
			subs = append(subs, *sub)
		}
	}
	return subs, nil
}

func (repo *quizRepository) QuerySubmissionsByQuiz(ctx context.Context, quizID string) ([]quiz.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	subs := make([]quiz.Submission, 0)
	for _, sub := range repo.db.submissions {
		if sub.QuizID == quizID {
			subs = append(subs, *sub)
		}
	}
	return subs, nil
}
