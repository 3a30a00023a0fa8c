package quiz

import (
	"time"

	"github.com/Evgeniy2001Poluhin/learning-platform/core"
)

// Question types
const (
	TypeSingleChoice   = "SINGLE_CHOICE"
	TypeMultipleChoice = "MULTIPLE_CHOICE"
	TypeTrueFalse      = "TRUE_FALSE"
)

var QuestionTypes = []string{TypeSingleChoice, TypeMultipleChoice, TypeTrueFalse}

type (
	Quiz struct {
		ID               string     `json:"id"`
		ModuleID         string     `json:"module_id"`
		Title            string     `json:"title"`
		Description      string     `json:"description,omitempty"`
		PassingScore     int        `json:"passing_score"` // percentage threshold
		TimeLimitMinutes *int       `json:"time_limit_minutes,omitempty"`
		Questions        []Question `json:"questions,omitempty"`
		CreatedAt        time.Time  `json:"created_at"` // UTC
		UpdatedAt        time.Time  `json:"updated_at"` // UTC
	}

	Question struct {
		ID         string         `json:"id"`
		QuizID     string         `json:"quiz_id"`
		Text       string         `json:"text"`
		Type       string         `json:"type"`
		OrderIndex int            `json:"order_index"`
		Points     int            `json:"points"`
		Options    []AnswerOption `json:"options,omitempty"`
	}

	AnswerOption struct {
		ID         string `json:"id"`
		QuestionID string `json:"question_id"`
		Text       string `json:"text"`
		IsCorrect  bool   `json:"-"` // never leaks to clients
		OrderIndex int    `json:"order_index"`
	}

	// Submission is the immutable record of a student's single quiz attempt.
	Submission struct {
		ID               string    `json:"id"`
		StudentID        string    `json:"student_id"`
		QuizID           string    `json:"quiz_id"`
		Score            int       `json:"score"`
		MaxScore         int       `json:"max_score"`
		PercentageScore  float64   `json:"percentage_score"`
		Passed           bool      `json:"passed"`
		SubmittedAt      time.Time `json:"submitted_at"` // UTC
		TimeTakenMinutes *int      `json:"time_taken_minutes,omitempty"`
	}
)

// CorrectOptionIDs returns the set of option IDs flagged correct for this question.
func (q Question) CorrectOptionIDs() map[string]struct{} {
	ids := make(map[string]struct{})
	for _, opt := range q.Options {
		if opt.IsCorrect {
			ids[opt.ID] = struct{}{}
		}
	}
	return ids
}

// NewQuiz contains information needed to create a new Quiz.
type NewQuiz struct {
	ModuleID         string `json:"module_id" validate:"required"`
	Title            string `json:"title" validate:"required,max=200"`
	Description      string `json:"description" validate:"omitempty,max=1000"`
	PassingScore     *int   `json:"passing_score" validate:"omitempty,gte=0,lte=100"` // defaults to 70
	TimeLimitMinutes *int   `json:"time_limit_minutes" validate:"omitempty,gt=0"`
}

func (nq *NewQuiz) Validate() error {
	nq.Title = core.CleanString(nq.Title)
	nq.Description = core.CleanString(nq.Description)
	return core.Validate.Struct(nq)
}

// NewQuestion contains information needed to add a Question to a Quiz.
type NewQuestion struct {
	Text       string `json:"text" validate:"required,max=1000"`
	Type       string `json:"type" validate:"required,questiontype"`
	Points     *int   `json:"points" validate:"omitempty,gt=0"` // defaults to 1
	OrderIndex *int   `json:"order_index" validate:"omitempty,gte=0"`
}

func (nq *NewQuestion) Validate() error {
	nq.Text = core.CleanString(nq.Text)
	return core.Validate.Struct(nq)
}

// NewAnswerOption contains information needed to add an AnswerOption to a Question.
type NewAnswerOption struct {
	Text       string `json:"text" validate:"required,max=500"`
	IsCorrect  bool   `json:"is_correct"`
	OrderIndex *int   `json:"order_index" validate:"omitempty,gte=0"`
}

func (no *NewAnswerOption) Validate() error {
	no.Text = core.CleanString(no.Text)
	return core.Validate.Struct(no)
}

// NewAttempt is a student's answer sheet for a single quiz attempt.
// Answers maps a question ID to the submitted option IDs; questions absent
// from the map count as unanswered.
type NewAttempt struct {
	Answers          map[string][]string `json:"answers"`
	TimeTakenMinutes *int                `json:"time_taken_minutes" validate:"omitempty,gte=0"`
}

func (na *NewAttempt) Validate() error {
	return core.Validate.Struct(na)
}
