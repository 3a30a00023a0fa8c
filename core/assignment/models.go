package assignment

import (
	"time"

	"github.com/Evgeniy2001Poluhin/learning-platform/core"
)

// Submission statuses
const (
	StatusSubmitted = "SUBMITTED"
	StatusGraded    = "GRADED"
)

type (
	Assignment struct {
		ID          string     `json:"id"`
		LessonID    string     `json:"lesson_id"`
		Title       string     `json:"title"`
		Description string     `json:"description,omitempty"`
		MaxScore    int        `json:"max_score"`
		Deadline    *time.Time `json:"deadline,omitempty"` // UTC
		CreatedAt   time.Time  `json:"created_at"`         // UTC
		UpdatedAt   time.Time  `json:"updated_at"`         // UTC
	}

	// Submission is a student's answer to an Assignment. At most one exists
	// per (student, assignment); it moves SUBMITTED -> GRADED and regrading
	// overwrites the previous score and feedback.
	Submission struct {
		ID           string     `json:"id"`
		StudentID    string     `json:"student_id"`
		AssignmentID string     `json:"assignment_id"`
		Content      string     `json:"content,omitempty"`
		FileURL      string     `json:"file_url,omitempty"`
		Status       string     `json:"status"`
		Score        *int       `json:"score,omitempty"`
		Feedback     string     `json:"feedback,omitempty"`
		SubmittedAt  time.Time  `json:"submitted_at"` // UTC
		GradedAt     *time.Time `json:"graded_at,omitempty"`
	}
)

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	LessonID    string     `json:"lesson_id" validate:"required"`
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"omitempty,max=2000"`
	MaxScore    int        `json:"max_score" validate:"required,gt=0"`
	Deadline    *time.Time `json:"deadline"`
}

func (na *NewAssignment) Validate() error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	return core.Validate.Struct(na)
}

// NewSubmission contains a student's answer content; text and file are both
// optional, mirroring the store's schema.
type NewSubmission struct {
	Content string `json:"content" validate:"omitempty,max=5000"`
	FileURL string `json:"file_url" validate:"omitempty,url"`
}

func (ns *NewSubmission) Validate() error {
	ns.Content = core.CleanString(ns.Content)
	ns.FileURL = core.CleanString(ns.FileURL)
	return core.Validate.Struct(ns)
}

// Grade contains an instructor's assessment of a Submission.
type Grade struct {
	Score    *int   `json:"score" validate:"required,gte=0"`
	Feedback string `json:"feedback" validate:"omitempty,max=2000"`
}

func (g *Grade) Validate() error {
	g.Feedback = core.CleanString(g.Feedback)
	return core.Validate.Struct(g)
}
