package course

import (
	"time"

	"github.com/Evgeniy2001Poluhin/learning-platform/core"
)

// Enrollment statuses
const (
	StatusActive    = "ACTIVE"
	StatusCompleted = "COMPLETED"
	StatusDropped   = "DROPPED"
)

// Difficulty levels
const (
	LevelBeginner     = "BEGINNER"
	LevelIntermediate = "INTERMEDIATE"
	LevelAdvanced     = "ADVANCED"
)

type (
	Course struct {
		ID              string    `json:"id"`
		Title           string    `json:"title"`
		Description     string    `json:"description,omitempty"`
		CategoryID      string    `json:"category_id"`
		InstructorID    string    `json:"instructor_id"`
		Published       bool      `json:"published"`
		DurationHours   int       `json:"duration_hours"`
		DifficultyLevel string    `json:"difficulty_level"`
		CreatedAt       time.Time `json:"created_at"` // UTC
		UpdatedAt       time.Time `json:"updated_at"` // UTC
	}

	// Enrollment ties a student to a course. At most one exists per
	// (student, course). It starts ACTIVE and ends in COMPLETED (progress
	// reached 100) or DROPPED (explicit unenroll); both states are terminal.
	Enrollment struct {
		ID                 string     `json:"id"`
		StudentID          string     `json:"student_id"`
		CourseID           string     `json:"course_id"`
		Status             string     `json:"status"`
		ProgressPercentage float64    `json:"progress_percentage"`
		EnrolledAt         time.Time  `json:"enrolled_at"` // UTC
		CompletedAt        *time.Time `json:"completed_at,omitempty"`
		FinalGrade         *float64   `json:"final_grade,omitempty"`
	}
)

// Terminal reports whether no further status transition is permitted.
func (e Enrollment) Terminal() bool {
	return e.Status == StatusCompleted || e.Status == StatusDropped
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title           string `json:"title" validate:"required,max=200"`
	Description     string `json:"description" validate:"omitempty,max=2000"`
	CategoryID      string `json:"category_id" validate:"required"`
	InstructorID    string `json:"instructor_id" validate:"required"`
	Published       bool   `json:"published"`
	DurationHours   int    `json:"duration_hours" validate:"omitempty,gte=0"`
	DifficultyLevel string `json:"difficulty_level" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
}

func (nc *NewCourse) Validate() error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	return core.Validate.Struct(nc)
}

// ProgressUpdate carries a new progress percentage for an enrollment.
type ProgressUpdate struct {
	ProgressPercentage *float64 `json:"progress_percentage" validate:"required,gte=0,lte=100"`
}

func (pu *ProgressUpdate) Validate() error {
	return core.Validate.Struct(pu)
}

// FinalGrade carries an instructor's final course grade for an enrollment.
type FinalGrade struct {
	Grade *float64 `json:"grade" validate:"required,gte=0,lte=100"`
}

func (fg *FinalGrade) Validate() error {
	return core.Validate.Struct(fg)
}
