package assignment

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/Evgeniy2001Poluhin/learning-platform/core"
	"github.com/Evgeniy2001Poluhin/learning-platform/core/user"
)

var (
	// errors
	ErrNotFound           = errors.New("assignment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrNotStudent         = errors.New("user is not a student")
	ErrAlreadySubmitted   = errors.New("assignment already submitted by this student")
	ErrDeadlinePassed     = errors.New("assignment deadline has passed")
	ErrScoreOutOfRange    = errors.New("score cannot exceed maximum score")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
		GetAssignmentByID(ctx context.Context, id string) (Assignment, error)
		// SubmissionExists reports whether a submission for (studentID, assignmentID) exists.
		SubmissionExists(ctx context.Context, studentID, assignmentID string) (bool, error)
		// CreateSubmission persists a new Submission; it returns
		// ErrAlreadySubmitted when the (student, assignment) unique key is taken.
		CreateSubmission(ctx context.Context, sub Submission) (Submission, error)
		GetSubmissionByID(ctx context.Context, id string) (Submission, error)
		UpdateSubmission(ctx context.Context, sub Submission) (Submission, error)
		QuerySubmissionsByStudent(ctx context.Context, studentID string) ([]Submission, error)
		QuerySubmissionsByAssignment(ctx context.Context, assignmentID string) ([]Submission, error)
	}

	// UserGetter looks up users for role checks and notifications.
	UserGetter interface {
		GetByID(ctx context.Context, id string) (user.User, error)
	}

	Service struct {
		repo    Repository
		users   UserGetter
		mailSvc core.EmailService
		log     core.Logger
	}
)

func NewService(repo Repository, users UserGetter, mailSvc core.EmailService, log core.Logger) *Service {
	return &Service{repo: repo, users: users, mailSvc: mailSvc, log: log}
}

func (svc *Service) Create(ctx context.Context, na NewAssignment) (Assignment, error) {
	now := time.Now().UTC()
	asg := Assignment{
		LessonID:    na.LessonID,
		Title:       na.Title,
		Description: na.Description,
		MaxScore:    na.MaxScore,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if na.Deadline != nil {
		deadline := na.Deadline.UTC()
		asg.Deadline = &deadline
	}
	return svc.repo.CreateAssignment(ctx, asg)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Assignment, error) {
	return svc.repo.GetAssignmentByID(ctx, id)
}

// Submit records a student's submission. A submission is rejected after the
// assignment's deadline, and a (student, assignment) pair may only ever
// submit once; resubmissions fail with ErrAlreadySubmitted.
func (svc *Service) Submit(ctx context.Context, assignmentID, studentID string, ns NewSubmission) (Submission, error) {
	asg, err := svc.repo.GetAssignmentByID(ctx, assignmentID)
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
	submitted, err := svc.repo.SubmissionExists(ctx, student.ID, asg.ID)
	if err != nil {
		return Submission{}, errors.Wrap(err, "checking prior submission")
	}
	if submitted {
		return Submission{}, ErrAlreadySubmitted
	}

	now := nowFunc().UTC()
	if asg.Deadline != nil && now.After(*asg.Deadline) {
		return Submission{}, ErrDeadlinePassed
	}

	sub := Submission{
		StudentID:    student.ID,
		AssignmentID: asg.ID,
		Content:      ns.Content,
		FileURL:      ns.FileURL,
		Status:       StatusSubmitted,
		SubmittedAt:  now,
	}
	sub, err = svc.repo.CreateSubmission(ctx, sub)
	if err != nil {
		return Submission{}, err
	}
	svc.log.Info("student " + student.ID + " submitted assignment " + asg.ID)
	return sub, nil
}

// Grade scores a submission. Grading is idempotent by replacement: grading
// an already-graded submission overwrites the prior score and feedback.
func (svc *Service) Grade(ctx context.Context, submissionID string, g Grade) (Submission, error) {
	sub, err := svc.repo.GetSubmissionByID(ctx, submissionID)
	if err != nil {
		return Submission{}, err
	}
	asg, err := svc.repo.GetAssignmentByID(ctx, sub.AssignmentID)
	if err != nil {
		return Submission{}, err
	}
	if *g.Score > asg.MaxScore {
		return Submission{}, ErrScoreOutOfRange
	}

	now := nowFunc().UTC()
	sub.Score = g.Score
	sub.Feedback = g.Feedback
	sub.Status = StatusGraded
	sub.GradedAt = &now

	sub, err = svc.repo.UpdateSubmission(ctx, sub)
	if err != nil {
		return Submission{}, err
	}
	svc.notifyGraded(ctx, sub, asg)
	return sub, nil
}

func (svc *Service) QuerySubmissionsByStudent(ctx context.Context, studentID string) ([]Submission, error) {
	return svc.repo.QuerySubmissionsByStudent(ctx, studentID)
}

func (svc *Service) QuerySubmissionsByAssignment(ctx context.Context, assignmentID string) ([]Submission, error) {
	return svc.repo.QuerySubmissionsByAssignment(ctx, assignmentID)
}

func (svc *Service) notifyGraded(ctx context.Context, sub Submission, asg Assignment) {
	student, err := svc.users.GetByID(ctx, sub.StudentID)
	if err != nil || student.Email == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: student.Name, Address: student.Email}},
		Subject: "Your submission has been graded",
		Body: fmt.Sprintf(
			"Your submission for %q was graded: %d/%d.", asg.Title, *sub.Score, asg.MaxScore),
	})
}
