package course

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
	ErrNotFound            = errors.New("course not found")
	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrNotStudent          = errors.New("user is not a student")
	ErrAlreadyEnrolled     = errors.New("student is already enrolled in this course")
	ErrEnrollmentNotActive = errors.New("enrollment is no longer active")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		GetCourseByID(ctx context.Context, id string) (Course, error)
		// EnrollmentExists reports whether an enrollment for (studentID, courseID) exists.
		EnrollmentExists(ctx context.Context, studentID, courseID string) (bool, error)
		// CreateEnrollment persists a new Enrollment; it returns
		// ErrAlreadyEnrolled when the (student, course) unique key is taken.
		CreateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
		GetEnrollmentByID(ctx context.Context, id string) (Enrollment, error)
		UpdateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
		QueryEnrollmentsByStudent(ctx context.Context, studentID string) ([]Enrollment, error)
		QueryEnrollmentsByCourse(ctx context.Context, courseID string) ([]Enrollment, error)
		CountActiveEnrollments(ctx context.Context, courseID string) (int, error)
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

func (svc *Service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	now := time.Now().UTC()
	crs := Course{
		Title:           nc.Title,
		Description:     nc.Description,
		CategoryID:      nc.CategoryID,
		InstructorID:    nc.InstructorID,
		Published:       nc.Published,
		DurationHours:   nc.DurationHours,
		DifficultyLevel: nc.DifficultyLevel,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if crs.DifficultyLevel == "" {
		crs.DifficultyLevel = LevelBeginner
	}
	return svc.repo.CreateCourse(ctx, crs)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

// Enroll creates an ACTIVE enrollment with zero progress. Enrolling into an
// unpublished course is allowed; callers wanting stricter policy check
// Course.Published themselves. A student enrolls in a course at most once.
func (svc *Service) Enroll(ctx context.Context, studentID, courseID string) (Enrollment, error) {
	student, err := svc.users.GetByID(ctx, studentID)
	if err != nil {
		return Enrollment{}, err
	}
	if !student.IsStudent() {
		return Enrollment{}, ErrNotStudent
	}
	crs, err := svc.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return Enrollment{}, err
	}

	// fast pre-check; the store's unique key is what actually closes the race
	enrolled, err := svc.repo.EnrollmentExists(ctx, student.ID, crs.ID)
	if err != nil {
		return Enrollment{}, errors.Wrap(err, "checking prior enrollment")
	}
	if enrolled {
		return Enrollment{}, ErrAlreadyEnrolled
	}

	enr := Enrollment{
		StudentID:          student.ID,
		CourseID:           crs.ID,
		Status:             StatusActive,
		ProgressPercentage: 0,
		EnrolledAt:         nowFunc().UTC(),
	}
	enr, err = svc.repo.CreateEnrollment(ctx, enr)
	if err != nil {
		return Enrollment{}, err
	}
	svc.log.Info("student " + student.ID + " enrolled in course " + crs.ID)
	return enr, nil
}

// UpdateProgress records a new progress percentage. Reaching 100 on an
// ACTIVE enrollment completes it; a terminal enrollment keeps recording
// progress but its status never changes.
func (svc *Service) UpdateProgress(ctx context.Context, enrollmentID string, pu ProgressUpdate) (Enrollment, error) {
	enr, err := svc.repo.GetEnrollmentByID(ctx, enrollmentID)
	if err != nil {
		return Enrollment{}, err
	}

	var justCompleted bool
	enr.ProgressPercentage = *pu.ProgressPercentage
	if enr.ProgressPercentage >= 100.0 && enr.Status == StatusActive {
		now := nowFunc().UTC()
		enr.Status = StatusCompleted
		enr.CompletedAt = &now
		justCompleted = true
	}

	enr, err = svc.repo.UpdateEnrollment(ctx, enr)
	if err != nil {
		return Enrollment{}, err
	}
	if justCompleted {
		svc.notifyCompleted(ctx, enr)
	}
	return enr, nil
}

// Unenroll drops an ACTIVE enrollment. Terminal enrollments stay terminal:
// dropping a completed (or already dropped) enrollment is rejected.
func (svc *Service) Unenroll(ctx context.Context, enrollmentID string) (Enrollment, error) {
	enr, err := svc.repo.GetEnrollmentByID(ctx, enrollmentID)
	if err != nil {
		return Enrollment{}, err
	}
	if enr.Terminal() {
		return Enrollment{}, ErrEnrollmentNotActive
	}
	enr.Status = StatusDropped
	return svc.repo.UpdateEnrollment(ctx, enr)
}

// SetFinalGrade records the final course grade regardless of status.
func (svc *Service) SetFinalGrade(ctx context.Context, enrollmentID string, fg FinalGrade) (Enrollment, error) {
	enr, err := svc.repo.GetEnrollmentByID(ctx, enrollmentID)
	if err != nil {
		return Enrollment{}, err
	}
	enr.FinalGrade = fg.Grade
	return svc.repo.UpdateEnrollment(ctx, enr)
}

func (svc *Service) GetEnrollment(ctx context.Context, enrollmentID string) (Enrollment, error) {
	return svc.repo.GetEnrollmentByID(ctx, enrollmentID)
}

func (svc *Service) QueryByStudent(ctx context.Context, studentID string) ([]Enrollment, error) {
	return svc.repo.QueryEnrollmentsByStudent(ctx, studentID)
}

func (svc *Service) QueryByCourse(ctx context.Context, courseID string) ([]Enrollment, error) {
	return svc.repo.QueryEnrollmentsByCourse(ctx, courseID)
}

func (svc *Service) CountActive(ctx context.Context, courseID string) (int, error) {
	return svc.repo.CountActiveEnrollments(ctx, courseID)
}

func (svc *Service) notifyCompleted(ctx context.Context, enr Enrollment) {
	student, err := svc.users.GetByID(ctx, enr.StudentID)
	if err != nil || student.Email == "" {
		return
	}
	crs, err := svc.repo.GetCourseByID(ctx, enr.CourseID)
	if err != nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: student.Name, Address: student.Email}},
		Subject: "Course completed",
		Body:    fmt.Sprintf("Congratulations! You have completed %q.", crs.Title),
	})
}
