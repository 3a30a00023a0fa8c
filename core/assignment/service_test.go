package assignment_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Evgeniy2001Poluhin/learning-platform/core/assignment"
	"github.com/Evgeniy2001Poluhin/learning-platform/core/user"
	"github.com/Evgeniy2001Poluhin/learning-platform/storage/database/dummy"
	"github.com/Evgeniy2001Poluhin/learning-platform/tests"
)

func setup(t *testing.T) (*assignment.Service, assignment.Repository, user.Repository, *testutil.EmailServiceMock) {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	asgRepo := dummydb.NewAssignmentRepository(db)
	usrRepo := dummydb.NewUserRepository(db)
	usrSvc := user.NewService(usrRepo, testutil.NopLogger{})
	mailSvc := testutil.NewEmailServiceMock()
	return assignment.NewService(asgRepo, usrSvc, mailSvc, testutil.NopLogger{}), asgRepo, usrRepo, mailSvc
}

func intPtr(n int) *int { return &n }

func TestServiceSubmit(t *testing.T) {
	svc, asgRepo, usrRepo, _ := setup(t)
	ctx := context.Background()

	student := testutil.CreateStudent(t, usrRepo, "amina")
	asg := testutil.CreateAssignment(t, asgRepo, "lesson1", "Essay", 100, nil)

	sub, err := svc.Submit(ctx, asg.ID, student.ID, assignment.NewSubmission{Content: "my essay"})
	if err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	if sub.Status != assignment.StatusSubmitted {
		t.Errorf("Status = %q; want %q", sub.Status, assignment.StatusSubmitted)
	}
	if sub.Score != nil || sub.GradedAt != nil {
		t.Error("fresh submission must be ungraded")
	}
	if sub.SubmittedAt.IsZero() {
		t.Error("SubmittedAt is zero")
	}

	// one submission per (student, assignment)
	if _, err = svc.Submit(ctx, asg.ID, student.ID, assignment.NewSubmission{}); err != assignment.ErrAlreadySubmitted {
		t.Errorf("second Submit() err = %v; want ErrAlreadySubmitted", err)
	}
}

func TestServiceSubmitDeadline(t *testing.T) {
	svc, asgRepo, usrRepo, _ := setup(t)
	ctx := context.Background()

	student := testutil.CreateStudent(t, usrRepo, "amina")

	past := time.Now().UTC().Add(-time.Hour)
	expired := testutil.CreateAssignment(t, asgRepo, "lesson1", "Late essay", 100, &past)
	if _, err := svc.Submit(ctx, expired.ID, student.ID, assignment.NewSubmission{}); err != assignment.ErrDeadlinePassed {
		t.Errorf("Submit(past deadline) err = %v; want ErrDeadlinePassed", err)
	}

	future := time.Now().UTC().Add(time.Hour)
	open := testutil.CreateAssignment(t, asgRepo, "lesson1", "On-time essay", 100, &future)
	if _, err := svc.Submit(ctx, open.ID, student.ID, assignment.NewSubmission{}); err != nil {
		t.Errorf("Submit(future deadline) failed: %v", err)
	}
}

func TestServiceSubmitGuards(t *testing.T) {
	svc, asgRepo, usrRepo, _ := setup(t)
	ctx := context.Background()

	teacher := testutil.CreateTeacher(t, usrRepo, "prof")
	asg := testutil.CreateAssignment(t, asgRepo, "lesson1", "Essay", 100, nil)

	if _, err := svc.Submit(ctx, asg.ID, teacher.ID, assignment.NewSubmission{}); err != assignment.ErrNotStudent {
		t.Errorf("Submit(teacher) err = %v; want ErrNotStudent", err)
	}
	if _, err := svc.Submit(ctx, "nope", teacher.ID, assignment.NewSubmission{}); err != assignment.ErrNotFound {
		t.Errorf("Submit(unknown assignment) err = %v; want ErrNotFound", err)
	}
}

func TestServiceGrade(t *testing.T) {
	svc, asgRepo, usrRepo, mailSvc := setup(t)
	ctx := context.Background()

	student := testutil.CreateStudent(t, usrRepo, "amina")
	asg := testutil.CreateAssignment(t, asgRepo, "lesson1", "Essay", 20, nil)

	sub, err := svc.Submit(ctx, asg.ID, student.ID, assignment.NewSubmission{Content: "my essay"})
	if err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}

	graded, err := svc.Grade(ctx, sub.ID, assignment.Grade{Score: intPtr(15), Feedback: "solid work"})
	if err != nil {
		t.Fatalf("Grade() failed: %v", err)
	}
	if graded.Status != assignment.StatusGraded {
		t.Errorf("Status = %q; want %q", graded.Status, assignment.StatusGraded)
	}
	if graded.Score == nil || *graded.Score != 15 {
		t.Errorf("Score = %v; want 15", graded.Score)
	}
	if graded.Feedback != "solid work" {
		t.Errorf("Feedback = %q; want %q", graded.Feedback, "solid work")
	}
	if graded.GradedAt == nil {
		t.Error("GradedAt not set")
	}

	sent := mailSvc.Sent()
	if len(sent) != 1 {
		t.Fatalf("got %d emails; want 1", len(sent))
	}
	if !strings.Contains(sent[0].Body, "15/20") {
		t.Errorf("email body %q does not mention the grade", sent[0].Body)
	}

	// regrading replaces the previous grade
	regraded, err := svc.Grade(ctx, sub.ID, assignment.Grade{Score: intPtr(18)})
	if err != nil {
		t.Fatalf("Grade() regrade failed: %v", err)
	}
	if *regraded.Score != 18 {
		t.Errorf("regraded Score = %d; want 18", *regraded.Score)
	}
	if regraded.Feedback != "" {
		t.Errorf("regraded Feedback = %q; want replaced with empty", regraded.Feedback)
	}
}

func TestServiceGradeGuards(t *testing.T) {
	svc, asgRepo, usrRepo, _ := setup(t)
	ctx := context.Background()

	student := testutil.CreateStudent(t, usrRepo, "amina")
	asg := testutil.CreateAssignment(t, asgRepo, "lesson1", "Essay", 20, nil)
	sub, err := svc.Submit(ctx, asg.ID, student.ID, assignment.NewSubmission{})
	if err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}

	if _, err := svc.Grade(ctx, sub.ID, assignment.Grade{Score: intPtr(21)}); err != assignment.ErrScoreOutOfRange {
		t.Errorf("Grade(21/20) err = %v; want ErrScoreOutOfRange", err)
	}
	if _, err := svc.Grade(ctx, "nope", assignment.Grade{Score: intPtr(5)}); err != assignment.ErrSubmissionNotFound {
		t.Errorf("Grade(unknown submission) err = %v; want ErrSubmissionNotFound", err)
	}

	// a full score is still in range
	if _, err := svc.Grade(ctx, sub.ID, assignment.Grade{Score: intPtr(20)}); err != nil {
		t.Errorf("Grade(20/20) failed: %v", err)
	}
}
