package course_test

import (
	"context"
	"testing"

	"github.com/Evgeniy2001Poluhin/learning-platform/core/course"
	"github.com/Evgeniy2001Poluhin/learning-platform/core/user"
	"github.com/Evgeniy2001Poluhin/learning-platform/storage/database/dummy"
	"github.com/Evgeniy2001Poluhin/learning-platform/tests"
)

func setup(t *testing.T) (*course.Service, course.Repository, user.Repository, *testutil.EmailServiceMock) {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	crsRepo := dummydb.NewCourseRepository(db)
	usrRepo := dummydb.NewUserRepository(db)
	usrSvc := user.NewService(usrRepo, testutil.NopLogger{})
	mailSvc := testutil.NewEmailServiceMock()
	return course.NewService(crsRepo, usrSvc, mailSvc, testutil.NopLogger{}), crsRepo, usrRepo, mailSvc
}

func floatPtr(f float64) *float64 { return &f }

func TestServiceEnroll(t *testing.T) {
	svc, crsRepo, usrRepo, _ := setup(t)
	ctx := context.Background()

	teacher := testutil.CreateTeacher(t, usrRepo, "prof")
	student := testutil.CreateStudent(t, usrRepo, "amina")
	crs := testutil.CreateCourse(t, crsRepo, "Go 101", teacher.ID, true)

	enr, err := svc.Enroll(ctx, student.ID, crs.ID)
	if err != nil {
		t.Fatalf("Enroll() failed: %v", err)
	}
	if enr.Status != course.StatusActive {
		t.Errorf("Status = %q; want %q", enr.Status, course.StatusActive)
	}
	if enr.ProgressPercentage != 0 {
		t.Errorf("ProgressPercentage = %v; want 0", enr.ProgressPercentage)
	}
	if enr.EnrolledAt.IsZero() {
		t.Error("EnrolledAt is zero")
	}

	// one enrollment per (student, course)
	if _, err = svc.Enroll(ctx, student.ID, crs.ID); err != course.ErrAlreadyEnrolled {
		t.Errorf("second Enroll() err = %v; want ErrAlreadyEnrolled", err)
	}

	// unpublished courses accept enrollments too
	draft := testutil.CreateCourse(t, crsRepo, "Go 102", teacher.ID, false)
	if _, err = svc.Enroll(ctx, student.ID, draft.ID); err != nil {
		t.Errorf("Enroll(unpublished) failed: %v", err)
	}
}

func TestServiceEnrollGuards(t *testing.T) {
	svc, crsRepo, usrRepo, _ := setup(t)
	ctx := context.Background()

	teacher := testutil.CreateTeacher(t, usrRepo, "prof")
	crs := testutil.CreateCourse(t, crsRepo, "Go 101", teacher.ID, true)

	if _, err := svc.Enroll(ctx, teacher.ID, crs.ID); err != course.ErrNotStudent {
		t.Errorf("Enroll(teacher) err = %v; want ErrNotStudent", err)
	}

	student := testutil.CreateStudent(t, usrRepo, "amina")
	if _, err := svc.Enroll(ctx, student.ID, "nope"); err != course.ErrNotFound {
		t.Errorf("Enroll(unknown course) err = %v; want ErrNotFound", err)
	}
	if _, err := svc.Enroll(ctx, "nope", crs.ID); err != user.ErrNotFound {
		t.Errorf("Enroll(unknown student) err = %v; want user.ErrNotFound", err)
	}
}

func TestServiceUpdateProgress(t *testing.T) {
	svc, crsRepo, usrRepo, mailSvc := setup(t)
	ctx := context.Background()

	teacher := testutil.CreateTeacher(t, usrRepo, "prof")
	student := testutil.CreateStudent(t, usrRepo, "amina")
	crs := testutil.CreateCourse(t, crsRepo, "Go 101", teacher.ID, true)

	enr, err := svc.Enroll(ctx, student.ID, crs.ID)
	if err != nil {
		t.Fatalf("Enroll() failed: %v", err)
	}

	enr, err = svc.UpdateProgress(ctx, enr.ID, course.ProgressUpdate{ProgressPercentage: floatPtr(40)})
	if err != nil {
		t.Fatalf("UpdateProgress() failed: %v", err)
	}
	if enr.Status != course.StatusActive {
		t.Errorf("Status = %q; want still %q", enr.Status, course.StatusActive)
	}
	if enr.CompletedAt != nil {
		t.Error("CompletedAt set before completion")
	}

	// reaching 100 completes the enrollment and notifies once
	enr, err = svc.UpdateProgress(ctx, enr.ID, course.ProgressUpdate{ProgressPercentage: floatPtr(100)})
	if err != nil {
		t.Fatalf("UpdateProgress() failed: %v", err)
	}
	if enr.Status != course.StatusCompleted {
		t.Errorf("Status = %q; want %q", enr.Status, course.StatusCompleted)
	}
	if enr.CompletedAt == nil {
		t.Error("CompletedAt not set on completion")
	}
	if got := len(mailSvc.Sent()); got != 1 {
		t.Errorf("got %d emails; want 1", got)
	}

	// completion is terminal and the notification is not repeated
	enr, err = svc.UpdateProgress(ctx, enr.ID, course.ProgressUpdate{ProgressPercentage: floatPtr(100)})
	if err != nil {
		t.Fatalf("UpdateProgress() failed: %v", err)
	}
	if enr.Status != course.StatusCompleted {
		t.Errorf("Status = %q; want still %q", enr.Status, course.StatusCompleted)
	}
	if got := len(mailSvc.Sent()); got != 1 {
		t.Errorf("got %d emails after repeat; want still 1", got)
	}
}

func TestServiceUnenroll(t *testing.T) {
	svc, crsRepo, usrRepo, _ := setup(t)
	ctx := context.Background()

	teacher := testutil.CreateTeacher(t, usrRepo, "prof")
	student := testutil.CreateStudent(t, usrRepo, "amina")
	crs := testutil.CreateCourse(t, crsRepo, "Go 101", teacher.ID, true)

	enr, err := svc.Enroll(ctx, student.ID, crs.ID)
	if err != nil {
		t.Fatalf("Enroll() failed: %v", err)
	}

	enr, err = svc.Unenroll(ctx, enr.ID)
	if err != nil {
		t.Fatalf("Unenroll() failed: %v", err)
	}
	if enr.Status != course.StatusDropped {
		t.Errorf("Status = %q; want %q", enr.Status, course.StatusDropped)
	}

	// dropped is terminal
	if _, err = svc.Unenroll(ctx, enr.ID); err != course.ErrEnrollmentNotActive {
		t.Errorf("Unenroll(dropped) err = %v; want ErrEnrollmentNotActive", err)
	}
}

func TestServiceUnenrollCompleted(t *testing.T) {
	svc, crsRepo, usrRepo, _ := setup(t)
	ctx := context.Background()

	teacher := testutil.CreateTeacher(t, usrRepo, "prof")
	student := testutil.CreateStudent(t, usrRepo, "amina")
	crs := testutil.CreateCourse(t, crsRepo, "Go 101", teacher.ID, true)

	enr, err := svc.Enroll(ctx, student.ID, crs.ID)
	if err != nil {
		t.Fatalf("Enroll() failed: %v", err)
	}
	if _, err = svc.UpdateProgress(ctx, enr.ID, course.ProgressUpdate{ProgressPercentage: floatPtr(100)}); err != nil {
		t.Fatalf("UpdateProgress() failed: %v", err)
	}

	// a completed enrollment cannot be dropped
	if _, err = svc.Unenroll(ctx, enr.ID); err != course.ErrEnrollmentNotActive {
		t.Errorf("Unenroll(completed) err = %v; want ErrEnrollmentNotActive", err)
	}
}

func TestServiceSetFinalGrade(t *testing.T) {
	svc, crsRepo, usrRepo, _ := setup(t)
	ctx := context.Background()

	teacher := testutil.CreateTeacher(t, usrRepo, "prof")
	student := testutil.CreateStudent(t, usrRepo, "amina")
	crs := testutil.CreateCourse(t, crsRepo, "Go 101", teacher.ID, true)

	enr, err := svc.Enroll(ctx, student.ID, crs.ID)
	if err != nil {
		t.Fatalf("Enroll() failed: %v", err)
	}

	enr, err = svc.SetFinalGrade(ctx, enr.ID, course.FinalGrade{Grade: floatPtr(87.5)})
	if err != nil {
		t.Fatalf("SetFinalGrade() failed: %v", err)
	}
	if enr.FinalGrade == nil || *enr.FinalGrade != 87.5 {
		t.Errorf("FinalGrade = %v; want 87.5", enr.FinalGrade)
	}

	if _, err = svc.SetFinalGrade(ctx, "nope", course.FinalGrade{Grade: floatPtr(50)}); err != course.ErrEnrollmentNotFound {
		t.Errorf("SetFinalGrade(unknown) err = %v; want ErrEnrollmentNotFound", err)
	}
}

func TestServiceCountActive(t *testing.T) {
	svc, crsRepo, usrRepo, _ := setup(t)
	ctx := context.Background()

	teacher := testutil.CreateTeacher(t, usrRepo, "prof")
	crs := testutil.CreateCourse(t, crsRepo, "Go 101", teacher.ID, true)

	s1 := testutil.CreateStudent(t, usrRepo, "amina")
	s2 := testutil.CreateStudent(t, usrRepo, "kai")
	s3 := testutil.CreateStudent(t, usrRepo, "noor")

	e1, _ := svc.Enroll(ctx, s1.ID, crs.ID)
	if _, err := svc.Enroll(ctx, s2.ID, crs.ID); err != nil {
		t.Fatalf("Enroll() failed: %v", err)
	}
	if _, err := svc.Enroll(ctx, s3.ID, crs.ID); err != nil {
		t.Fatalf("Enroll() failed: %v", err)
	}
	if _, err := svc.Unenroll(ctx, e1.ID); err != nil {
		t.Fatalf("Unenroll() failed: %v", err)
	}

	count, err := svc.CountActive(ctx, crs.ID)
	if err != nil {
		t.Fatalf("CountActive() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("CountActive() = %d; want 2", count)
	}

	enrs, err := svc.QueryByCourse(ctx, crs.ID)
	if err != nil {
		t.Fatalf("QueryByCourse() failed: %v", err)
	}
	if len(enrs) != 3 {
		t.Errorf("QueryByCourse() returned %d enrollments; want 3", len(enrs))
	}
}
