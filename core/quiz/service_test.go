package quiz_test

import (
	"context"
	"testing"

	"github.com/Evgeniy2001Poluhin/learning-platform/core/quiz"
	"github.com/Evgeniy2001Poluhin/learning-platform/core/user"
	"github.com/Evgeniy2001Poluhin/learning-platform/storage/database/dummy"
	"github.com/Evgeniy2001Poluhin/learning-platform/tests"
)

func setup(t *testing.T) (*quiz.Service, quiz.Repository, user.Repository) {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	quizRepo := dummydb.NewQuizRepository(db)
	usrRepo := dummydb.NewUserRepository(db)
	usrSvc := user.NewService(usrRepo, testutil.NopLogger{})
	return quiz.NewService(quizRepo, usrSvc, testutil.NopLogger{}), quizRepo, usrRepo
}

func intPtr(n int) *int { return &n }

func TestServiceCreateDefaults(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	qz, err := svc.Create(ctx, quiz.NewQuiz{ModuleID: "mod1", Title: "Basics"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if qz.PassingScore != 70 {
		t.Errorf("PassingScore = %d; want default 70", qz.PassingScore)
	}

	qz, err = svc.Create(ctx, quiz.NewQuiz{ModuleID: "mod1", Title: "Strict", PassingScore: intPtr(90)})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if qz.PassingScore != 90 {
		t.Errorf("PassingScore = %d; want 90", qz.PassingScore)
	}
}

func TestServiceAddQuestionDefaults(t *testing.T) {
	svc, quizRepo, _ := setup(t)
	ctx := context.Background()

	qz := testutil.CreateQuiz(t, quizRepo, "mod1", "Basics", 70)

	q1, err := svc.AddQuestion(ctx, qz.ID, quiz.NewQuestion{Text: "Q1", Type: quiz.TypeSingleChoice})
	if err != nil {
		t.Fatalf("AddQuestion() failed: %v", err)
	}
	if q1.Points != 1 {
		t.Errorf("Points = %d; want default 1", q1.Points)
	}
	if q1.OrderIndex != 0 {
		t.Errorf("OrderIndex = %d; want 0", q1.OrderIndex)
	}

	q2, err := svc.AddQuestion(ctx, qz.ID, quiz.NewQuestion{Text: "Q2", Type: quiz.TypeTrueFalse, Points: intPtr(5)})
	if err != nil {
		t.Fatalf("AddQuestion() failed: %v", err)
	}
	if q2.Points != 5 {
		t.Errorf("Points = %d; want 5", q2.Points)
	}
	if q2.OrderIndex != 1 {
		t.Errorf("OrderIndex = %d; want 1 (appended)", q2.OrderIndex)
	}

	if _, err = svc.AddQuestion(ctx, "nope", quiz.NewQuestion{Text: "Q", Type: quiz.TypeTrueFalse}); err != quiz.ErrNotFound {
		t.Errorf("AddQuestion(unknown quiz) err = %v; want ErrNotFound", err)
	}
}

func TestServiceSubmitAttempt(t *testing.T) {
	svc, quizRepo, usrRepo := setup(t)
	ctx := context.Background()

	student := testutil.CreateStudent(t, usrRepo, "amina")
	qz := testutil.CreateQuiz(t, quizRepo, "mod1", "Basics", 70)

	// 3 questions, 1 + 2 + 2 = 5 points
	q1 := testutil.AddQuestion(t, quizRepo, qz.ID, "Q1", quiz.TypeSingleChoice, 1, 0,
		[]string{"yes", "no"}, 0)
	q2 := testutil.AddQuestion(t, quizRepo, qz.ID, "Q2", quiz.TypeMultipleChoice, 2, 1,
		[]string{"a", "b", "c"}, 0, 2)
	q3 := testutil.AddQuestion(t, quizRepo, qz.ID, "Q3", quiz.TypeTrueFalse, 2, 2,
		[]string{"true", "false"}, 1)

	sub, err := svc.SubmitAttempt(ctx, qz.ID, student.ID, quiz.NewAttempt{
		Answers: map[string][]string{
			q1.ID: {q1.Options[0].ID},                   // correct: +1
			q2.ID: {q2.Options[0].ID},                   // subset only: +0
			q3.ID: {q3.Options[1].ID},                   // correct: +2
		},
	})
	if err != nil {
		t.Fatalf("SubmitAttempt() failed: %v", err)
	}
	if sub.Score != 3 {
		t.Errorf("Score = %d; want 3", sub.Score)
	}
	if sub.MaxScore != 5 {
		t.Errorf("MaxScore = %d; want 5", sub.MaxScore)
	}
	if sub.PercentageScore != 60.0 {
		t.Errorf("PercentageScore = %v; want 60", sub.PercentageScore)
	}
	if sub.Passed {
		t.Error("Passed = true; want false (60 < 70)")
	}
	if sub.SubmittedAt.IsZero() {
		t.Error("SubmittedAt is zero")
	}

	// one attempt per (student, quiz)
	if _, err = svc.SubmitAttempt(ctx, qz.ID, student.ID, quiz.NewAttempt{}); err != quiz.ErrAlreadySubmitted {
		t.Errorf("second SubmitAttempt() err = %v; want ErrAlreadySubmitted", err)
	}

	// first record is untouched
	subs, err := svc.QuerySubmissionsByStudent(ctx, student.ID)
	if err != nil {
		t.Fatalf("QuerySubmissionsByStudent() failed: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("got %d submissions; want 1", len(subs))
	}
	if subs[0].Score != 3 {
		t.Errorf("stored Score = %d; want 3", subs[0].Score)
	}
}

func TestServiceSubmitAttemptPassed(t *testing.T) {
	svc, quizRepo, usrRepo := setup(t)
	ctx := context.Background()

	student := testutil.CreateStudent(t, usrRepo, "kai")
	qz := testutil.CreateQuiz(t, quizRepo, "mod1", "Basics", 70)
	q1 := testutil.AddQuestion(t, quizRepo, qz.ID, "Q1", quiz.TypeSingleChoice, 1, 0,
		[]string{"yes", "no"}, 0)
	q2 := testutil.AddQuestion(t, quizRepo, qz.ID, "Q2", quiz.TypeTrueFalse, 1, 1,
		[]string{"true", "false"}, 0)
	testutil.AddQuestion(t, quizRepo, qz.ID, "Q3", quiz.TypeTrueFalse, 1, 2,
		[]string{"true", "false"}, 0)

	// 2 of 3 answered correctly; the unanswered question counts as wrong
	sub, err := svc.SubmitAttempt(ctx, qz.ID, student.ID, quiz.NewAttempt{
		Answers: map[string][]string{
			q1.ID: {q1.Options[0].ID},
			q2.ID: {q2.Options[0].ID},
		},
	})
	if err != nil {
		t.Fatalf("SubmitAttempt() failed: %v", err)
	}
	if sub.Score != 2 || sub.MaxScore != 3 {
		t.Errorf("score = %d/%d; want 2/3", sub.Score, sub.MaxScore)
	}
	if sub.PercentageScore < 66.6 || sub.PercentageScore > 66.7 {
		t.Errorf("PercentageScore = %v; want ~66.67", sub.PercentageScore)
	}
	if sub.Passed {
		t.Error("Passed = true; want false (66.67 < 70)")
	}
}

func TestServiceSubmitAttemptEmptyQuiz(t *testing.T) {
	svc, quizRepo, usrRepo := setup(t)
	ctx := context.Background()

	student := testutil.CreateStudent(t, usrRepo, "noor")
	qz := testutil.CreateQuiz(t, quizRepo, "mod1", "Empty", 70)

	sub, err := svc.SubmitAttempt(ctx, qz.ID, student.ID, quiz.NewAttempt{})
	if err != nil {
		t.Fatalf("SubmitAttempt() failed: %v", err)
	}
	if sub.Score != 0 || sub.MaxScore != 0 {
		t.Errorf("score = %d/%d; want 0/0", sub.Score, sub.MaxScore)
	}
	if sub.PercentageScore != 0 {
		t.Errorf("PercentageScore = %v; want 0", sub.PercentageScore)
	}
	if sub.Passed {
		t.Error("Passed = true; a quiz without questions cannot be passed")
	}
}

func TestServiceSubmitAttemptGuards(t *testing.T) {
	svc, quizRepo, usrRepo := setup(t)
	ctx := context.Background()

	teacher := testutil.CreateTeacher(t, usrRepo, "prof")
	qz := testutil.CreateQuiz(t, quizRepo, "mod1", "Basics", 70)

	if _, err := svc.SubmitAttempt(ctx, qz.ID, teacher.ID, quiz.NewAttempt{}); err != quiz.ErrNotStudent {
		t.Errorf("SubmitAttempt(teacher) err = %v; want ErrNotStudent", err)
	}
	if _, err := svc.SubmitAttempt(ctx, "nope", teacher.ID, quiz.NewAttempt{}); err != quiz.ErrNotFound {
		t.Errorf("SubmitAttempt(unknown quiz) err = %v; want ErrNotFound", err)
	}

	if _, err := svc.SubmitAttempt(ctx, qz.ID, "nope", quiz.NewAttempt{}); err != user.ErrNotFound {
		t.Errorf("SubmitAttempt(unknown student) err = %v; want user.ErrNotFound", err)
	}
}
