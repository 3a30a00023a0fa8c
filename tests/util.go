package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/Evgeniy2001Poluhin/learning-platform/core/assignment"
	"github.com/Evgeniy2001Poluhin/learning-platform/core/course"
	"github.com/Evgeniy2001Poluhin/learning-platform/core/quiz"
	"github.com/Evgeniy2001Poluhin/learning-platform/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	usr.SetActive(isActive)
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateStudent(t *testing.T, repo user.Repository, uname string) user.User {
	t.Helper()
	return CreateUser(t, repo, uname, uname, uname+"@test.io", "", []string{user.RoleStudent}, true)
}

func CreateTeacher(t *testing.T, repo user.Repository, uname string) user.User {
	t.Helper()
	return CreateUser(t, repo, uname, uname, uname+"@test.io", "", []string{user.RoleTeacher}, true)
}

func CreateQuiz(t *testing.T, repo quiz.Repository, moduleID, title string, passingScore int) quiz.Quiz {
	t.Helper()

	tstamp := time.Now().UTC()
	qz, err := repo.CreateQuiz(context.Background(), quiz.Quiz{
		ModuleID:     moduleID,
		Title:        title,
		PassingScore: passingScore,
		CreatedAt:    tstamp,
		UpdatedAt:    tstamp,
	})
	if err != nil {
		t.Fatalf("CreateQuiz() failed: %v", err)
	}
	return qz
}

// AddQuestion creates a question with its options. correctIdx flags which
// options are correct, by position.
func AddQuestion(
	t *testing.T,
	repo quiz.Repository,
	quizID, text, qType string,
	points, orderIndex int,
	options []string,
	correctIdx ...int,
) quiz.Question {
	t.Helper()

	ctx := context.Background()
	qst, err := repo.CreateQuestion(ctx, quiz.Question{
		QuizID:     quizID,
		Text:       text,
		Type:       qType,
		OrderIndex: orderIndex,
		Points:     points,
	})
	if err != nil {
		t.Fatalf("AddQuestion() failed: %v", err)
	}

	correct := make(map[int]struct{}, len(correctIdx))
	for _, i := range correctIdx {
		correct[i] = struct{}{}
	}
	for i, text := range options {
		_, isCorrect := correct[i]
		opt, err := repo.CreateAnswerOption(ctx, quiz.AnswerOption{
			QuestionID: qst.ID,
			Text:       text,
			IsCorrect:  isCorrect,
			OrderIndex: i,
		})
		if err != nil {
			t.Fatalf("AddQuestion() failed: %v", err)
		}
		qst.Options = append(qst.Options, opt)
	}
	return qst
}

func CreateAssignment(
	t *testing.T,
	repo assignment.Repository,
	lessonID, title string,
	maxScore int,
	deadline *time.Time,
) assignment.Assignment {
	t.Helper()

	tstamp := time.Now().UTC()
	asg, err := repo.CreateAssignment(context.Background(), assignment.Assignment{
		LessonID:  lessonID,
		Title:     title,
		MaxScore:  maxScore,
		Deadline:  deadline,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return asg
}

func CreateCourse(t *testing.T, repo course.Repository, title, instructorID string, published bool) course.Course {
	t.Helper()

	tstamp := time.Now().UTC()
	crs, err := repo.CreateCourse(context.Background(), course.Course{
		Title:           title,
		CategoryID:      "cat1",
		InstructorID:    instructorID,
		Published:       published,
		DurationHours:   10,
		DifficultyLevel: course.LevelBeginner,
		CreatedAt:       tstamp,
		UpdatedAt:       tstamp,
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return crs
}
