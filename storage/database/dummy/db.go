package dummydb

import (
	"sync"

	"github.com/Evgeniy2001Poluhin/learning-platform/core/assignment"
	"github.com/Evgeniy2001Poluhin/learning-platform/core/course"
	"github.com/Evgeniy2001Poluhin/learning-platform/core/quiz"
	"github.com/Evgeniy2001Poluhin/learning-platform/core/user"
)

// DB is an in-memory store mirroring the postgres schema, including its
// unique keys. It backs unit and API tests.
type (
	DB struct {
		user       *userTable
		quiz       *quizTable
		assignment *assignmentTable
		course     *courseTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	quizTable struct {
		sync.RWMutex
		quizzes     map[string]*quiz.Quiz
		questions   map[string]*quiz.Question
		options     map[string]*quiz.AnswerOption
		submissions map[string]*quiz.Submission
	}

	assignmentTable struct {
		sync.RWMutex
		assignments map[string]*assignment.Assignment
		submissions map[string]*assignment.Submission
	}

	courseTable struct {
		sync.RWMutex
		courses     map[string]*course.Course
		enrollments map[string]*course.Enrollment
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{table: make(map[string]*user.User)},
		quiz: &quizTable{
			quizzes:     make(map[string]*quiz.Quiz),
			questions:   make(map[string]*quiz.Question),
			options:     make(map[string]*quiz.AnswerOption),
			submissions: make(map[string]*quiz.Submission),
		},
		assignment: &assignmentTable{
			assignments: make(map[string]*assignment.Assignment),
			submissions: make(map[string]*assignment.Submission),
		},
		course: &courseTable{
			courses:     make(map[string]*course.Course),
			enrollments: make(map[string]*course.Enrollment),
		},
	}
	return db, nil
}
