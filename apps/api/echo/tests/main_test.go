package tests

import (
	"fmt"
	"os"
	"testing"

	. "github.com/Evgeniy2001Poluhin/learning-platform/apps/api/echo"
	"github.com/Evgeniy2001Poluhin/learning-platform/core"
	"github.com/Evgeniy2001Poluhin/learning-platform/core/assignment"
	"github.com/Evgeniy2001Poluhin/learning-platform/core/course"
	"github.com/Evgeniy2001Poluhin/learning-platform/core/quiz"
	"github.com/Evgeniy2001Poluhin/learning-platform/core/user"
	"github.com/Evgeniy2001Poluhin/learning-platform/storage/database/dummy"
	"github.com/Evgeniy2001Poluhin/learning-platform/tests"
)

func TestMain(m *testing.M) {
	conf = core.NewConfig(core.Getwd())
	conf.Debug = false
	conf.TestMode = true

	// set up DB & repos
	db, err := dummydb.Open()
	if err != nil {
		fmt.Printf("dummydb.Open(): %v", err)
		os.Exit(1)
	}
	usrRepo = dummydb.NewUserRepository(db)
	quizRepo = dummydb.NewQuizRepository(db)
	asgRepo = dummydb.NewAssignmentRepository(db)
	crsRepo = dummydb.NewCourseRepository(db)

	// set up services
	logger := testutil.NopLogger{}
	mailSvc := testutil.NewEmailServiceMock()
	usrSvc := user.NewService(usrRepo, logger)

	// set up server
	app = NewServer(
		&Options{
			Conf:           conf,
			Logger:         logger,
			DisableReqLogs: true,
			UserSvc:        usrSvc,
			QuizSvc:        quiz.NewService(quizRepo, usrSvc, logger),
			AssignmentSvc:  assignment.NewService(asgRepo, usrSvc, mailSvc, logger),
			CourseSvc:      course.NewService(crsRepo, usrSvc, mailSvc, logger),
		},
	)

	os.Exit(m.Run())
}
