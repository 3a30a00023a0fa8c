package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Evgeniy2001Poluhin/learning-platform/apps/api/echo"
	"github.com/Evgeniy2001Poluhin/learning-platform/core"
	"github.com/Evgeniy2001Poluhin/learning-platform/core/assignment"
	"github.com/Evgeniy2001Poluhin/learning-platform/core/course"
	"github.com/Evgeniy2001Poluhin/learning-platform/core/quiz"
	"github.com/Evgeniy2001Poluhin/learning-platform/core/user"
	"github.com/Evgeniy2001Poluhin/learning-platform/services/email"
	"github.com/Evgeniy2001Poluhin/learning-platform/services/logger"
	"github.com/Evgeniy2001Poluhin/learning-platform/storage/database"
	"github.com/Evgeniy2001Poluhin/learning-platform/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig(core.Getwd())

	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	var logger core.Logger
	if conf.Debug || conf.RollbarToken == "" {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal("creating database", err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}
	defer db.Close()
	if err := database.Migrate(db.DB); err != nil {
		logger.Fatal("applying migrations", err)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), logger)
	quizSvc := quiz.NewService(sqlxrepos.NewQuizRepository(db), usrSvc, logger)
	asgSvc := assignment.NewService(sqlxrepos.NewAssignmentRepository(db), usrSvc, mailSvc, logger)
	crsSvc := course.NewService(sqlxrepos.NewCourseRepository(db), usrSvc, mailSvc, logger)

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Addr:          conf.Server.Address(),
			Conf:          conf,
			Logger:        logger,
			UserSvc:       usrSvc,
			QuizSvc:       quizSvc,
			AssignmentSvc: asgSvc,
			CourseSvc:     crsSvc,
		},
	)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server listening on " + conf.Server.Address())
		serverErrors <- app.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Fatal("server error", err)
	case sig := <-shutdown:
		logger.Info("shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			logger.Fatal("could not stop server gracefully", err)
		}
	}
}
