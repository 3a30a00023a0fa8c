package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Evgeniy2001Poluhin/learning-platform/core/quiz"
)

type quizApi struct {
	svc *quiz.Service
}

func registerQuizAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *quiz.Service) {
	api := quizApi{svc: svc}

	qg := g.Group("/quizzes", jwt)
	qg.POST("", api.create, teacherMiddleware())
	qg.GET("/:id", api.retrieve)
	qg.POST("/:id/questions", api.addQuestion, teacherMiddleware())
	qg.POST("/:id/submissions", api.submitAttempt, studentMiddleware())
	qg.GET("/:id/submissions", api.querySubmissions, teacherMiddleware())

	g.POST("/questions/:id/options", api.addOption, jwt, teacherMiddleware())
	g.GET("/quiz-submissions", api.mySubmissions, jwt, studentMiddleware())
}

func (api *quizApi) create(ctx echo.Context) error {
	var data quiz.NewQuiz
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuiz")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	qz, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating quiz")
	}
	return ctx.JSON(http.StatusCreated, qz)
}

func (api *quizApi) retrieve(ctx echo.Context) error {
	qz, err := api.svc.GetWithQuestions(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, qz)
}

func (api *quizApi) addQuestion(ctx echo.Context) error {
	var data quiz.NewQuestion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuestion")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	qst, err := api.svc.AddQuestion(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, qst)
}

func (api *quizApi) addOption(ctx echo.Context) error {
	var data quiz.NewAnswerOption
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAnswerOption")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	opt, err := api.svc.AddAnswerOption(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, opt)
}

func (api *quizApi) submitAttempt(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data quiz.NewAttempt
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAttempt")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	sub, err := api.svc.SubmitAttempt(ctx.Request().Context(), ctx.Param("id"), claims.Subject, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *quizApi) querySubmissions(ctx echo.Context) error {
	subs, err := api.svc.QuerySubmissionsByQuiz(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying quiz submissions")
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *quizApi) mySubmissions(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	subs, err := api.svc.QuerySubmissionsByStudent(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying student submissions")
	}
	return ctx.JSON(http.StatusOK, subs)
}
