package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Evgeniy2001Poluhin/learning-platform/core/course"
)

type courseApi struct {
	svc *course.Service
}

func registerCourseAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *course.Service) {
	api := courseApi{svc: svc}

	cg := g.Group("/courses", jwt)
	cg.POST("", api.create, teacherMiddleware())
	cg.GET("/:id", api.retrieve)
	cg.POST("/:id/enrollments", api.enroll, studentMiddleware())
	cg.GET("/:id/enrollments", api.queryEnrollments, teacherMiddleware())
	cg.GET("/:id/enrollments/active-count", api.countActive, teacherMiddleware())

	eg := g.Group("/enrollments", jwt)
	eg.GET("", api.myEnrollments, studentMiddleware())
	eg.GET("/:id", api.retrieveEnrollment)
	eg.PUT("/:id/progress", api.updateProgress, studentMiddleware())
	eg.PUT("/:id/grade", api.setFinalGrade, teacherMiddleware())
	eg.DELETE("/:id", api.unenroll, studentMiddleware())
}

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	crs, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	crs, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseApi) enroll(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	enr, err := api.svc.Enroll(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, enr)
}

func (api *courseApi) retrieveEnrollment(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	enr, err := api.svc.GetEnrollment(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	// students may only view their own enrollment
	if !claims.IsTeacher && !claims.IsAdmin && enr.StudentID != claims.Subject {
		return errHttpForbidden
	}
	return ctx.JSON(http.StatusOK, enr)
}

func (api *courseApi) updateProgress(ctx echo.Context) error {
	var data course.ProgressUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ProgressUpdate")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	enr, err := api.svc.UpdateProgress(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, enr)
}

func (api *courseApi) setFinalGrade(ctx echo.Context) error {
	var data course.FinalGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to FinalGrade")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	enr, err := api.svc.SetFinalGrade(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, enr)
}

func (api *courseApi) unenroll(ctx echo.Context) error {
	enr, err := api.svc.Unenroll(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, enr)
}

func (api *courseApi) myEnrollments(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	enrs, err := api.svc.QueryByStudent(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying student enrollments")
	}
	return ctx.JSON(http.StatusOK, enrs)
}

func (api *courseApi) queryEnrollments(ctx echo.Context) error {
	enrs, err := api.svc.QueryByCourse(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying course enrollments")
	}
	return ctx.JSON(http.StatusOK, enrs)
}

func (api *courseApi) countActive(ctx echo.Context) error {
	count, err := api.svc.CountActive(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "counting active enrollments")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"active": count})
}
