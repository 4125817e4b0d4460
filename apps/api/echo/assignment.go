package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mkele/darasa/core/assignment"
)

type assignmentApi struct {
	svc      *assignment.Service
	validate *validator.Validate
}

func registerAssignmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := assignmentApi{
		svc:      opts.AssignmentSvc,
		validate: opts.Validate,
	}

	// course-scoped endpoints
	cg := g.Group("/courses/:id/assignments", jwt)
	cg.GET("", api.queryByCourse)
	cg.POST("", api.create, teacherMiddleware())

	ag := g.Group("/assignments/:id", jwt)
	ag.GET("", api.retrieve)
	ag.POST("/submissions", api.submit, studentMiddleware())
	ag.GET("/submissions", api.querySubmissions, teacherMiddleware())
	ag.GET("/submissions/me", api.mySubmission, studentMiddleware())

	sg := g.Group("/submissions/:id", jwt)
	sg.PUT("/grade", api.grade, teacherMiddleware())
}

// Handlers

func (api *assignmentApi) queryByCourse(ctx echo.Context) error {
	assignments, err := api.svc.QueryByCourse(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	if assignments == nil {
		assignments = []assignment.Assignment{}
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *assignmentApi) create(ctx echo.Context) error {
	var data assignment.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	asg, err := api.svc.Create(data, ctx.Param("id"), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, asg)
}

func (api *assignmentApi) retrieve(ctx echo.Context) error {
	asg, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == assignment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding assignment by ID")
	}
	return ctx.JSON(http.StatusOK, asg)
}

func (api *assignmentApi) submit(ctx echo.Context) error {
	var data assignment.NewSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if _, err = api.svc.GetByID(ctx.Param("id")); err != nil {
		if errors.Cause(err) == assignment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding assignment by ID")
	}

	sub, err := api.svc.Submit(data, ctx.Param("id"), claims.Subject)
	if err != nil {
		if errors.Cause(err) == assignment.ErrAlreadySubmitted {
			return errAlreadySubmitted
		}
		return errors.Wrap(err, "submitting assignment")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *assignmentApi) querySubmissions(ctx echo.Context) error {
	submissions, err := api.svc.QuerySubmissions(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	if submissions == nil {
		submissions = []assignment.Submission{}
	}
	return ctx.JSON(http.StatusOK, submissions)
}

// mySubmission reports the calling student's submission for the assignment;
// 204 means "not submitted yet", which is not an error.
func (api *assignmentApi) mySubmission(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	sub, err := api.svc.GetStudentSubmission(ctx.Param("id"), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "finding student submission")
	}
	if sub == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *assignmentApi) grade(ctx echo.Context) error {
	var data assignment.GradeInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeInput")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sub, err := api.svc.Grade(ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == assignment.ErrSubmissionNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "grading submission")
	}
	return ctx.JSON(http.StatusOK, sub)
}
