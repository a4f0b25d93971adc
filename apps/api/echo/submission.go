package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/uniquest/uniquest/core/submission"
	"github.com/uniquest/uniquest/core/user"
)

type submissionApi struct {
	svc      *submission.Service
	usrSvc   *user.Service
	validate *validator.Validate
}

func registerSubmissionAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := submissionApi{
		svc:      deps.SubSvc,
		usrSvc:   deps.UserSvc,
		validate: deps.Validate,
	}

	tg := g.Group("/tasks/:id/submissions", jwt)
	tg.POST("", api.submit)
	tg.GET("", api.list)

	sg := g.Group("/submissions", jwt)
	sg.PUT("/:id/review", api.review)
}

// Handlers

func (api *submissionApi) submit(ctx echo.Context) error {
	taskID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer func() { _ = f.Close() }()

	sub, err := api.svc.Submit(usr.ID, taskID, fh.Filename, f)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *submissionApi) list(ctx echo.Context) error {
	taskID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	subs, err := api.svc.ListForTask(usr.ID, taskID)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *submissionApi) review(ctx echo.Context) error {
	subID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	var data ReviewRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReviewRequest")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	sub, err := api.svc.Review(usr.ID, subID, *data.Approve)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusOK, sub)
}

type ReviewRequest struct {
	Approve *bool `json:"approve" validate:"required"`
}

func (rr ReviewRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(rr)
}
