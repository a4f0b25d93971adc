package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/uniquest/uniquest/core/task"
	"github.com/uniquest/uniquest/core/user"
)

type taskApi struct {
	svc      *task.Service
	usrSvc   *user.Service
	validate *validator.Validate
}

func registerTaskAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := taskApi{
		svc:      deps.TaskSvc,
		usrSvc:   deps.UserSvc,
		validate: deps.Validate,
	}

	tg := g.Group("/rooms/:code/tasks", jwt)
	tg.POST("", api.create)
	tg.GET("", api.list)
}

// Handlers

func (api *taskApi) create(ctx echo.Context) error {
	var data task.NewTask
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTask")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	t, err := api.svc.Create(usr.ID, ctx.Param("code"), data)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *taskApi) list(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	views, err := api.svc.ListForUser(ctx.Param("code"), usr.ID)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusOK, views)
}
