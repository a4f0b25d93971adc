package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/uniquest/uniquest/core"
	"github.com/uniquest/uniquest/core/dashboard"
	"github.com/uniquest/uniquest/core/room"
	"github.com/uniquest/uniquest/core/user"
)

type roomApi struct {
	svc      *room.Service
	usrSvc   *user.Service
	dashSvc  *dashboard.Service
	validate *validator.Validate
}

func registerRoomAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := roomApi{
		svc:      deps.RoomSvc,
		usrSvc:   deps.UserSvc,
		dashSvc:  deps.DashSvc,
		validate: deps.Validate,
	}

	rg := g.Group("/rooms", jwt)
	rg.POST("", api.create)
	rg.GET("", api.myRooms)
	rg.POST("/join", api.join)
	rg.GET("/:code", api.retrieve)
	rg.POST("/:code/leave", api.leave)
	rg.POST("/:code/archive", api.archive)
	rg.POST("/:code/unarchive", api.unarchive)
	rg.GET("/:code/members", api.members)
	rg.GET("/:code/leaderboard", api.leaderboard)
}

// Handlers

func (api *roomApi) create(ctx echo.Context) error {
	var data room.NewRoom
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRoom")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	rm, err := api.svc.Create(usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating room")
	}
	return ctx.JSON(http.StatusCreated, rm)
}

func (api *roomApi) myRooms(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	rooms, err := api.svc.MyRooms(usr.ID)
	if err != nil {
		return errors.Wrap(err, "querying user rooms")
	}
	return ctx.JSON(http.StatusOK, rooms)
}

func (api *roomApi) join(ctx echo.Context) error {
	var data JoinRoomRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to JoinRoomRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	rm, err := api.svc.Join(usr.ID, data.Code)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusOK, rm)
}

func (api *roomApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	rm, err := api.svc.GetForUser(ctx.Param("code"), usr.ID)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusOK, rm)
}

func (api *roomApi) leave(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	if err = api.svc.Leave(usr.ID, ctx.Param("code")); err != nil {
		return httpError(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *roomApi) archive(ctx echo.Context) error {
	return api.setArchived(ctx, true)
}

func (api *roomApi) unarchive(ctx echo.Context) error {
	return api.setArchived(ctx, false)
}

func (api *roomApi) setArchived(ctx echo.Context, archived bool) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	if err = api.svc.Archive(usr.ID, ctx.Param("code"), archived); err != nil {
		return httpError(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *roomApi) members(ctx echo.Context) error {
	rm, err := api.svc.GetByCode(ctx.Param("code"))
	if err != nil {
		return httpError(err)
	}

	members, err := api.svc.Members(rm.ID)
	if err != nil {
		return errors.Wrap(err, "querying members")
	}
	return ctx.JSON(http.StatusOK, members)
}

func (api *roomApi) leaderboard(ctx echo.Context) error {
	lb, err := api.dashSvc.RoomLeaderboard(ctx.Param("code"))
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusOK, lb)
}

type JoinRoomRequest struct {
	Code string `json:"code" validate:"required"`
}

func (jr *JoinRoomRequest) Validate(validate *validator.Validate) error {
	jr.Code = core.CleanString(jr.Code)
	return validate.Struct(jr)
}
