package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/uniquest/uniquest/core/dashboard"
	"github.com/uniquest/uniquest/core/user"
)

type dashboardApi struct {
	svc    *dashboard.Service
	usrSvc *user.Service
}

func registerDashboardAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := dashboardApi{
		svc:    deps.DashSvc,
		usrSvc: deps.UserSvc,
	}

	g.GET("/dashboard", api.retrieve, jwt)
	g.GET("/leaderboard", api.globalLeaderboard, jwt)
}

// Handlers

func (api *dashboardApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	view, err := api.svc.GetDashboard(usr.ID)
	if err != nil {
		return errors.Wrap(err, "building dashboard")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *dashboardApi) globalLeaderboard(ctx echo.Context) error {
	lb, err := api.svc.GlobalLeaderboard()
	if err != nil {
		return errors.Wrap(err, "building leaderboard")
	}
	return ctx.JSON(http.StatusOK, lb)
}
