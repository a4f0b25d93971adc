package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uniquest/uniquest/core/room"
	"github.com/uniquest/uniquest/core/scoring"
)

func TestRoomAPI_createAndJoin(t *testing.T) {
	app := newTestApp(t)
	prof := app.register(t, "prof")
	jon := app.register(t, "jon")
	profToken := app.token(t, prof)
	jonToken := app.token(t, jon)

	rec := app.request(t, http.MethodPost, "/v1/rooms", "", map[string]string{"name": "Algorithms"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.request(t, http.MethodPost, "/v1/rooms", profToken, map[string]string{"name": "Algorithms"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	var rm room.Room
	decode(t, rec, &rm)
	assert.Equal(t, "Algorithms", rm.Name)
	assert.Len(t, rm.Code, 8)
	assert.Equal(t, prof.ID, rm.AdminID)

	// missing name
	rec = app.request(t, http.MethodPost, "/v1/rooms", profToken, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// join
	rec = app.request(t, http.MethodPost, "/v1/rooms/join", jonToken, map[string]string{"code": rm.Code})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.request(t, http.MethodPost, "/v1/rooms/join", jonToken, map[string]string{"code": "NOPE1234"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// my rooms
	rec = app.request(t, http.MethodGet, "/v1/rooms", jonToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var mine []room.UserRoom
	decode(t, rec, &mine)
	assert.Len(t, mine, 1)

	// members
	rec = app.request(t, http.MethodGet, "/v1/rooms/"+rm.Code+"/members", jonToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var members []room.MemberUser
	decode(t, rec, &members)
	assert.Len(t, members, 2)

	// detail
	rec = app.request(t, http.MethodGet, "/v1/rooms/"+rm.Code, jonToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// archive / unarchive
	rec = app.request(t, http.MethodPost, "/v1/rooms/"+rm.Code+"/archive", jonToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = app.request(t, http.MethodPost, "/v1/rooms/"+rm.Code+"/unarchive", jonToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// the admin cannot leave their own room
	rec = app.request(t, http.MethodPost, "/v1/rooms/"+rm.Code+"/leave", profToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.request(t, http.MethodPost, "/v1/rooms/"+rm.Code+"/leave", jonToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRoomAPI_leaderboard(t *testing.T) {
	app := newTestApp(t)
	prof := app.register(t, "prof")
	jon := app.register(t, "jon")
	profToken := app.token(t, prof)
	jonToken := app.token(t, jon)

	var rm room.Room
	rec := app.request(t, http.MethodPost, "/v1/rooms", profToken, map[string]string{"name": "Algorithms"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	decode(t, rec, &rm)
	rec = app.request(t, http.MethodPost, "/v1/rooms/join", jonToken, map[string]string{"code": rm.Code})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.request(t, http.MethodGet, "/v1/rooms/"+rm.Code+"/leaderboard", jonToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// all members ranked, no submissions yet
	var lb []scoring.Entry
	decode(t, rec, &lb)
	if assert.Len(t, lb, 2) {
		assert.Equal(t, 1, lb[0].Rank)
		assert.Equal(t, 1, lb[1].Rank)
		assert.Zero(t, lb[0].XP)
	}
}
