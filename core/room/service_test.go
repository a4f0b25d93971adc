package room_test

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/uniquest/uniquest/core/room"
	"github.com/uniquest/uniquest/core/user"
	dummydb "github.com/uniquest/uniquest/storage/database/dummy"
)

func setup(t *testing.T) (*room.Service, user.Repository) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	return room.NewService(dummydb.NewRoomRepository(db)), dummydb.NewUserRepository(db)
}

func createUser(t *testing.T, repo user.Repository, uname string) user.User {
	usr := user.User{Username: uname, IsActive: true}
	usr.Email.SetValid(uname + "@test.cd")
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func TestService_Create(t *testing.T) {
	svc, usrRepo := setup(t)
	admin := createUser(t, usrRepo, "prof")

	rm, err := svc.Create(admin.ID, room.NewRoom{Name: "Algorithms", Description: "Sorting and searching"})
	assert.NoError(t, err)
	assert.NotZero(t, rm.ID)
	assert.Equal(t, admin.ID, rm.AdminID)
	assert.Len(t, rm.Code, 8)
	assert.True(t, rm.IsPublic)
	assert.Equal(t, "Sorting and searching", rm.Description.String)

	// the creator is enrolled as an admin member
	members, err := svc.Members(rm.ID)
	assert.NoError(t, err)
	if assert.Len(t, members, 1) {
		assert.Equal(t, admin.ID, members[0].UserID)
		assert.True(t, members[0].IsAdmin)
	}
	assert.True(t, svc.IsRoomAdmin(admin.ID, rm))
}

func TestService_GetByCode(t *testing.T) {
	svc, usrRepo := setup(t)
	admin := createUser(t, usrRepo, "prof")

	rm, err := svc.Create(admin.ID, room.NewRoom{Name: "Algorithms"})
	assert.NoError(t, err)

	// lookup is case-insensitive and ignores surrounding spaces
	for _, code := range []string{rm.Code, "  " + rm.Code + " ", strings.ToLower(rm.Code)} {
		got, err := svc.GetByCode(code)
		assert.NoError(t, err)
		assert.Equal(t, rm.ID, got.ID)
	}

	_, err = svc.GetByCode("NOPE1234")
	assert.Equal(t, room.ErrNotFound, errors.Cause(err))
}

func TestService_JoinAndLeave(t *testing.T) {
	svc, usrRepo := setup(t)
	admin := createUser(t, usrRepo, "prof")
	student := createUser(t, usrRepo, "jon")

	rm, err := svc.Create(admin.ID, room.NewRoom{Name: "Algorithms"})
	assert.NoError(t, err)

	joined, err := svc.Join(student.ID, rm.Code)
	assert.NoError(t, err)
	assert.Equal(t, rm.ID, joined.ID)

	// joining twice is a no-op
	_, err = svc.Join(student.ID, rm.Code)
	assert.NoError(t, err)
	members, err := svc.Members(rm.ID)
	assert.NoError(t, err)
	assert.Len(t, members, 2)

	assert.False(t, svc.IsRoomAdmin(student.ID, rm))

	// the admin cannot leave their own room
	assert.Equal(t, room.ErrAdminCannotLeave, errors.Cause(svc.Leave(admin.ID, rm.Code)))

	assert.NoError(t, svc.Leave(student.ID, rm.Code))
	members, err = svc.Members(rm.ID)
	assert.NoError(t, err)
	assert.Len(t, members, 1)

	// leaving a room you are not in
	assert.Equal(t, room.ErrNotMember, errors.Cause(svc.Leave(student.ID, rm.Code)))
}

func TestService_Archive(t *testing.T) {
	svc, usrRepo := setup(t)
	admin := createUser(t, usrRepo, "prof")
	student := createUser(t, usrRepo, "jon")

	rm, err := svc.Create(admin.ID, room.NewRoom{Name: "Algorithms"})
	assert.NoError(t, err)
	_, err = svc.Join(student.ID, rm.Code)
	assert.NoError(t, err)

	assert.NoError(t, svc.Archive(student.ID, rm.Code, true))

	rooms, err := svc.MyRooms(student.ID)
	assert.NoError(t, err)
	if assert.Len(t, rooms, 1) {
		assert.True(t, rooms[0].IsArchived)
	}

	// archiving does not affect other members
	rooms, err = svc.MyRooms(admin.ID)
	assert.NoError(t, err)
	if assert.Len(t, rooms, 1) {
		assert.False(t, rooms[0].IsArchived)
	}

	assert.NoError(t, svc.Archive(student.ID, rm.Code, false))
	ur, err := svc.GetForUser(rm.Code, student.ID)
	assert.NoError(t, err)
	assert.False(t, ur.IsArchived)

	// non-members cannot archive
	stranger := createUser(t, usrRepo, "arya")
	assert.Equal(t, room.ErrNotMember, errors.Cause(svc.Archive(stranger.ID, rm.Code, true)))
}
