package dashboard_test

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/uniquest/uniquest/core"
	"github.com/uniquest/uniquest/core/dashboard"
	"github.com/uniquest/uniquest/core/room"
	"github.com/uniquest/uniquest/core/submission"
	"github.com/uniquest/uniquest/core/task"
	"github.com/uniquest/uniquest/core/user"
	dummydb "github.com/uniquest/uniquest/storage/database/dummy"
)

type discardStore struct{}

func (discardStore) Save(filename string, r io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	return filename, nil
}

type noopMail struct{}

func (noopMail) SendMessages(...*core.EmailMessage) {}

type fixture struct {
	svc     *dashboard.Service
	subSvc  *submission.Service
	taskSvc *task.Service
	roomSvc *room.Service
	usrSvc  *user.Service

	admin   user.User
	student user.User
	rival   user.User
	algo    room.Room
	dbs     room.Room
}

func setup(t *testing.T) *fixture {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	conf := &core.Config{SecretKey: "t3st", PasswordResetTimeoutDelta: 24 * time.Hour}
	usrSvc := user.NewService(conf, dummydb.NewUserRepository(db), noopMail{})
	roomSvc := room.NewService(dummydb.NewRoomRepository(db))
	taskSvc := task.NewService(dummydb.NewTaskRepository(db), roomSvc)
	subSvc := submission.NewService(dummydb.NewSubmissionRepository(db), discardStore{}, taskSvc, roomSvc)
	svc := dashboard.NewService(usrSvc, roomSvc, taskSvc, subSvc)

	fx := &fixture{svc: svc, subSvc: subSvc, taskSvc: taskSvc, roomSvc: roomSvc, usrSvc: usrSvc}

	fx.admin = fx.register(t, "prof")
	fx.student = fx.register(t, "jon")
	fx.rival = fx.register(t, "arya")

	fx.algo, err = roomSvc.Create(fx.admin.ID, room.NewRoom{Name: "Algorithms"})
	if err != nil {
		t.Fatalf("room.Create() failed: %v", err)
	}
	fx.dbs, err = roomSvc.Create(fx.admin.ID, room.NewRoom{Name: "Databases"})
	if err != nil {
		t.Fatalf("room.Create() failed: %v", err)
	}
	for _, usr := range []user.User{fx.student, fx.rival} {
		for _, rm := range []room.Room{fx.algo, fx.dbs} {
			if _, err = roomSvc.Join(usr.ID, rm.Code); err != nil {
				t.Fatalf("room.Join() failed: %v", err)
			}
		}
	}
	return fx
}

func (fx *fixture) register(t *testing.T, uname string) user.User {
	usr, err := fx.usrSvc.Register(user.NewUser{Username: uname, Email: uname + "@test.cd", Password: "x", PasswordConfirm: "x"})
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	return usr
}

// completeTask creates a task, submits for the user and verifies it.
func (fx *fixture) completeTask(t *testing.T, rm room.Room, usr user.User, title string, xp int) {
	tsk, err := fx.taskSvc.Create(fx.admin.ID, rm.Code, task.NewTask{Title: title, Type: task.TypeAssignment, XPValue: xp})
	if err != nil {
		t.Fatalf("task.Create() failed: %v", err)
	}
	sub, err := fx.subSvc.Submit(usr.ID, tsk.ID, title+".py", strings.NewReader("code"))
	if err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	if _, err = fx.subSvc.Review(fx.admin.ID, sub.ID, true); err != nil {
		t.Fatalf("Review() failed: %v", err)
	}
}

func TestService_GetDashboard(t *testing.T) {
	fx := setup(t)

	// 4 quests of 50 XP in one room on the same day: 1.5x each
	for _, title := range []string{"Quest 1", "Quest 2", "Quest 3", "Quest 4"} {
		fx.completeTask(t, fx.algo, fx.student, title, 50)
	}
	fx.completeTask(t, fx.dbs, fx.student, "Quest 5", 30)
	fx.completeTask(t, fx.algo, fx.rival, "Side quest", 10)

	view, err := fx.svc.GetDashboard(fx.student.ID)
	assert.NoError(t, err)

	// algo: 4x floor(50*1.5)=75 -> 300; dbs: 1x 30 -> 30
	assert.Equal(t, 330, view.TotalXP)
	assert.Equal(t, 4, view.Level)
	assert.Equal(t, 5, view.QuestsCompleted)
	assert.Equal(t, 1, view.CurrentStreak)

	if assert.Len(t, view.XPByRoom, 2) {
		assert.Equal(t, "Algorithms", view.XPByRoom[0].RoomName)
		assert.Equal(t, 300, view.XPByRoom[0].XP)
		assert.Equal(t, "Databases", view.XPByRoom[1].RoomName)
		assert.Equal(t, 30, view.XPByRoom[1].XP)
	}
	if assert.Len(t, view.XPByDay, 1) {
		assert.Equal(t, 330, view.XPByDay[0].XP)
	}
	if assert.Len(t, view.Recent, 5) {
		// newest first
		assert.Equal(t, "Quest 5", view.Recent[0].TaskTitle)
		assert.Equal(t, "Databases", view.Recent[0].RoomName)
	}
	assert.Equal(t, 1, view.GlobalRank)
	if assert.NotEmpty(t, view.TopAdventurers) {
		assert.Equal(t, fx.student.ID, view.TopAdventurers[0].UserID)
	}
}

func TestService_GetDashboard_noActivity(t *testing.T) {
	fx := setup(t)
	fx.completeTask(t, fx.algo, fx.rival, "Side quest", 10)

	view, err := fx.svc.GetDashboard(fx.student.ID)
	assert.NoError(t, err)
	assert.Zero(t, view.TotalXP)
	assert.Equal(t, 1, view.Level)
	assert.Zero(t, view.CurrentStreak)
	assert.Empty(t, view.Recent)
	// rank is one past the board when the user has no submissions
	assert.Equal(t, 2, view.GlobalRank)
}

func TestService_RoomLeaderboard(t *testing.T) {
	fx := setup(t)
	fx.completeTask(t, fx.algo, fx.student, "Quest 1", 50)

	lb, err := fx.svc.RoomLeaderboard(fx.algo.Code)
	assert.NoError(t, err)

	// every member appears, zero-XP ones included
	if assert.Len(t, lb, 3) {
		assert.Equal(t, fx.student.ID, lb[0].UserID)
		assert.Equal(t, 50, lb[0].XP)
		assert.Equal(t, 1, lb[0].Rank)
		assert.Equal(t, 2, lb[1].Rank)
		assert.Equal(t, 2, lb[2].Rank)
		assert.Zero(t, lb[1].XP)
	}

	_, err = fx.svc.RoomLeaderboard("NOPE1234")
	assert.Error(t, err)
}

func TestService_GlobalLeaderboard(t *testing.T) {
	fx := setup(t)
	fx.completeTask(t, fx.algo, fx.student, "Quest 1", 50)
	fx.completeTask(t, fx.dbs, fx.student, "Quest 2", 20)
	fx.completeTask(t, fx.algo, fx.rival, "Side quest", 30)

	lb, err := fx.svc.GlobalLeaderboard()
	assert.NoError(t, err)

	// only users with at least one submission appear
	if assert.Len(t, lb, 2) {
		assert.Equal(t, fx.student.ID, lb[0].UserID)
		assert.Equal(t, 70, lb[0].XP) // sum of per-room scores
		assert.Equal(t, "jon", lb[0].Username)
		assert.Equal(t, fx.rival.ID, lb[1].UserID)
		assert.Equal(t, 30, lb[1].XP)
	}
}
