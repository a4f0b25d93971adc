package submission_test

import (
	"io"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/uniquest/uniquest/core/room"
	"github.com/uniquest/uniquest/core/scoring"
	"github.com/uniquest/uniquest/core/submission"
	"github.com/uniquest/uniquest/core/task"
	"github.com/uniquest/uniquest/core/user"
	dummydb "github.com/uniquest/uniquest/storage/database/dummy"
)

type memStore struct {
	saved []string
}

func (st *memStore) Save(filename string, r io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	st.saved = append(st.saved, filename)
	return "stored/" + filename, nil
}

type fixture struct {
	svc     *submission.Service
	store   *memStore
	admin   user.User
	student user.User
	room    room.Room
	task    task.Task
}

func setup(t *testing.T) *fixture {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	usrRepo := dummydb.NewUserRepository(db)
	roomSvc := room.NewService(dummydb.NewRoomRepository(db))
	taskSvc := task.NewService(dummydb.NewTaskRepository(db), roomSvc)
	store := &memStore{}
	svc := submission.NewService(dummydb.NewSubmissionRepository(db), store, taskSvc, roomSvc)

	admin, err := usrRepo.CreateUser(user.User{Username: "prof", IsActive: true})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	student, err := usrRepo.CreateUser(user.User{Username: "jon", IsActive: true})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	rm, err := roomSvc.Create(admin.ID, room.NewRoom{Name: "Algorithms"})
	if err != nil {
		t.Fatalf("room.Create() failed: %v", err)
	}
	if _, err = roomSvc.Join(student.ID, rm.Code); err != nil {
		t.Fatalf("room.Join() failed: %v", err)
	}
	tsk, err := taskSvc.Create(admin.ID, rm.Code, task.NewTask{Title: "Quicksort", Type: task.TypeAssignment, XPValue: 50})
	if err != nil {
		t.Fatalf("task.Create() failed: %v", err)
	}

	return &fixture{svc: svc, store: store, admin: admin, student: student, room: rm, task: tsk}
}

func TestService_Submit(t *testing.T) {
	fx := setup(t)

	sub, err := fx.svc.Submit(fx.student.ID, fx.task.ID, "sort.py", strings.NewReader("print('hi')"))
	assert.NoError(t, err)
	assert.NotZero(t, sub.ID)
	assert.Equal(t, scoring.StatusPending, sub.Status)
	assert.Zero(t, sub.XPAwarded)
	assert.Equal(t, "stored/sort.py", sub.FilePath)
	assert.False(t, sub.Timestamp.IsZero())
	assert.Equal(t, []string{"sort.py"}, fx.store.saved)

	// one submission per task per user
	_, err = fx.svc.Submit(fx.student.ID, fx.task.ID, "sort2.py", strings.NewReader("again"))
	assert.Equal(t, submission.ErrAlreadySubmitted, errors.Cause(err))

	// unknown task
	_, err = fx.svc.Submit(fx.student.ID, 999, "x", strings.NewReader("x"))
	assert.Equal(t, task.ErrNotFound, errors.Cause(err))
}

func TestService_Review(t *testing.T) {
	fx := setup(t)

	sub, err := fx.svc.Submit(fx.student.ID, fx.task.ID, "sort.py", strings.NewReader("code"))
	assert.NoError(t, err)

	// only room admins may review
	_, err = fx.svc.Review(fx.student.ID, sub.ID, true)
	assert.Equal(t, submission.ErrNotRoomAdmin, errors.Cause(err))

	// verifying awards the task's XP value
	reviewed, err := fx.svc.Review(fx.admin.ID, sub.ID, true)
	assert.NoError(t, err)
	assert.Equal(t, scoring.StatusVerified, reviewed.Status)
	assert.Equal(t, fx.task.XPValue, reviewed.XPAwarded)

	// resolved submissions are immutable
	_, err = fx.svc.Review(fx.admin.ID, sub.ID, false)
	assert.Equal(t, submission.ErrAlreadyResolved, errors.Cause(err))
}

func TestService_Review_reject(t *testing.T) {
	fx := setup(t)

	sub, err := fx.svc.Submit(fx.student.ID, fx.task.ID, "sort.py", strings.NewReader("code"))
	assert.NoError(t, err)

	reviewed, err := fx.svc.Review(fx.admin.ID, sub.ID, false)
	assert.NoError(t, err)
	assert.Equal(t, scoring.StatusRejected, reviewed.Status)
	assert.Zero(t, reviewed.XPAwarded)
}

func TestService_ListForTask(t *testing.T) {
	fx := setup(t)

	_, err := fx.svc.Submit(fx.student.ID, fx.task.ID, "sort.py", strings.NewReader("code"))
	assert.NoError(t, err)

	subs, err := fx.svc.ListForTask(fx.admin.ID, fx.task.ID)
	assert.NoError(t, err)
	assert.Len(t, subs, 1)

	_, err = fx.svc.ListForTask(fx.student.ID, fx.task.ID)
	assert.Equal(t, submission.ErrNotRoomAdmin, errors.Cause(err))
}

func TestService_Events(t *testing.T) {
	fx := setup(t)

	sub, err := fx.svc.Submit(fx.student.ID, fx.task.ID, "sort.py", strings.NewReader("code"))
	assert.NoError(t, err)
	_, err = fx.svc.Review(fx.admin.ID, sub.ID, true)
	assert.NoError(t, err)

	events, err := fx.svc.UserEvents(fx.student.ID)
	assert.NoError(t, err)
	if assert.Len(t, events, 1) {
		ev := events[0]
		assert.Equal(t, fx.student.ID, ev.UserID)
		assert.Equal(t, fx.task.ID, ev.TaskID)
		assert.Equal(t, fx.room.ID, ev.RoomID) // room id joined from the task
		assert.Equal(t, fx.task.XPValue, ev.BaseXP)
		assert.Equal(t, scoring.StatusVerified, ev.Status)
	}

	roomEvents, err := fx.svc.RoomEvents(fx.room.ID)
	assert.NoError(t, err)
	assert.Len(t, roomEvents, 1)

	all, err := fx.svc.AllEvents()
	assert.NoError(t, err)
	assert.Len(t, all, 1)
}
