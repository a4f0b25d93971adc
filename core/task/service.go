package task

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/uniquest/uniquest/core"
	"github.com/uniquest/uniquest/core/room"
)

var (
	// errors
	ErrNotFound     = errors.New("task not found")
	ErrNotRoomAdmin = errors.New("only room admins can manage tasks")

	taskTypeTag  = "tasktype"
	taskTypeText = "invalid task type"
)

type (
	Repository interface {
		CreateTask(t Task) (Task, error)
		GetTaskByID(id int) (Task, error)
		QueryRoomTasks(roomID int) ([]Task, error)
		QueryTasksByID(ids ...int) ([]Task, error)
		// QuerySubmittedTaskIDs returns the ids of the room's tasks the user
		// has already submitted for.
		QuerySubmittedTaskIDs(roomID, userID int) ([]int, error)
	}

	Service struct {
		repo    Repository
		roomSvc *room.Service
	}
)

func NewService(repo Repository, roomSvc *room.Service) *Service {
	return &Service{repo: repo, roomSvc: roomSvc}
}

// RegisterValidators installs the task-specific validations on the app validator.
func RegisterValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(taskTypeTag, func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		for _, t := range AllTypes {
			if v == t {
				return true
			}
		}
		return false
	})
	core.RegisterCustomTranslation(validate, translator, taskTypeTag, taskTypeText)
}

// Create adds a task to a room; only room admins may do so.
func (svc *Service) Create(userID int, roomCode string, nt NewTask) (Task, error) {
	rm, err := svc.roomSvc.GetByCode(roomCode)
	if err != nil {
		return Task{}, err
	}
	if !svc.roomSvc.IsRoomAdmin(userID, rm) {
		return Task{}, ErrNotRoomAdmin
	}

	t := Task{
		RoomID:    rm.ID,
		Type:      nt.Type,
		Title:     nt.Title,
		XPValue:   nt.XPValue,
		CreatedAt: time.Now().UTC(),
	}
	if nt.Description != "" {
		t.Description.SetValid(nt.Description)
	}
	if nt.Deadline != nil {
		t.Deadline.SetValid(nt.Deadline.UTC())
	}
	if nt.StartTime != nil {
		t.StartTime.SetValid(nt.StartTime.UTC())
	}
	if nt.EndTime != nil {
		t.EndTime.SetValid(nt.EndTime.UTC())
	}
	return svc.repo.CreateTask(t)
}

func (svc *Service) GetByID(id int) (Task, error) {
	return svc.repo.GetTaskByID(id)
}

func (svc *Service) QueryByID(ids ...int) ([]Task, error) {
	return svc.repo.QueryTasksByID(ids...)
}

// ListForUser returns a room's tasks with the user's submission state.
func (svc *Service) ListForUser(roomCode string, userID int) ([]View, error) {
	rm, err := svc.roomSvc.GetByCode(roomCode)
	if err != nil {
		return nil, err
	}
	tasks, err := svc.repo.QueryRoomTasks(rm.ID)
	if err != nil {
		return nil, err
	}
	submittedIDs, err := svc.repo.QuerySubmittedTaskIDs(rm.ID, userID)
	if err != nil {
		return nil, err
	}
	submitted := make(map[int]struct{}, len(submittedIDs))
	for _, id := range submittedIDs {
		submitted[id] = struct{}{}
	}

	now := time.Now().UTC()
	views := make([]View, 0, len(tasks))
	for _, t := range tasks {
		v := View{Task: t}
		if _, ok := submitted[t.ID]; ok {
			v.IsSubmitted = true
			v.Completed = true
		}
		if t.Deadline.Valid && t.Deadline.Time.Before(now) {
			v.IsExpired = true
		}
		views = append(views, v)
	}
	return views, nil
}
