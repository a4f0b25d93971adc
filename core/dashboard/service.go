// Package dashboard composes the repositories and the scoring engine into
// the aggregated views served by the API. It owns no computation of its
// own: every number comes out of core/scoring.
package dashboard

import (
	"github.com/pkg/errors"

	"github.com/uniquest/uniquest/core/room"
	"github.com/uniquest/uniquest/core/scoring"
	"github.com/uniquest/uniquest/core/submission"
	"github.com/uniquest/uniquest/core/task"
	"github.com/uniquest/uniquest/core/user"
)

type Service struct {
	usrSvc  *user.Service
	roomSvc *room.Service
	taskSvc *task.Service
	subSvc  *submission.Service
}

func NewService(usrSvc *user.Service, roomSvc *room.Service, taskSvc *task.Service, subSvc *submission.Service) *Service {
	return &Service{
		usrSvc:  usrSvc,
		roomSvc: roomSvc,
		taskSvc: taskSvc,
		subSvc:  subSvc,
	}
}

// GetDashboard builds the full dashboard view for one user.
func (svc *Service) GetDashboard(userID int) (scoring.View, error) {
	events, err := svc.subSvc.AllEvents()
	if err != nil {
		return scoring.View{}, errors.Wrap(err, "loading events")
	}

	// display lookups for the user's own activity
	roomIDs := make(map[int]struct{})
	taskIDs := make(map[int]struct{})
	for _, e := range events {
		if e.UserID == userID {
			roomIDs[e.RoomID] = struct{}{}
			taskIDs[e.TaskID] = struct{}{}
		}
	}
	rooms, err := svc.roomLookup(roomIDs)
	if err != nil {
		return scoring.View{}, err
	}
	tasks, err := svc.taskLookup(taskIDs)
	if err != nil {
		return scoring.View{}, err
	}
	users, err := svc.userLookup()
	if err != nil {
		return scoring.View{}, err
	}

	return scoring.Dashboard(userID, events, rooms, tasks, users)
}

// RoomLeaderboard ranks every member of the room, zero-XP members included.
func (svc *Service) RoomLeaderboard(code string) ([]scoring.Entry, error) {
	rm, err := svc.roomSvc.GetByCode(code)
	if err != nil {
		return nil, err
	}
	members, err := svc.roomSvc.Members(rm.ID)
	if err != nil {
		return nil, errors.Wrap(err, "loading members")
	}
	events, err := svc.subSvc.RoomEvents(rm.ID)
	if err != nil {
		return nil, errors.Wrap(err, "loading events")
	}

	entrants := make([]scoring.Member, 0, len(members))
	for _, m := range members {
		entrants = append(entrants, scoring.Member{UserID: m.UserID, Username: m.Username, Email: m.Email})
	}
	return scoring.RoomLeaderboard(rm.ID, entrants, events)
}

// GlobalLeaderboard ranks every user with at least one submission.
func (svc *Service) GlobalLeaderboard() ([]scoring.Entry, error) {
	events, err := svc.subSvc.AllEvents()
	if err != nil {
		return nil, errors.Wrap(err, "loading events")
	}
	users, err := svc.userLookup()
	if err != nil {
		return nil, err
	}
	return scoring.GlobalLeaderboard(events, users)
}

func (svc *Service) roomLookup(ids map[int]struct{}) (map[int]scoring.RoomInfo, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	idList := make([]int, 0, len(ids))
	for id := range ids {
		idList = append(idList, id)
	}
	rooms, err := svc.roomSvc.QueryByID(idList...)
	if err != nil {
		return nil, errors.Wrap(err, "loading rooms")
	}
	lookup := make(map[int]scoring.RoomInfo, len(rooms))
	for _, rm := range rooms {
		lookup[rm.ID] = scoring.RoomInfo{ID: rm.ID, Name: rm.Name, Code: rm.Code}
	}
	return lookup, nil
}

func (svc *Service) taskLookup(ids map[int]struct{}) (map[int]scoring.TaskInfo, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	idList := make([]int, 0, len(ids))
	for id := range ids {
		idList = append(idList, id)
	}
	tasks, err := svc.taskSvc.QueryByID(idList...)
	if err != nil {
		return nil, errors.Wrap(err, "loading tasks")
	}
	lookup := make(map[int]scoring.TaskInfo, len(tasks))
	for _, t := range tasks {
		lookup[t.ID] = scoring.TaskInfo{ID: t.ID, RoomID: t.RoomID, Title: t.Title}
	}
	return lookup, nil
}

func (svc *Service) userLookup() (map[int]scoring.Member, error) {
	users, err := svc.usrSvc.QueryAll()
	if err != nil {
		return nil, errors.Wrap(err, "loading users")
	}
	lookup := make(map[int]scoring.Member, len(users))
	for _, u := range users {
		lookup[u.ID] = scoring.Member{UserID: u.ID, Username: u.Username, Email: u.Email.String}
	}
	return lookup, nil
}
