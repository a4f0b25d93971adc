package room

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound         = errors.New("room not found")
	ErrNotMember        = errors.New("not a member of this room")
	ErrAdminCannotLeave = errors.New("admin cannot leave the room; transfer ownership or delete the room instead")
)

type (
	Repository interface {
		CreateRoom(room Room) (Room, error)
		GetRoomByID(id int) (Room, error)
		GetRoomByCode(code string) (Room, error)
		QueryRoomsByID(ids ...int) ([]Room, error)
		QueryUserRooms(userID int) ([]UserRoom, error)
		AddMember(m Member) (Member, error)
		GetMember(userID, roomID int) (Member, error)
		RemoveMember(userID, roomID int) error
		SetMemberArchived(userID, roomID int, archived bool) error
		QueryMembers(roomID int) ([]MemberUser, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create opens a new room and enrolls the creator as its admin member.
func (svc *Service) Create(adminID int, nr NewRoom) (Room, error) {
	now := time.Now().UTC()
	rm := Room{
		Name:      nr.Name,
		Code:      newCode(),
		AdminID:   adminID,
		IsPublic:  true,
		CreatedAt: now,
	}
	if nr.Description != "" {
		rm.Description.SetValid(nr.Description)
	}
	if nr.IsPublic != nil {
		rm.IsPublic = *nr.IsPublic
	}

	rm, err := svc.repo.CreateRoom(rm)
	if err != nil {
		return Room{}, err
	}
	_, err = svc.repo.AddMember(Member{UserID: adminID, RoomID: rm.ID, IsAdmin: true, JoinedAt: now})
	if err != nil {
		return Room{}, errors.Wrap(err, "enrolling room admin")
	}
	return rm, nil
}

func (svc *Service) GetByID(id int) (Room, error) {
	return svc.repo.GetRoomByID(id)
}

func (svc *Service) QueryByID(ids ...int) ([]Room, error) {
	return svc.repo.QueryRoomsByID(ids...)
}

func (svc *Service) GetByCode(code string) (Room, error) {
	return svc.repo.GetRoomByCode(strings.ToUpper(strings.TrimSpace(code)))
}

// GetForUser returns a room along with the user's archived flag;
// non-members see it unarchived.
func (svc *Service) GetForUser(code string, userID int) (UserRoom, error) {
	rm, err := svc.GetByCode(code)
	if err != nil {
		return UserRoom{}, err
	}
	ur := UserRoom{Room: rm}
	if m, err := svc.repo.GetMember(userID, rm.ID); err == nil {
		ur.IsArchived = m.Archived
	}
	return ur, nil
}

// Join enrolls the user in the room with the given code. Joining a room
// twice is a no-op.
func (svc *Service) Join(userID int, code string) (Room, error) {
	rm, err := svc.GetByCode(code)
	if err != nil {
		return Room{}, err
	}
	if _, err = svc.repo.GetMember(userID, rm.ID); err == nil {
		return rm, nil // already joined
	} else if errors.Cause(err) != ErrNotMember {
		return Room{}, err
	}
	_, err = svc.repo.AddMember(Member{UserID: userID, RoomID: rm.ID, JoinedAt: time.Now().UTC()})
	if err != nil {
		return Room{}, err
	}
	return rm, nil
}

func (svc *Service) Leave(userID int, code string) error {
	rm, err := svc.GetByCode(code)
	if err != nil {
		return err
	}
	if rm.AdminID == userID {
		return ErrAdminCannotLeave
	}
	if _, err = svc.repo.GetMember(userID, rm.ID); err != nil {
		return err
	}
	return svc.repo.RemoveMember(userID, rm.ID)
}

func (svc *Service) Archive(userID int, code string, archived bool) error {
	rm, err := svc.GetByCode(code)
	if err != nil {
		return err
	}
	if _, err = svc.repo.GetMember(userID, rm.ID); err != nil {
		return err
	}
	return svc.repo.SetMemberArchived(userID, rm.ID, archived)
}

func (svc *Service) MyRooms(userID int) ([]UserRoom, error) {
	return svc.repo.QueryUserRooms(userID)
}

func (svc *Service) Members(roomID int) ([]MemberUser, error) {
	return svc.repo.QueryMembers(roomID)
}

// IsRoomAdmin reports whether the user may administer the room (owner or
// admin member).
func (svc *Service) IsRoomAdmin(userID int, rm Room) bool {
	if rm.AdminID == userID {
		return true
	}
	m, err := svc.repo.GetMember(userID, rm.ID)
	return err == nil && m.IsAdmin
}

// newCode derives a short, shareable join code.
func newCode() string {
	return strings.ToUpper(uuid.New().String()[:8])
}
