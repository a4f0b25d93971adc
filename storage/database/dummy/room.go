package dummydb

import (
	"sort"

	"github.com/uniquest/uniquest/core/room"
)

type roomRepository struct {
	db *DB
}

var _ room.Repository = (*roomRepository)(nil)

func NewRoomRepository(db *DB) *roomRepository {
	return &roomRepository{db: db}
}

func (repo *roomRepository) CreateRoom(rm room.Room) (room.Room, error) {
	repo.db.room.mutex.Lock()
	defer repo.db.room.mutex.Unlock()

	repo.db.room.seq++
	rm.ID = repo.db.room.seq
	repo.db.room.table[rm.ID] = &rm
	return rm, nil
}

func (repo *roomRepository) GetRoomByID(id int) (room.Room, error) {
	repo.db.room.mutex.RLock()
	defer repo.db.room.mutex.RUnlock()

	if rm, ok := repo.db.room.table[id]; ok {
		return *rm, nil
	}
	return room.Room{}, room.ErrNotFound
}

func (repo *roomRepository) GetRoomByCode(code string) (room.Room, error) {
	repo.db.room.mutex.RLock()
	defer repo.db.room.mutex.RUnlock()

	for _, rm := range repo.db.room.table {
		if rm.Code == code {
			return *rm, nil
		}
	}
	return room.Room{}, room.ErrNotFound
}

func (repo *roomRepository) QueryRoomsByID(ids ...int) ([]room.Room, error) {
	repo.db.room.mutex.RLock()
	defer repo.db.room.mutex.RUnlock()

	rooms := make([]room.Room, 0, len(ids))
	for _, id := range ids {
		if rm, ok := repo.db.room.table[id]; ok {
			rooms = append(rooms, *rm)
		}
	}
	return rooms, nil
}

func (repo *roomRepository) QueryUserRooms(userID int) ([]room.UserRoom, error) {
	repo.db.room.mutex.RLock()
	defer repo.db.room.mutex.RUnlock()

	rooms := make([]room.UserRoom, 0)
	for _, m := range repo.db.room.members {
		if m.UserID != userID {
			continue
		}
		if rm, ok := repo.db.room.table[m.RoomID]; ok {
			rooms = append(rooms, room.UserRoom{Room: *rm, IsArchived: m.Archived})
		}
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms, nil
}

func (repo *roomRepository) AddMember(m room.Member) (room.Member, error) {
	repo.db.room.mutex.Lock()
	defer repo.db.room.mutex.Unlock()

	repo.db.room.memberSeq++
	m.ID = repo.db.room.memberSeq
	repo.db.room.members[m.ID] = &m
	return m, nil
}

func (repo *roomRepository) GetMember(userID, roomID int) (room.Member, error) {
	repo.db.room.mutex.RLock()
	defer repo.db.room.mutex.RUnlock()

	for _, m := range repo.db.room.members {
		if m.UserID == userID && m.RoomID == roomID {
			return *m, nil
		}
	}
	return room.Member{}, room.ErrNotMember
}

func (repo *roomRepository) RemoveMember(userID, roomID int) error {
	repo.db.room.mutex.Lock()
	defer repo.db.room.mutex.Unlock()

	for id, m := range repo.db.room.members {
		if m.UserID == userID && m.RoomID == roomID {
			delete(repo.db.room.members, id)
			return nil
		}
	}
	return room.ErrNotMember
}

func (repo *roomRepository) SetMemberArchived(userID, roomID int, archived bool) error {
	repo.db.room.mutex.Lock()
	defer repo.db.room.mutex.Unlock()

	for _, m := range repo.db.room.members {
		if m.UserID == userID && m.RoomID == roomID {
			m.Archived = archived
			return nil
		}
	}
	return room.ErrNotMember
}

func (repo *roomRepository) QueryMembers(roomID int) ([]room.MemberUser, error) {
	repo.db.room.mutex.RLock()
	defer repo.db.room.mutex.RUnlock()
	repo.db.user.mutex.RLock()
	defer repo.db.user.mutex.RUnlock()

	members := make([]room.MemberUser, 0)
	for _, m := range repo.db.room.members {
		if m.RoomID != roomID {
			continue
		}
		mu := room.MemberUser{UserID: m.UserID, IsAdmin: m.IsAdmin}
		if usr, ok := repo.db.user.table[m.UserID]; ok {
			mu.Username = usr.Username
			mu.Email = usr.Email.String
		}
		members = append(members, mu)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].UserID < members[j].UserID })
	return members, nil
}
