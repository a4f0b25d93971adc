package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/uniquest/uniquest/core/room"
)

type roomRepository struct {
	db *sqlx.DB
}

var _ room.Repository = (*roomRepository)(nil)

func NewRoomRepository(db *sqlx.DB) *roomRepository {
	return &roomRepository{db: db}
}

type roomRow struct {
	ID          int          `db:"id"`
	Name        string       `db:"name"`
	Description null.String  `db:"description"`
	Code        string       `db:"code"`
	AdminID     int          `db:"admin_id"`
	IsPublic    bool         `db:"is_public"`
	CreatedAt   sql.NullTime `db:"created_at"`
}

func (r roomRow) room() room.Room {
	return room.Room{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Code:        r.Code,
		AdminID:     r.AdminID,
		IsPublic:    r.IsPublic,
		CreatedAt:   r.CreatedAt.Time,
	}
}

type memberRow struct {
	ID       int          `db:"id"`
	UserID   int          `db:"user_id"`
	RoomID   int          `db:"room_id"`
	IsAdmin  bool         `db:"is_admin"`
	Archived bool         `db:"archived"`
	JoinedAt sql.NullTime `db:"joined_at"`
}

func (r memberRow) member() room.Member {
	return room.Member{
		ID:       r.ID,
		UserID:   r.UserID,
		RoomID:   r.RoomID,
		IsAdmin:  r.IsAdmin,
		Archived: r.Archived,
		JoinedAt: r.JoinedAt.Time,
	}
}

const roomColumns = `id, name, description, code, admin_id, is_public, created_at`

func (repo *roomRepository) CreateRoom(rm room.Room) (room.Room, error) {
	err := repo.db.QueryRow(
		`INSERT INTO room (name, description, code, admin_id, is_public, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		rm.Name, rm.Description, rm.Code, rm.AdminID, rm.IsPublic, rm.CreatedAt,
	).Scan(&rm.ID)
	if err != nil {
		return room.Room{}, errors.Wrap(err, "creating room")
	}
	return rm, nil
}

func (repo *roomRepository) GetRoomByID(id int) (room.Room, error) {
	return repo.get(`SELECT `+roomColumns+` FROM room WHERE id = $1`, id)
}

func (repo *roomRepository) GetRoomByCode(code string) (room.Room, error) {
	return repo.get(`SELECT `+roomColumns+` FROM room WHERE code = $1`, code)
}

func (repo *roomRepository) QueryRoomsByID(ids ...int) ([]room.Room, error) {
	if len(ids) == 0 {
		return []room.Room{}, nil
	}
	q, args, err := sqlx.In(`SELECT `+roomColumns+` FROM room WHERE id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "building rooms query")
	}

	var rows []roomRow
	if err = repo.db.Select(&rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying rooms")
	}
	rooms := make([]room.Room, 0, len(rows))
	for _, row := range rows {
		rooms = append(rooms, row.room())
	}
	return rooms, nil
}

func (repo *roomRepository) QueryUserRooms(userID int) ([]room.UserRoom, error) {
	var rows []struct {
		roomRow
		Archived bool `db:"archived"`
	}
	err := repo.db.Select(&rows,
		`SELECT r.id, r.name, r.description, r.code, r.admin_id, r.is_public, r.created_at, m.archived
		 FROM room r JOIN room_member m ON m.room_id = r.id
		 WHERE m.user_id = $1 ORDER BY r.id`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying user rooms")
	}
	rooms := make([]room.UserRoom, 0, len(rows))
	for _, row := range rows {
		rooms = append(rooms, room.UserRoom{Room: row.room(), IsArchived: row.Archived})
	}
	return rooms, nil
}

func (repo *roomRepository) AddMember(m room.Member) (room.Member, error) {
	err := repo.db.QueryRow(
		`INSERT INTO room_member (user_id, room_id, is_admin, archived, joined_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		m.UserID, m.RoomID, m.IsAdmin, m.Archived, m.JoinedAt,
	).Scan(&m.ID)
	if err != nil {
		return room.Member{}, errors.Wrap(err, "adding member")
	}
	return m, nil
}

func (repo *roomRepository) GetMember(userID, roomID int) (room.Member, error) {
	var row memberRow
	err := repo.db.Get(&row,
		`SELECT id, user_id, room_id, is_admin, archived, joined_at
		 FROM room_member WHERE user_id = $1 AND room_id = $2`, userID, roomID)
	if err != nil {
		if err == sql.ErrNoRows {
			return room.Member{}, room.ErrNotMember
		}
		return room.Member{}, errors.Wrap(err, "getting member")
	}
	return row.member(), nil
}

func (repo *roomRepository) RemoveMember(userID, roomID int) error {
	res, err := repo.db.Exec(`DELETE FROM room_member WHERE user_id = $1 AND room_id = $2`, userID, roomID)
	if err != nil {
		return errors.Wrap(err, "removing member")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return room.ErrNotMember
	}
	return nil
}

func (repo *roomRepository) SetMemberArchived(userID, roomID int, archived bool) error {
	res, err := repo.db.Exec(
		`UPDATE room_member SET archived = $1 WHERE user_id = $2 AND room_id = $3`,
		archived, userID, roomID)
	if err != nil {
		return errors.Wrap(err, "archiving room")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return room.ErrNotMember
	}
	return nil
}

func (repo *roomRepository) QueryMembers(roomID int) ([]room.MemberUser, error) {
	var rows []struct {
		UserID   int         `db:"user_id"`
		Username string      `db:"username"`
		Email    null.String `db:"email"`
		IsAdmin  bool        `db:"is_admin"`
	}
	err := repo.db.Select(&rows,
		`SELECT m.user_id, u.username, u.email, m.is_admin
		 FROM room_member m JOIN "user" u ON u.id = m.user_id
		 WHERE m.room_id = $1 ORDER BY m.user_id`, roomID)
	if err != nil {
		return nil, errors.Wrap(err, "querying members")
	}
	members := make([]room.MemberUser, 0, len(rows))
	for _, row := range rows {
		members = append(members, room.MemberUser{
			UserID:   row.UserID,
			Username: row.Username,
			Email:    row.Email.String,
			IsAdmin:  row.IsAdmin,
		})
	}
	return members, nil
}

func (repo *roomRepository) get(query string, args ...interface{}) (room.Room, error) {
	var row roomRow
	if err := repo.db.Get(&row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return room.Room{}, room.ErrNotFound
		}
		return room.Room{}, errors.Wrap(err, "getting room")
	}
	return row.room(), nil
}
