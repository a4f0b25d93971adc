package room

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/uniquest/uniquest/core"
)

type Room struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Description null.String `json:"description"`
	Code        string      `json:"code"`
	AdminID     int         `json:"admin_id"`
	IsPublic    bool        `json:"is_public"`
	CreatedAt   time.Time   `json:"created_at"` // UTC
}

// Member is one user's membership in one room.
type Member struct {
	ID       int       `json:"id"`
	UserID   int       `json:"user_id"`
	RoomID   int       `json:"room_id"`
	IsAdmin  bool      `json:"is_admin"`
	Archived bool      `json:"archived"`
	JoinedAt time.Time `json:"joined_at"` // UTC
}

// MemberUser joins a membership with the member's display fields.
type MemberUser struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}

// UserRoom is a room as seen by one of its members.
type UserRoom struct {
	Room
	IsArchived bool `json:"is_archived"`
}

// NewRoom contains information needed to create a new Room.
type NewRoom struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	IsPublic    *bool  `json:"is_public"`
}

func (nr *NewRoom) Validate(validate *validator.Validate) error {
	nr.Name = core.CleanString(nr.Name)
	nr.Description = core.CleanString(nr.Description)
	return validate.Struct(nr)
}
