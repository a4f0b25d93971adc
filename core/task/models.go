package task

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/uniquest/uniquest/core"
)

// Task types
const (
	TypeLecture    = "lecture"
	TypeAssignment = "assignment"
	TypeProject    = "project"
	TypeQuiz       = "quiz"
	TypeLab        = "lab"
	TypeOther      = "other"
)

var AllTypes = []string{TypeLecture, TypeAssignment, TypeProject, TypeQuiz, TypeLab, TypeOther}

type Task struct {
	ID          int         `json:"id"`
	RoomID      int         `json:"room_id"`
	Type        string      `json:"type"`
	Title       string      `json:"title"`
	Description null.String `json:"description"`
	Deadline    null.Time   `json:"deadline"`   // assignments
	StartTime   null.Time   `json:"start_time"` // lectures
	EndTime     null.Time   `json:"end_time"`   // lectures
	XPValue     int         `json:"xp_value"`
	CreatedAt   time.Time   `json:"created_at"` // UTC
}

// View is a task as presented to one user, with their submission state.
type View struct {
	Task
	IsSubmitted bool `json:"is_submitted"`
	IsExpired   bool `json:"is_expired"`
	Completed   bool `json:"completed"` // frontend compatibility alias for IsSubmitted
}

// NewTask contains information needed to create a new Task.
type NewTask struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Type        string     `json:"type" validate:"required,tasktype"`
	XPValue     int        `json:"xp_value" validate:"gte=0"`
	Deadline    *time.Time `json:"deadline"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
}

func (nt *NewTask) Validate(validate *validator.Validate) error {
	nt.Title = core.CleanString(nt.Title)
	nt.Description = core.CleanString(nt.Description)
	nt.Type = core.CleanString(nt.Type, true /* lower */)
	return validate.Struct(nt)
}
