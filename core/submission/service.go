package submission

import (
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/uniquest/uniquest/core/room"
	"github.com/uniquest/uniquest/core/scoring"
	"github.com/uniquest/uniquest/core/task"
)

var (
	// errors
	ErrNotFound         = errors.New("submission not found")
	ErrAlreadySubmitted = errors.New("already submitted")
	ErrAlreadyResolved  = errors.New("submission has already been reviewed")
	ErrNotRoomAdmin     = errors.New("only room admins can review submissions")
)

type (
	Repository interface {
		CreateSubmission(sub Submission) (Submission, error)
		GetSubmissionByID(id int) (Submission, error)
		GetSubmissionByTaskAndUser(taskID, userID int) (Submission, error)
		UpdateSubmission(sub Submission) (Submission, error)
		QueryTaskSubmissions(taskID int) ([]Submission, error)

		// Event queries feed the scoring engine: submissions joined with
		// their task for the room id, as immutable events.
		QueryUserEvents(userID int) ([]scoring.Event, error)
		QueryRoomEvents(roomID int) ([]scoring.Event, error)
		QueryAllEvents() ([]scoring.Event, error)
	}

	// FileStore persists submitted artifacts.
	FileStore interface {
		Save(filename string, r io.Reader) (string, error)
	}

	Service struct {
		repo    Repository
		files   FileStore
		taskSvc *task.Service
		roomSvc *room.Service
	}
)

func NewService(repo Repository, files FileStore, taskSvc *task.Service, roomSvc *room.Service) *Service {
	return &Service{
		repo:    repo,
		files:   files,
		taskSvc: taskSvc,
		roomSvc: roomSvc,
	}
}

// Submit stores the artifact and records a pending submission. A task can
// only be submitted once per user.
func (svc *Service) Submit(userID, taskID int, filename string, file io.Reader) (Submission, error) {
	t, err := svc.taskSvc.GetByID(taskID)
	if err != nil {
		return Submission{}, err
	}
	if _, err = svc.repo.GetSubmissionByTaskAndUser(taskID, userID); err == nil {
		return Submission{}, ErrAlreadySubmitted
	} else if errors.Cause(err) != ErrNotFound {
		return Submission{}, err
	}

	path, err := svc.files.Save(filename, file)
	if err != nil {
		return Submission{}, errors.Wrap(err, "storing artifact")
	}

	return svc.repo.CreateSubmission(Submission{
		TaskID:    t.ID,
		UserID:    userID,
		FilePath:  path,
		Timestamp: time.Now().UTC(),
		Status:    scoring.StatusPending,
	})
}

// Review resolves a pending submission. Verifying awards the task's XP
// value as the submission's base XP; rejecting leaves it at 0. Resolved
// submissions are immutable.
func (svc *Service) Review(reviewerID, submissionID int, approve bool) (Submission, error) {
	sub, err := svc.repo.GetSubmissionByID(submissionID)
	if err != nil {
		return Submission{}, err
	}
	if sub.Status != scoring.StatusPending {
		return Submission{}, ErrAlreadyResolved
	}

	t, err := svc.taskSvc.GetByID(sub.TaskID)
	if err != nil {
		return Submission{}, errors.Wrap(err, fmt.Sprintf("loading task %d", sub.TaskID))
	}
	rm, err := svc.roomSvc.GetByID(t.RoomID)
	if err != nil {
		return Submission{}, errors.Wrap(err, fmt.Sprintf("loading room %d", t.RoomID))
	}
	if !svc.roomSvc.IsRoomAdmin(reviewerID, rm) {
		return Submission{}, ErrNotRoomAdmin
	}

	if approve {
		sub.Status = scoring.StatusVerified
		sub.XPAwarded = t.XPValue
	} else {
		sub.Status = scoring.StatusRejected
		sub.XPAwarded = 0
	}
	return svc.repo.UpdateSubmission(sub)
}

// ListForTask returns a task's submissions to its room admins.
func (svc *Service) ListForTask(reviewerID, taskID int) ([]Submission, error) {
	t, err := svc.taskSvc.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	rm, err := svc.roomSvc.GetByID(t.RoomID)
	if err != nil {
		return nil, err
	}
	if !svc.roomSvc.IsRoomAdmin(reviewerID, rm) {
		return nil, ErrNotRoomAdmin
	}
	return svc.repo.QueryTaskSubmissions(taskID)
}

func (svc *Service) UserEvents(userID int) ([]scoring.Event, error) {
	return svc.repo.QueryUserEvents(userID)
}

func (svc *Service) RoomEvents(roomID int) ([]scoring.Event, error) {
	return svc.repo.QueryRoomEvents(roomID)
}

func (svc *Service) AllEvents() ([]scoring.Event, error) {
	return svc.repo.QueryAllEvents()
}
