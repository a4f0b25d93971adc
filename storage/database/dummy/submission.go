package dummydb

import (
	"sort"

	"github.com/uniquest/uniquest/core/scoring"
	"github.com/uniquest/uniquest/core/submission"
)

type submissionRepository struct {
	db *DB
}

var _ submission.Repository = (*submissionRepository)(nil)

func NewSubmissionRepository(db *DB) *submissionRepository {
	return &submissionRepository{db: db}
}

func (repo *submissionRepository) CreateSubmission(sub submission.Submission) (submission.Submission, error) {
	repo.db.sub.mutex.Lock()
	defer repo.db.sub.mutex.Unlock()

	repo.db.sub.seq++
	sub.ID = repo.db.sub.seq
	repo.db.sub.table[sub.ID] = &sub
	return sub, nil
}

func (repo *submissionRepository) GetSubmissionByID(id int) (submission.Submission, error) {
	repo.db.sub.mutex.RLock()
	defer repo.db.sub.mutex.RUnlock()

	if sub, ok := repo.db.sub.table[id]; ok {
		return *sub, nil
	}
	return submission.Submission{}, submission.ErrNotFound
}

func (repo *submissionRepository) GetSubmissionByTaskAndUser(taskID, userID int) (submission.Submission, error) {
	repo.db.sub.mutex.RLock()
	defer repo.db.sub.mutex.RUnlock()

	for _, sub := range repo.db.sub.table {
		if sub.TaskID == taskID && sub.UserID == userID {
			return *sub, nil
		}
	}
	return submission.Submission{}, submission.ErrNotFound
}

func (repo *submissionRepository) UpdateSubmission(sub submission.Submission) (submission.Submission, error) {
	repo.db.sub.mutex.Lock()
	defer repo.db.sub.mutex.Unlock()

	if _, ok := repo.db.sub.table[sub.ID]; !ok {
		return submission.Submission{}, submission.ErrNotFound
	}
	repo.db.sub.table[sub.ID] = &sub
	return sub, nil
}

func (repo *submissionRepository) QueryTaskSubmissions(taskID int) ([]submission.Submission, error) {
	repo.db.sub.mutex.RLock()
	defer repo.db.sub.mutex.RUnlock()

	subs := make([]submission.Submission, 0)
	for _, sub := range repo.db.sub.table {
		if sub.TaskID == taskID {
			subs = append(subs, *sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })
	return subs, nil
}

func (repo *submissionRepository) QueryUserEvents(userID int) ([]scoring.Event, error) {
	return repo.queryEvents(func(ev scoring.Event) bool { return ev.UserID == userID })
}

func (repo *submissionRepository) QueryRoomEvents(roomID int) ([]scoring.Event, error) {
	return repo.queryEvents(func(ev scoring.Event) bool { return ev.RoomID == roomID })
}

func (repo *submissionRepository) QueryAllEvents() ([]scoring.Event, error) {
	return repo.queryEvents(func(scoring.Event) bool { return true })
}

// queryEvents joins submissions with their task for the room id.
func (repo *submissionRepository) queryEvents(keep func(scoring.Event) bool) ([]scoring.Event, error) {
	repo.db.sub.mutex.RLock()
	defer repo.db.sub.mutex.RUnlock()
	repo.db.task.mutex.RLock()
	defer repo.db.task.mutex.RUnlock()

	events := make([]scoring.Event, 0, len(repo.db.sub.table))
	for _, sub := range repo.db.sub.table {
		t, ok := repo.db.task.table[sub.TaskID]
		if !ok {
			continue
		}
		ev := scoring.Event{
			ID:        sub.ID,
			UserID:    sub.UserID,
			TaskID:    sub.TaskID,
			RoomID:    t.RoomID,
			Timestamp: sub.Timestamp,
			BaseXP:    sub.XPAwarded,
			Status:    sub.Status,
		}
		if keep(ev) {
			events = append(events, ev)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events, nil
}
