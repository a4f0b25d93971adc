package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/uniquest/uniquest/core/scoring"
	"github.com/uniquest/uniquest/core/submission"
)

type submissionRepository struct {
	db *sqlx.DB
}

var _ submission.Repository = (*submissionRepository)(nil)

func NewSubmissionRepository(db *sqlx.DB) *submissionRepository {
	return &submissionRepository{db: db}
}

type submissionRow struct {
	ID        int          `db:"id"`
	TaskID    int          `db:"task_id"`
	UserID    int          `db:"user_id"`
	FilePath  string       `db:"file_path"`
	Timestamp sql.NullTime `db:"timestamp"`
	XPAwarded int          `db:"xp_awarded"`
	Status    string       `db:"status"`
}

func (r submissionRow) submission() submission.Submission {
	return submission.Submission{
		ID:        r.ID,
		TaskID:    r.TaskID,
		UserID:    r.UserID,
		FilePath:  r.FilePath,
		Timestamp: r.Timestamp.Time,
		XPAwarded: r.XPAwarded,
		Status:    scoring.Status(r.Status),
	}
}

type eventRow struct {
	ID        int          `db:"id"`
	UserID    int          `db:"user_id"`
	TaskID    int          `db:"task_id"`
	RoomID    int          `db:"room_id"`
	Timestamp sql.NullTime `db:"timestamp"`
	XPAwarded int          `db:"xp_awarded"`
	Status    string       `db:"status"`
}

const submissionColumns = `id, task_id, user_id, file_path, timestamp, xp_awarded, status`

// eventQuery joins submissions with their task for the room id.
const eventQuery = `SELECT s.id, s.user_id, s.task_id, t.room_id, s.timestamp, s.xp_awarded, s.status
	FROM submission s JOIN task t ON t.id = s.task_id`

func (repo *submissionRepository) CreateSubmission(sub submission.Submission) (submission.Submission, error) {
	err := repo.db.QueryRow(
		`INSERT INTO submission (task_id, user_id, file_path, timestamp, xp_awarded, status)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		sub.TaskID, sub.UserID, sub.FilePath, sub.Timestamp, sub.XPAwarded, string(sub.Status),
	).Scan(&sub.ID)
	if err != nil {
		return submission.Submission{}, errors.Wrap(err, "creating submission")
	}
	return sub, nil
}

func (repo *submissionRepository) GetSubmissionByID(id int) (submission.Submission, error) {
	return repo.get(`SELECT `+submissionColumns+` FROM submission WHERE id = $1`, id)
}

func (repo *submissionRepository) GetSubmissionByTaskAndUser(taskID, userID int) (submission.Submission, error) {
	return repo.get(`SELECT `+submissionColumns+` FROM submission WHERE task_id = $1 AND user_id = $2`, taskID, userID)
}

func (repo *submissionRepository) UpdateSubmission(sub submission.Submission) (submission.Submission, error) {
	res, err := repo.db.Exec(
		`UPDATE submission SET xp_awarded = $1, status = $2 WHERE id = $3`,
		sub.XPAwarded, string(sub.Status), sub.ID,
	)
	if err != nil {
		return submission.Submission{}, errors.Wrap(err, "updating submission")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return submission.Submission{}, submission.ErrNotFound
	}
	return sub, nil
}

func (repo *submissionRepository) QueryTaskSubmissions(taskID int) ([]submission.Submission, error) {
	var rows []submissionRow
	err := repo.db.Select(&rows, `SELECT `+submissionColumns+` FROM submission WHERE task_id = $1 ORDER BY id`, taskID)
	if err != nil {
		return nil, errors.Wrap(err, "querying task submissions")
	}
	subs := make([]submission.Submission, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, row.submission())
	}
	return subs, nil
}

func (repo *submissionRepository) QueryUserEvents(userID int) ([]scoring.Event, error) {
	return repo.queryEvents(eventQuery+` WHERE s.user_id = $1 ORDER BY s.id`, userID)
}

func (repo *submissionRepository) QueryRoomEvents(roomID int) ([]scoring.Event, error) {
	return repo.queryEvents(eventQuery+` WHERE t.room_id = $1 ORDER BY s.id`, roomID)
}

func (repo *submissionRepository) QueryAllEvents() ([]scoring.Event, error) {
	return repo.queryEvents(eventQuery + ` ORDER BY s.id`)
}

func (repo *submissionRepository) queryEvents(query string, args ...interface{}) ([]scoring.Event, error) {
	var rows []eventRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying events")
	}
	events := make([]scoring.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, scoring.Event{
			ID:        row.ID,
			UserID:    row.UserID,
			TaskID:    row.TaskID,
			RoomID:    row.RoomID,
			Timestamp: row.Timestamp.Time,
			BaseXP:    row.XPAwarded,
			Status:    scoring.Status(row.Status),
		})
	}
	return events, nil
}

func (repo *submissionRepository) get(query string, args ...interface{}) (submission.Submission, error) {
	var row submissionRow
	if err := repo.db.Get(&row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return submission.Submission{}, submission.ErrNotFound
		}
		return submission.Submission{}, errors.Wrap(err, "getting submission")
	}
	return row.submission(), nil
}
