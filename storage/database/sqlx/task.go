package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/uniquest/uniquest/core/task"
)

type taskRepository struct {
	db *sqlx.DB
}

var _ task.Repository = (*taskRepository)(nil)

func NewTaskRepository(db *sqlx.DB) *taskRepository {
	return &taskRepository{db: db}
}

type taskRow struct {
	ID          int          `db:"id"`
	RoomID      int          `db:"room_id"`
	Type        string       `db:"type"`
	Title       string       `db:"title"`
	Description null.String  `db:"description"`
	Deadline    null.Time    `db:"deadline"`
	StartTime   null.Time    `db:"start_time"`
	EndTime     null.Time    `db:"end_time"`
	XPValue     int          `db:"xp_value"`
	CreatedAt   sql.NullTime `db:"created_at"`
}

func (r taskRow) task() task.Task {
	return task.Task{
		ID:          r.ID,
		RoomID:      r.RoomID,
		Type:        r.Type,
		Title:       r.Title,
		Description: r.Description,
		Deadline:    r.Deadline,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		XPValue:     r.XPValue,
		CreatedAt:   r.CreatedAt.Time,
	}
}

const taskColumns = `id, room_id, type, title, description, deadline, start_time, end_time, xp_value, created_at`

func (repo *taskRepository) CreateTask(t task.Task) (task.Task, error) {
	err := repo.db.QueryRow(
		`INSERT INTO task (room_id, type, title, description, deadline, start_time, end_time, xp_value, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		t.RoomID, t.Type, t.Title, t.Description, t.Deadline, t.StartTime, t.EndTime, t.XPValue, t.CreatedAt,
	).Scan(&t.ID)
	if err != nil {
		return task.Task{}, errors.Wrap(err, "creating task")
	}
	return t, nil
}

func (repo *taskRepository) GetTaskByID(id int) (task.Task, error) {
	var row taskRow
	if err := repo.db.Get(&row, `SELECT `+taskColumns+` FROM task WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, errors.Wrap(err, "getting task")
	}
	return row.task(), nil
}

func (repo *taskRepository) QueryRoomTasks(roomID int) ([]task.Task, error) {
	var rows []taskRow
	err := repo.db.Select(&rows, `SELECT `+taskColumns+` FROM task WHERE room_id = $1 ORDER BY id`, roomID)
	if err != nil {
		return nil, errors.Wrap(err, "querying room tasks")
	}
	tasks := make([]task.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, row.task())
	}
	return tasks, nil
}

func (repo *taskRepository) QueryTasksByID(ids ...int) ([]task.Task, error) {
	if len(ids) == 0 {
		return []task.Task{}, nil
	}
	q, args, err := sqlx.In(`SELECT `+taskColumns+` FROM task WHERE id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "building tasks query")
	}

	var rows []taskRow
	if err = repo.db.Select(&rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying tasks")
	}
	tasks := make([]task.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, row.task())
	}
	return tasks, nil
}

func (repo *taskRepository) QuerySubmittedTaskIDs(roomID, userID int) ([]int, error) {
	var ids []int
	err := repo.db.Select(&ids,
		`SELECT t.id FROM task t JOIN submission s ON s.task_id = t.id
		 WHERE t.room_id = $1 AND s.user_id = $2 ORDER BY t.id`, roomID, userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying submitted tasks")
	}
	return ids, nil
}
