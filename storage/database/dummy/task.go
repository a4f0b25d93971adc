package dummydb

import (
	"sort"

	"github.com/uniquest/uniquest/core/task"
)

type taskRepository struct {
	db *DB
}

var _ task.Repository = (*taskRepository)(nil)

func NewTaskRepository(db *DB) *taskRepository {
	return &taskRepository{db: db}
}

func (repo *taskRepository) CreateTask(t task.Task) (task.Task, error) {
	repo.db.task.mutex.Lock()
	defer repo.db.task.mutex.Unlock()

	repo.db.task.seq++
	t.ID = repo.db.task.seq
	repo.db.task.table[t.ID] = &t
	return t, nil
}

func (repo *taskRepository) GetTaskByID(id int) (task.Task, error) {
	repo.db.task.mutex.RLock()
	defer repo.db.task.mutex.RUnlock()

	if t, ok := repo.db.task.table[id]; ok {
		return *t, nil
	}
	return task.Task{}, task.ErrNotFound
}

func (repo *taskRepository) QueryRoomTasks(roomID int) ([]task.Task, error) {
	repo.db.task.mutex.RLock()
	defer repo.db.task.mutex.RUnlock()

	tasks := make([]task.Task, 0)
	for _, t := range repo.db.task.table {
		if t.RoomID == roomID {
			tasks = append(tasks, *t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

func (repo *taskRepository) QueryTasksByID(ids ...int) ([]task.Task, error) {
	repo.db.task.mutex.RLock()
	defer repo.db.task.mutex.RUnlock()

	tasks := make([]task.Task, 0, len(ids))
	for _, id := range ids {
		if t, ok := repo.db.task.table[id]; ok {
			tasks = append(tasks, *t)
		}
	}
	return tasks, nil
}

func (repo *taskRepository) QuerySubmittedTaskIDs(roomID, userID int) ([]int, error) {
	repo.db.task.mutex.RLock()
	defer repo.db.task.mutex.RUnlock()
	repo.db.sub.mutex.RLock()
	defer repo.db.sub.mutex.RUnlock()

	ids := make([]int, 0)
	for _, sub := range repo.db.sub.table {
		if sub.UserID != userID {
			continue
		}
		if t, ok := repo.db.task.table[sub.TaskID]; ok && t.RoomID == roomID {
			ids = append(ids, t.ID)
		}
	}
	sort.Ints(ids)
	return ids, nil
}
