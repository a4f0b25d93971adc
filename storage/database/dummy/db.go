// Package dummydb is an in-memory database used in tests.
package dummydb

import (
	"sync"

	"github.com/uniquest/uniquest/core/room"
	"github.com/uniquest/uniquest/core/submission"
	"github.com/uniquest/uniquest/core/task"
	"github.com/uniquest/uniquest/core/user"
)

type (
	DB struct {
		user *userTable
		room *roomTable
		task *taskTable
		sub  *submissionTable
	}

	userTable struct {
		mutex sync.RWMutex
		seq   int
		table map[int]*user.User
	}

	roomTable struct {
		mutex     sync.RWMutex
		seq       int
		memberSeq int
		table     map[int]*room.Room
		members   map[int]*room.Member
	}

	taskTable struct {
		mutex sync.RWMutex
		seq   int
		table map[int]*task.Task
	}

	submissionTable struct {
		mutex sync.RWMutex
		seq   int
		table map[int]*submission.Submission
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{table: make(map[int]*user.User)},
		room: &roomTable{table: make(map[int]*room.Room), members: make(map[int]*room.Member)},
		task: &taskTable{table: make(map[int]*task.Task)},
		sub:  &submissionTable{table: make(map[int]*submission.Submission)},
	}
	return db, nil
}
