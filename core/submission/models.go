package submission

import (
	"time"

	"github.com/uniquest/uniquest/core/scoring"
)

// Submission is one student's proof of completing one task. It is created
// pending with 0 XP; verification awards the task's XP value, rejection
// leaves it at 0. Once resolved it is immutable.
type Submission struct {
	ID        int            `json:"id"`
	TaskID    int            `json:"task_id"`
	UserID    int            `json:"user_id"`
	FilePath  string         `json:"file_path"`
	Timestamp time.Time      `json:"timestamp"` // UTC
	XPAwarded int            `json:"xp_awarded"`
	Status    scoring.Status `json:"status"`
}
