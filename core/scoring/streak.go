package scoring

import (
	"sort"
	"time"

	"github.com/uniquest/uniquest/core"
)

var nowFunc = time.Now // mockable

// ActivityDays returns the distinct UTC calendar days on which the user has
// any submission event, in any room and with any status.
func ActivityDays(userID int, events []Event) []time.Time {
	seen := make(map[time.Time]struct{})
	for _, e := range events {
		if e.UserID == userID {
			seen[Day(e.Timestamp)] = struct{}{}
		}
	}
	days := make([]time.Time, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// Streak computes the current consecutive-day activity streak: 0 unless the
// most recent active day is today or yesterday (UTC), else the run length
// of immediately preceding consecutive active days. Informational only;
// it never feeds XP calculation.
func Streak(days []time.Time) (int, error) {
	return streakAt(days, Day(nowFunc()))
}

func streakAt(days []time.Time, today time.Time) (int, error) {
	if len(days) == 0 {
		return 0, nil
	}
	for _, d := range days {
		if d.IsZero() {
			return 0, core.NewValidationError(errEmptyCalendar)
		}
	}

	// dedupe + sort most recent first
	seen := make(map[time.Time]struct{}, len(days))
	uniq := make([]time.Time, 0, len(days))
	for _, d := range days {
		d = Day(d)
		if _, ok := seen[d]; !ok {
			seen[d] = struct{}{}
			uniq = append(uniq, d)
		}
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i].After(uniq[j]) })

	yesterday := today.AddDate(0, 0, -1)
	if uniq[0].Before(yesterday) {
		return 0, nil
	}

	streak := 1
	prev := uniq[0]
	for _, d := range uniq[1:] {
		if prev.Sub(d) == 24*time.Hour {
			streak++
			prev = d
		} else {
			break
		}
	}
	return streak, nil
}
