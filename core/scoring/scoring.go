// Package scoring turns the append-only submission event log into XP
// totals, streaks and leaderboards. Everything in here is a pure function
// of its input: nothing is cached, persisted or mutated, so concurrent
// calls for different users are independent by construction.
//
// All call sites (room leaderboard, global leaderboard, dashboard) MUST go
// through this package so the numbers agree across views.
package scoring

import (
	"errors"
	"time"

	"github.com/uniquest/uniquest/core"
)

// Status of a submission event. Pending and rejected events carry 0 base XP
// but still count towards cohort sizes, quest counts and streaks.
type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusRejected Status = "rejected"
)

// Event is one immutable submission record from the event store.
// BaseXP is assigned at verification time; it stays 0 while pending and
// after rejection.
type Event struct {
	ID        int
	UserID    int
	TaskID    int
	RoomID    int
	Timestamp time.Time
	BaseXP    int
	Status    Status
}

// XPPerLevel is the amount of XP needed to advance one level.
const XPPerLevel = 100

var (
	errNoTimestamp   = errors.New("submission event has no timestamp")
	errNegativeXP    = errors.New("submission event has negative base XP")
	errEmptyCalendar = errors.New("activity day has no timestamp")
)

// ValidateEvents fails fast on malformed input; the engine never coerces it.
func ValidateEvents(events []Event) error {
	for _, e := range events {
		if e.Timestamp.IsZero() {
			return core.NewValidationError(errNoTimestamp)
		}
		if e.BaseXP < 0 {
			return core.NewValidationError(errNegativeXP)
		}
	}
	return nil
}

// Day truncates t to its UTC calendar day, the one and only cohort boundary.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Multiplier maps a same-day cohort size to its XP multiplier.
// Total over all counts; no other package hardcodes these thresholds.
func Multiplier(count int) float64 {
	switch {
	case count >= 7:
		return 3.5
	case count >= 4:
		return 1.5
	default:
		return 1.0
	}
}

// Level derives the 1-based level from a total XP amount.
func Level(xp int) int {
	if xp < 0 {
		return 1
	}
	return xp/XPPerLevel + 1
}

// cohortKey identifies one user's submissions in one room on one UTC day.
type cohortKey struct {
	userID int
	roomID int
	day    time.Time
}

// cohortIndex groups events by cohort as indexes into the event slice,
// instead of nesting mutable maps of slices of copies.
type cohortIndex map[cohortKey][]int

func groupCohorts(events []Event) cohortIndex {
	idx := make(cohortIndex, len(events))
	for i, e := range events {
		k := cohortKey{userID: e.UserID, roomID: e.RoomID, day: Day(e.Timestamp)}
		idx[k] = append(idx[k], i)
	}
	return idx
}

// cohortXP applies the daily multiplier to a cohort's summed base XP,
// truncating toward zero (not rounding).
func cohortXP(events []Event, cohort []int) int {
	var base int
	for _, i := range cohort {
		base += events[i].BaseXP
	}
	return int(float64(base) * Multiplier(len(cohort)))
}

// RoomScore computes one user's total XP within one room: events are
// bucketed by UTC day and each daily cohort's base XP is scaled by the
// cohort-size multiplier. Pure over its input; event order is irrelevant.
func RoomScore(userID, roomID int, events []Event) (int, error) {
	if err := ValidateEvents(events); err != nil {
		return 0, err
	}
	return roomScore(userID, roomID, groupCohorts(events), events), nil
}

func roomScore(userID, roomID int, idx cohortIndex, events []Event) int {
	var xp int
	for k, cohort := range idx {
		if k.userID == userID && k.roomID == roomID {
			xp += cohortXP(events, cohort)
		}
	}
	return xp
}

// GlobalScore computes one user's platform-wide XP as the sum of their
// per-room scores. Cohorts never span room boundaries: same-day submissions
// in different rooms do not multiply together.
func GlobalScore(userID int, events []Event) (int, error) {
	if err := ValidateEvents(events); err != nil {
		return 0, err
	}
	return globalScore(userID, groupCohorts(events), events), nil
}

func globalScore(userID int, idx cohortIndex, events []Event) int {
	var xp int
	for k, cohort := range idx {
		if k.userID == userID {
			xp += cohortXP(events, cohort)
		}
	}
	return xp
}
