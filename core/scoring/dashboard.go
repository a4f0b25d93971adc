package scoring

import (
	"sort"
	"time"
)

// maxDailyEntries caps the xp_by_day chart window.
const maxDailyEntries = 30

type (
	// RoomInfo and TaskInfo are the display lookups the composer needs;
	// how the caller fetches them is not this package's concern.
	RoomInfo struct {
		ID   int
		Name string
		Code string
	}

	TaskInfo struct {
		ID     int
		RoomID int
		Title  string
	}

	RoomXP struct {
		RoomID   int    `json:"room_id"`
		RoomName string `json:"room_name"`
		RoomCode string `json:"room_code"`
		XP       int    `json:"xp"`
	}

	DailyXP struct {
		Date string `json:"date"` // ISO calendar date
		XP   int    `json:"xp"`
	}

	Activity struct {
		TaskTitle string    `json:"quest_title"`
		RoomName  string    `json:"room_name"`
		XP        int       `json:"xp_earned"`
		Timestamp time.Time `json:"timestamp"`
	}

	// View is the fully-typed dashboard projection; it is built here and
	// never by decorating loaded entities.
	View struct {
		TotalXP         int        `json:"total_xp"`
		Level           int        `json:"level"`
		CurrentStreak   int        `json:"current_streak"`
		QuestsCompleted int        `json:"quests_completed"`
		XPByDay         []DailyXP  `json:"xp_by_day"`
		XPByRoom        []RoomXP   `json:"xp_by_room"`
		Recent          []Activity `json:"recent_activities"`
		TopAdventurers  []Entry    `json:"top_adventurers"`
		GlobalRank      int        `json:"global_rank"`
	}
)

// Dashboard composes the full dashboard view for one user from the complete
// event log and the room/task/user display lookups. Two calls over the same
// event set yield identical output.
func Dashboard(
	userID int,
	events []Event,
	rooms map[int]RoomInfo,
	tasks map[int]TaskInfo,
	users map[int]Member,
) (View, error) {
	if err := ValidateEvents(events); err != nil {
		return View{}, err
	}

	var view View

	// the user's own events, in stable chronological order
	var userEvents []Event
	for _, e := range events {
		if e.UserID == userID {
			userEvents = append(userEvents, e)
		}
	}
	sort.SliceStable(userEvents, func(i, j int) bool {
		return userEvents[i].Timestamp.Before(userEvents[j].Timestamp)
	})

	// per-room and per-day breakdowns from the same per-(room,day) cohorts;
	// total XP is the sum of room XPs, never a cross-room re-bucketing.
	idx := groupCohorts(userEvents)
	roomTotals := make(map[int]int)
	dayTotals := make(map[time.Time]int)
	for k, cohort := range idx {
		xp := cohortXP(userEvents, cohort)
		roomTotals[k.roomID] += xp
		dayTotals[k.day] += xp
		view.TotalXP += xp
	}

	view.XPByRoom = make([]RoomXP, 0, len(roomTotals))
	for roomID, xp := range roomTotals {
		rxp := RoomXP{RoomID: roomID, XP: xp}
		if r, ok := rooms[roomID]; ok {
			rxp.RoomName = r.Name
			rxp.RoomCode = r.Code
		}
		view.XPByRoom = append(view.XPByRoom, rxp)
	}
	sort.Slice(view.XPByRoom, func(i, j int) bool {
		if view.XPByRoom[i].XP != view.XPByRoom[j].XP {
			return view.XPByRoom[i].XP > view.XPByRoom[j].XP
		}
		return view.XPByRoom[i].RoomID < view.XPByRoom[j].RoomID
	})

	days := make([]time.Time, 0, len(dayTotals))
	for d := range dayTotals {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	if len(days) > maxDailyEntries {
		days = days[len(days)-maxDailyEntries:]
	}
	view.XPByDay = make([]DailyXP, 0, len(days))
	for _, d := range days {
		view.XPByDay = append(view.XPByDay, DailyXP{Date: d.Format("2006-01-02"), XP: dayTotals[d]})
	}

	view.Level = Level(view.TotalXP)
	view.QuestsCompleted = len(userEvents)

	streak, err := Streak(ActivityDays(userID, userEvents))
	if err != nil {
		return View{}, err
	}
	view.CurrentStreak = streak

	// last 5 activities, newest first
	view.Recent = make([]Activity, 0, 5)
	for i := len(userEvents) - 1; i >= 0 && len(view.Recent) < 5; i-- {
		e := userEvents[i]
		act := Activity{XP: e.BaseXP, Timestamp: e.Timestamp}
		if t, ok := tasks[e.TaskID]; ok {
			act.TaskTitle = t.Title
		}
		if r, ok := rooms[e.RoomID]; ok {
			act.RoomName = r.Name
		}
		view.Recent = append(view.Recent, act)
	}

	// global standing via the one shared ranking
	lb, err := GlobalLeaderboard(events, users)
	if err != nil {
		return View{}, err
	}
	if len(lb) > 10 {
		view.TopAdventurers = lb[:10]
	} else {
		view.TopAdventurers = lb
	}
	view.GlobalRank = len(lb) + 1 // no activity: placed last, not tied for first
	for _, e := range lb {
		if e.UserID == userID {
			view.GlobalRank = e.Rank
			break
		}
	}

	return view, nil
}
