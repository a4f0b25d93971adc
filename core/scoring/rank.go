package scoring

import "sort"

type (
	// Member carries the display fields of a potential leaderboard entrant.
	Member struct {
		UserID   int    `json:"user_id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}

	// Entry is one ranked leaderboard row.
	Entry struct {
		UserID   int    `json:"user_id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		XP       int    `json:"total_xp"`
		Rank     int    `json:"rank"`
	}
)

// Rank sorts entries by XP descending and assigns standard competition
// ranks: an entry's rank is 1 + the number of entries strictly ahead of it,
// so equal XP shares a rank and the next distinct XP resumes past the tie
// group. Entries with equal XP are ordered by user id for determinism.
//
// The input slice is sorted in place and returned.
func Rank(entries []Entry) []Entry {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].XP != entries[j].XP {
			return entries[i].XP > entries[j].XP
		}
		return entries[i].UserID < entries[j].UserID
	})
	for i := range entries {
		if i > 0 && entries[i].XP == entries[i-1].XP {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
	}
	return entries
}

// RoomLeaderboard ranks every current room member by their XP within the
// room. Members who never submitted appear with 0 XP; they are never
// silently dropped.
func RoomLeaderboard(roomID int, members []Member, events []Event) ([]Entry, error) {
	if err := ValidateEvents(events); err != nil {
		return nil, err
	}
	idx := groupCohorts(events)
	entries := make([]Entry, 0, len(members))
	for _, m := range members {
		entries = append(entries, Entry{
			UserID:   m.UserID,
			Username: m.Username,
			Email:    m.Email,
			XP:       roomScore(m.UserID, roomID, idx, events),
		})
	}
	return Rank(entries), nil
}

// GlobalLeaderboard ranks every user with at least one submission event by
// their platform-wide XP. Users with zero activity are absent by design;
// users missing from the lookup keep empty display fields.
func GlobalLeaderboard(events []Event, users map[int]Member) ([]Entry, error) {
	if err := ValidateEvents(events); err != nil {
		return nil, err
	}
	idx := groupCohorts(events)

	totals := make(map[int]int)
	for k, cohort := range idx {
		totals[k.userID] += cohortXP(events, cohort)
	}

	entries := make([]Entry, 0, len(totals))
	for userID, xp := range totals {
		e := Entry{UserID: userID, XP: xp}
		if m, ok := users[userID]; ok {
			e.Username = m.Username
			e.Email = m.Email
		}
		entries = append(entries, e)
	}
	return Rank(entries), nil
}
