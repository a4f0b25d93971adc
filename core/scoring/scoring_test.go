package scoring

import (
	"testing"
	"time"

	"github.com/uniquest/uniquest/core"
)

func ts(day string, hour int) time.Time {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return t.Add(time.Duration(hour) * time.Hour)
}

func ev(id, userID, roomID int, at time.Time, baseXP int) Event {
	return Event{
		ID:        id,
		UserID:    userID,
		TaskID:    id,
		RoomID:    roomID,
		Timestamp: at,
		BaseXP:    baseXP,
		Status:    StatusVerified,
	}
}

func TestMultiplier(t *testing.T) {
	tests := []struct {
		count int
		want  float64
	}{
		{0, 1.0},
		{1, 1.0},
		{3, 1.0},
		{4, 1.5},
		{5, 1.5},
		{6, 1.5},
		{7, 3.5},
		{8, 3.5},
		{100, 3.5},
	}
	for _, tt := range tests {
		if got := Multiplier(tt.count); got != tt.want {
			t.Errorf("Multiplier(%d) = %v, want %v", tt.count, got, tt.want)
		}
	}

	// monotonically non-decreasing in cohort size
	prev := Multiplier(0)
	for count := 1; count <= 20; count++ {
		cur := Multiplier(count)
		if cur < prev {
			t.Errorf("Multiplier(%d) = %v < Multiplier(%d) = %v", count, cur, count-1, prev)
		}
		prev = cur
	}
}

func TestDay(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"utc noon", time.Date(2024, 3, 10, 12, 30, 0, 0, time.UTC), ts("2024-03-10", 0)},
		{"utc midnight", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), ts("2024-03-10", 0)},
		{"zoned stamp crosses the UTC day boundary", time.Date(2024, 3, 10, 22, 0, 0, 0, est), ts("2024-03-11", 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Day(tt.in); !got.Equal(tt.want) {
				t.Errorf("Day() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRoomScore(t *testing.T) {
	d := ts("2024-03-10", 0)

	tests := []struct {
		name   string
		events []Event
		want   int
	}{
		{name: "no events", events: nil, want: 0},
		{
			name: "three same-day submissions stay at 1x",
			events: []Event{
				ev(1, 1, 1, d.Add(9*time.Hour), 50),
				ev(2, 1, 1, d.Add(11*time.Hour), 50),
				ev(3, 1, 1, d.Add(15*time.Hour), 50),
			},
			want: 150,
		},
		{
			name: "fourth same-day submission switches the whole day to 1.5x",
			events: []Event{
				ev(1, 1, 1, d.Add(9*time.Hour), 50),
				ev(2, 1, 1, d.Add(11*time.Hour), 50),
				ev(3, 1, 1, d.Add(15*time.Hour), 50),
				ev(4, 1, 1, d.Add(18*time.Hour), 50),
			},
			want: 300,
		},
		{
			name: "seven same-day submissions earn 3.5x",
			events: []Event{
				ev(1, 1, 1, d.Add(1*time.Hour), 20),
				ev(2, 1, 1, d.Add(2*time.Hour), 20),
				ev(3, 1, 1, d.Add(3*time.Hour), 20),
				ev(4, 1, 1, d.Add(4*time.Hour), 20),
				ev(5, 1, 1, d.Add(5*time.Hour), 20),
				ev(6, 1, 1, d.Add(6*time.Hour), 20),
				ev(7, 1, 1, d.Add(7*time.Hour), 20),
			},
			want: 490,
		},
		{
			name: "multiplied total is truncated, not rounded",
			events: []Event{
				ev(1, 1, 1, d.Add(1*time.Hour), 11),
				ev(2, 1, 1, d.Add(2*time.Hour), 0),
				ev(3, 1, 1, d.Add(3*time.Hour), 0),
				ev(4, 1, 1, d.Add(4*time.Hour), 0),
			},
			want: 16, // floor(11 * 1.5)
		},
		{
			name: "days multiply independently",
			events: []Event{
				ev(1, 1, 1, d.Add(9*time.Hour), 50),
				ev(2, 1, 1, d.AddDate(0, 0, 1).Add(9*time.Hour), 50),
			},
			want: 100,
		},
		{
			name: "other users and rooms are ignored",
			events: []Event{
				ev(1, 1, 1, d.Add(9*time.Hour), 50),
				ev(2, 2, 1, d.Add(9*time.Hour), 50),
				ev(3, 1, 2, d.Add(9*time.Hour), 50),
			},
			want: 50,
		},
		{
			name: "pending and rejected carry 0 base XP but count toward the cohort",
			events: []Event{
				ev(1, 1, 1, d.Add(1*time.Hour), 50),
				ev(2, 1, 1, d.Add(2*time.Hour), 50),
				{ID: 3, UserID: 1, TaskID: 3, RoomID: 1, Timestamp: d.Add(3 * time.Hour), BaseXP: 0, Status: StatusPending},
				{ID: 4, UserID: 1, TaskID: 4, RoomID: 1, Timestamp: d.Add(4 * time.Hour), BaseXP: 0, Status: StatusRejected},
			},
			want: 150, // floor(100 * 1.5): 4 submissions that day
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RoomScore(1, 1, tt.events)
			if err != nil {
				t.Fatalf("RoomScore() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("RoomScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRoomScore_orderInvariant(t *testing.T) {
	d := ts("2024-03-10", 0)
	events := []Event{
		ev(1, 1, 1, d.Add(9*time.Hour), 50),
		ev(2, 1, 1, d.Add(11*time.Hour), 30),
		ev(3, 1, 1, d.AddDate(0, 0, 1).Add(9*time.Hour), 20),
		ev(4, 1, 1, d.Add(15*time.Hour), 10),
	}
	want, err := RoomScore(1, 1, events)
	if err != nil {
		t.Fatalf("RoomScore() error = %v", err)
	}

	reversed := make([]Event, len(events))
	for i, e := range events {
		reversed[len(events)-1-i] = e
	}
	got, err := RoomScore(1, 1, reversed)
	if err != nil {
		t.Fatalf("RoomScore() error = %v", err)
	}
	if got != want {
		t.Errorf("RoomScore() over reversed events = %d, want %d", got, want)
	}
}

func TestGlobalScore(t *testing.T) {
	d := ts("2024-03-10", 0)

	// 4 same-day submissions split 2/2 across two rooms: neither room
	// reaches the 1.5x threshold, so no multiplier applies anywhere.
	events := []Event{
		ev(1, 1, 1, d.Add(1*time.Hour), 50),
		ev(2, 1, 1, d.Add(2*time.Hour), 50),
		ev(3, 1, 2, d.Add(3*time.Hour), 50),
		ev(4, 1, 2, d.Add(4*time.Hour), 50),
	}
	got, err := GlobalScore(1, events)
	if err != nil {
		t.Fatalf("GlobalScore() error = %v", err)
	}
	if got != 200 {
		t.Errorf("GlobalScore() = %d, want 200 (cohorts must not span rooms)", got)
	}
}

func TestGlobalScore_sumOfRoomScores(t *testing.T) {
	d := ts("2024-03-10", 0)
	events := []Event{
		ev(1, 1, 1, d.Add(1*time.Hour), 50),
		ev(2, 1, 1, d.Add(2*time.Hour), 50),
		ev(3, 1, 1, d.Add(3*time.Hour), 50),
		ev(4, 1, 1, d.Add(4*time.Hour), 50),
		ev(5, 1, 2, d.Add(5*time.Hour), 30),
		ev(6, 1, 2, d.AddDate(0, 0, 2).Add(1*time.Hour), 30),
		ev(7, 2, 1, d.Add(6*time.Hour), 100),
		ev(8, 1, 3, d.AddDate(0, 0, 5).Add(1*time.Hour), 25),
	}
	for _, userID := range []int{1, 2, 3} {
		global, err := GlobalScore(userID, events)
		if err != nil {
			t.Fatalf("GlobalScore() error = %v", err)
		}
		var sum int
		for _, roomID := range []int{1, 2, 3} {
			xp, err := RoomScore(userID, roomID, events)
			if err != nil {
				t.Fatalf("RoomScore() error = %v", err)
			}
			sum += xp
		}
		if global != sum {
			t.Errorf("user %d: GlobalScore() = %d, sum of RoomScores = %d", userID, global, sum)
		}
	}
}

func TestValidateEvents(t *testing.T) {
	d := ts("2024-03-10", 0)
	tests := []struct {
		name    string
		events  []Event
		wantErr bool
	}{
		{"empty", nil, false},
		{"well formed", []Event{ev(1, 1, 1, d, 10)}, false},
		{"missing timestamp", []Event{{ID: 1, UserID: 1, RoomID: 1, BaseXP: 10}}, true},
		{"negative base XP", []Event{ev(1, 1, 1, d, -1)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEvents(tt.events)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEvents() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if _, ok := err.(*core.ValidationError); !ok {
					t.Errorf("ValidateEvents() error type = %T, want *core.ValidationError", err)
				}
			}
		})
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{101, 2},
		{1000, 11},
	}
	for _, tt := range tests {
		if got := Level(tt.xp); got != tt.want {
			t.Errorf("Level(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}
