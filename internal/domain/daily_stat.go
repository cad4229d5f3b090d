package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// DailyStat accumulates one learner's activity on one calendar day across
// every session of that day.
type DailyStat struct {
	LearnerID    uuid.UUID `json:"learner_id"`
	Date         Day       `json:"date"`
	ReviewCount  int       `json:"review_count"`
	CorrectCount int       `json:"correct_count"`
	XPEarned     int       `json:"xp_earned"`
	MinutesSpent int       `json:"minutes_spent"`
}

// NewDailyStat returns an empty stat for learnerID on date.
func NewDailyStat(learnerID uuid.UUID, date Day) *DailyStat {
	return &DailyStat{LearnerID: learnerID, Date: date}
}

// AddMinutes adds d rounded to the nearest minute. Negative durations are
// ignored.
func (s *DailyStat) AddMinutes(d time.Duration) {
	if d <= 0 {
		return
	}
	s.MinutesSpent += int(math.Round(d.Minutes()))
}

// FillDailyStats returns one stat per day from today-days+1 through today in
// ascending order, using stats that exist and zero values for the rest.
func FillDailyStats(learnerID uuid.UUID, stats []DailyStat, today Day, days int) []DailyStat {
	if days < 1 {
		return []DailyStat{}
	}
	byDay := make(map[string]DailyStat, len(stats))
	for _, s := range stats {
		byDay[s.Date.String()] = s
	}
	out := make([]DailyStat, 0, days)
	for i := days - 1; i >= 0; i-- {
		d := today.AddDays(-i)
		if s, ok := byDay[d.String()]; ok {
			out = append(out, s)
			continue
		}
		out = append(out, *NewDailyStat(learnerID, d))
	}
	return out
}
