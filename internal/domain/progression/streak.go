package progression

import "github.com/Ymit24/language-reader-app-sub000/internal/domain"

// ShieldInterval is the streak length multiple that earns a streak shield.
const ShieldInterval = 30

type streakUpdate struct {
	current        int
	shields        int
	firstOfDay     bool
	shieldEarned   bool
	shieldConsumed bool
}

// advanceStreak applies one graded review on today to the streak state held
// by record. A nil record is a learner who has never reviewed.
//
// A review dated before LastReviewDate is treated as the same day so clock
// skew never breaks or extends a streak.
func advanceStreak(record *domain.ProgressRecord, today domain.Day) streakUpdate {
	if record == nil || record.LastReviewDate.IsZero() || record.CurrentStreak == 0 {
		shields := 0
		if record != nil {
			shields = record.StreakShields
		}
		return streakUpdate{current: 1, shields: shields, firstOfDay: true}
	}

	u := streakUpdate{current: record.CurrentStreak, shields: record.StreakShields}
	gap := today.DaysSince(record.LastReviewDate)
	switch {
	case gap <= 0:
		return u
	case gap == 1:
		u.current++
		if u.current%ShieldInterval == 0 {
			u.shields++
			u.shieldEarned = true
		}
	case u.shields > 0:
		u.shields--
		u.shieldConsumed = true
	default:
		u.current = 1
	}
	u.firstOfDay = true
	return u
}
