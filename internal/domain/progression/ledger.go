package progression

import (
	"errors"
	"time"

	"github.com/Ymit24/language-reader-app-sub000/internal/domain"
	"github.com/google/uuid"
)

// ErrNilLearner is returned when Apply is called without a learner.
var ErrNilLearner = errors.New("learner ID cannot be empty")

// Award describes the XP and progression changes produced by one review.
type Award struct {
	BaseXP           int    `json:"base_xp"`
	BonusXP          int    `json:"bonus_xp"`
	TotalXP          int    `json:"xp_earned"`
	FirstReviewOfDay bool   `json:"first_review_of_day"`
	LeveledUp        bool   `json:"leveled_up"`
	PreviousLevel    int    `json:"previous_level"`
	Level            int    `json:"level"`
	Title            string `json:"title"`
	Streak           int    `json:"current_streak"`
	StreakShields    int    `json:"streak_shields"`
	ShieldEarned     bool   `json:"shield_earned"`
	ShieldConsumed   bool   `json:"shield_consumed"`
}

// Result is the outcome of Ledger.Apply.
type Result struct {
	Record *domain.ProgressRecord
	Stat   *domain.DailyStat
	Award  Award
}

// Ledger applies graded reviews to progress records.
type Ledger struct {
	levels   LevelTable
	location *time.Location
}

// NewLedger creates a ledger over levels whose calendar days are taken in
// loc. A nil table uses DefaultLevels and a nil location uses UTC.
func NewLedger(levels LevelTable, loc *time.Location) *Ledger {
	if levels == nil {
		levels = DefaultLevels
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Ledger{levels: levels, location: loc}
}

// Levels returns the ledger's level table.
func (l *Ledger) Levels() LevelTable {
	return l.levels
}

// Today returns the calendar day of now in the ledger's location.
func (l *Ledger) Today(now time.Time) domain.Day {
	return domain.DayOf(now, l.location)
}

// DefaultRecord returns the progress a learner with no reviews reports.
func (l *Ledger) DefaultRecord(learnerID uuid.UUID) *domain.ProgressRecord {
	first := l.levels[0]
	return &domain.ProgressRecord{
		LearnerID: learnerID,
		Level:     first.Number,
		Title:     first.Title,
	}
}

// Apply records one review graded quality at now. record and stat may be
// nil for a learner with no progress yet or no activity today; a stat from
// another day is ignored. Neither input is modified.
func (l *Ledger) Apply(
	learnerID uuid.UUID,
	record *domain.ProgressRecord,
	stat *domain.DailyStat,
	quality domain.Quality,
	now time.Time,
) (*Result, error) {
	if learnerID == uuid.Nil {
		return nil, ErrNilLearner
	}
	if err := quality.Validate(); err != nil {
		return nil, err
	}

	now = now.UTC()
	today := l.Today(now)
	recall := domain.Classify(quality)

	var next domain.ProgressRecord
	if record != nil {
		next = *record
	} else {
		next = *l.DefaultRecord(learnerID)
		next.CreatedAt = now
	}
	before := l.levels.FromXP(next.TotalXP)

	streak := advanceStreak(record, today)
	base := BaseXP(recall)
	bonus := bonusXP(base, streak.firstOfDay, streak.current)
	total := base + bonus

	next.TotalXP += total
	next.TotalReviews++
	if recall.Remembered() {
		next.TotalCorrect++
	}
	next.CurrentStreak = streak.current
	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}
	next.StreakShields = streak.shields
	if next.LastReviewDate.IsZero() || next.LastReviewDate.Before(today) {
		next.LastReviewDate = today
	}
	after := l.levels.FromXP(next.TotalXP)
	next.Level = after.Current.Number
	next.Title = after.Current.Title
	next.UpdatedAt = now

	var day domain.DailyStat
	if stat != nil && stat.Date.Equal(today) {
		day = *stat
	} else {
		day = *domain.NewDailyStat(learnerID, today)
	}
	day.ReviewCount++
	if recall.Remembered() {
		day.CorrectCount++
	}
	day.XPEarned += total

	return &Result{
		Record: &next,
		Stat:   &day,
		Award: Award{
			BaseXP:           base,
			BonusXP:          bonus,
			TotalXP:          total,
			FirstReviewOfDay: streak.firstOfDay,
			LeveledUp:        after.Current.Number > before.Current.Number,
			PreviousLevel:    before.Current.Number,
			Level:            after.Current.Number,
			Title:            after.Current.Title,
			Streak:           next.CurrentStreak,
			StreakShields:    next.StreakShields,
			ShieldEarned:     streak.shieldEarned,
			ShieldConsumed:   streak.shieldConsumed,
		},
	}, nil
}
