package progression

import (
	"math"

	"github.com/Ymit24/language-reader-app-sub000/internal/domain"
)

// XP constants.
const (
	// FirstReviewOfDayBonus is added to the learner's first graded review of
	// each calendar day.
	FirstReviewOfDayBonus = 25

	// StreakBonusThreshold is the streak length from which every review
	// earns StreakBonusRate of its base XP on top.
	StreakBonusThreshold = 7
	StreakBonusRate      = 0.20
)

// BaseXP returns the base experience for a recall bucket.
func BaseXP(r domain.Recall) int {
	switch r {
	case domain.RecallAgain:
		return 1
	case domain.RecallHard:
		return 5
	case domain.RecallGood:
		return 10
	case domain.RecallEasy:
		return 15
	default:
		return 0
	}
}

// bonusXP returns the bonus on top of base for a review given whether it is
// the first of the day and the post-update streak.
func bonusXP(base int, firstOfDay bool, streak int) int {
	bonus := 0
	if firstOfDay {
		bonus += FirstReviewOfDayBonus
	}
	if streak >= StreakBonusThreshold {
		bonus += int(math.Round(float64(base) * StreakBonusRate))
	}
	return bonus
}
