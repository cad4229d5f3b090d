package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyProgressLearnerID is returned when a progress record has no learner.
var ErrEmptyProgressLearnerID = errors.New("progress learner ID cannot be empty")

// ProgressRecord is one learner's cumulative progression state. It is created
// lazily on the learner's first graded review.
type ProgressRecord struct {
	LearnerID      uuid.UUID `json:"learner_id"`
	TotalXP        int       `json:"total_xp"`
	Level          int       `json:"level"`
	Title          string    `json:"title"`
	CurrentStreak  int       `json:"current_streak"`
	LongestStreak  int       `json:"longest_streak"`
	StreakShields  int       `json:"streak_shields"`
	LastReviewDate Day       `json:"last_review_date"`
	TotalReviews   int       `json:"total_reviews"`
	TotalCorrect   int       `json:"total_correct"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Validate checks if the record has valid data.
func (p *ProgressRecord) Validate() error {
	if p.LearnerID == uuid.Nil {
		return ErrEmptyProgressLearnerID
	}
	if p.TotalXP < 0 || p.CurrentStreak < 0 || p.LongestStreak < p.CurrentStreak ||
		p.StreakShields < 0 || p.TotalCorrect > p.TotalReviews {
		return ErrValidation
	}
	return nil
}

// Accuracy returns totalCorrect / totalReviews as a percentage rounded down,
// or 0 with no reviews.
func (p *ProgressRecord) Accuracy() int {
	if p.TotalReviews == 0 {
		return 0
	}
	return p.TotalCorrect * 100 / p.TotalReviews
}
