package srs

import (
	"math"
	"time"

	"github.com/Ymit24/language-reader-app-sub000/internal/domain"
)

// calculateNewEase applies the SM-2 ease update for quality q:
//
//	ease' = max(floor, ease + (0.1 - (5-q)*(0.08 + (5-q)*0.02)))
//
// A q of 4 leaves ease unchanged, 5 raises it by 0.1 and lower grades
// lower it progressively.
func calculateNewEase(ease float64, q domain.Quality, params *Params) float64 {
	miss := float64(domain.MaxQuality - q)
	next := ease + (0.1 - miss*(0.08+miss*0.02))
	if next < params.MinEase {
		return params.MinEase
	}
	return next
}

// calculateNewInterval returns the next interval in days.
//
// reviews is the post-increment review count, so 1 means this is the card's
// first review. A lapse always schedules LapseInterval regardless of history.
func calculateNewInterval(priorInterval, reviews int, ease float64, q domain.Quality, params *Params) int {
	if !q.Remembered() {
		return params.LapseInterval
	}
	switch reviews {
	case 1:
		return params.FirstInterval
	case 2:
		return params.SecondInterval
	}
	interval := int(math.Round(float64(priorInterval) * ease))
	if interval < 1 {
		interval = 1
	}
	return interval
}

// calculateNextSchedule returns a copy of card with every scheduling field
// advanced for a review graded q at now. The input is not modified.
func calculateNextSchedule(card *domain.VocabularyCard, q domain.Quality, now time.Time, params *Params) *domain.VocabularyCard {
	next := *card
	now = now.UTC()

	next.Reviews = card.Reviews + 1
	next.Ease = calculateNewEase(card.Ease, q, params)
	next.IntervalDays = calculateNewInterval(card.IntervalDays, next.Reviews, next.Ease, q, params)

	reviewed := now
	due := now.Add(time.Duration(next.IntervalDays) * 24 * time.Hour)
	next.LastReviewedAt = &reviewed
	next.NextReviewAt = &due
	next.UpdatedAt = now

	return &next
}
