package srs

import (
	"errors"

	"github.com/Ymit24/language-reader-app-sub000/internal/domain"
)

// ErrInvalidParams is returned when a Params value cannot produce a valid schedule.
var ErrInvalidParams = errors.New("invalid SRS params")

// Params holds the constants of the SM-2 variant.
type Params struct {
	// MinEase is the floor applied after every ease update.
	MinEase float64

	// FirstInterval and SecondInterval are the intervals in days assigned on
	// a card's first and second reviews when recalled.
	FirstInterval  int
	SecondInterval int

	// LapseInterval is the interval in days assigned when a card is not
	// recalled.
	LapseInterval int
}

// NewDefaultParams creates a new Params instance with the standard SM-2 values.
func NewDefaultParams() *Params {
	return &Params{
		MinEase:        domain.MinEase,
		FirstInterval:  1,
		SecondInterval: 6,
		LapseInterval:  1,
	}
}

// Validate checks that every interval is at least one day and the ease floor
// is positive.
func (p *Params) Validate() error {
	if p == nil {
		return ErrInvalidParams
	}
	if p.MinEase <= 0 || p.FirstInterval < 1 || p.SecondInterval < 1 || p.LapseInterval < 1 {
		return ErrInvalidParams
	}
	return nil
}
