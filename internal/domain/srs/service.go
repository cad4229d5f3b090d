package srs

import (
	"errors"
	"time"

	"github.com/Ymit24/language-reader-app-sub000/internal/domain"
)

// ErrNilCard is returned when no card is supplied.
var ErrNilCard = errors.New("card cannot be nil")

// Service defines the interface for SRS algorithm operations.
type Service interface {
	// Schedule computes a card's next scheduling state for a review graded
	// quality at now. It returns a new card and never mutates the input.
	Schedule(card *domain.VocabularyCard, quality domain.Quality, now time.Time) (*domain.VocabularyCard, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() (Service, error) {
	return NewServiceWithParams(NewDefaultParams())
}

// NewServiceWithParams creates a new SRS service with custom parameters
func NewServiceWithParams(params *Params) (Service, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &defaultService{params: params}, nil
}

// Schedule implements Service.
func (s *defaultService) Schedule(
	card *domain.VocabularyCard,
	quality domain.Quality,
	now time.Time,
) (*domain.VocabularyCard, error) {
	if card == nil {
		return nil, ErrNilCard
	}
	if err := quality.Validate(); err != nil {
		return nil, err
	}
	return calculateNextSchedule(card, quality, now, s.params), nil
}
