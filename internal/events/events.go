package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	TypeSessionCompleted   = "session_completed"
	TypeLevelUp            = "level_up"
	TypeStreakShieldEarned = "streak_shield_earned"
)

// ProgressEvent is a notification that a learner's progression changed.
type ProgressEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	LearnerID uuid.UUID `json:"learner_id"`

	// Payload contains the type-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	CreatedAt time.Time `json:"created_at"`
}

// SessionCompletedPayload is the payload of TypeSessionCompleted.
type SessionCompletedPayload struct {
	SessionID   uuid.UUID `json:"session_id"`
	Language    string    `json:"language"`
	CardCount   int       `json:"card_count"`
	AverageEase float64   `json:"average_ease"`
	Minutes     int       `json:"minutes"`
}

// LevelUpPayload is the payload of TypeLevelUp.
type LevelUpPayload struct {
	PreviousLevel int    `json:"previous_level"`
	Level         int    `json:"level"`
	Title         string `json:"title"`
	TotalXP       int    `json:"total_xp"`
}

// StreakShieldPayload is the payload of TypeStreakShieldEarned.
type StreakShieldPayload struct {
	Streak  int `json:"streak"`
	Shields int `json:"shields"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *ProgressEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewProgressEvent creates a ProgressEvent with the specified type and payload.
func NewProgressEvent(eventType string, learnerID uuid.UUID, payload interface{}) (*ProgressEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &ProgressEvent{
		ID:        uuid.New(),
		Type:      eventType,
		LearnerID: learnerID,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *ProgressEvent) error
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(ctx context.Context, event *ProgressEvent) error

// HandleEvent implements EventHandler.
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *ProgressEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *ProgressEvent) error
}
