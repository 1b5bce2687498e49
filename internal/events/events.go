// Package events carries the notifications characters emit toward the host
// application: mood swings, activity changes, fresh plans and reflections,
// and lines spoken without being spoken to.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Type names one category of character event.
type Type string

const (
	MoodChanged             Type = "mood_changed"
	ActivityChanged         Type = "activity_changed"
	PlanGenerated           Type = "plan_generated"
	ReflectionCreated       Type = "reflection_created"
	SpontaneousUtterance    Type = "spontaneous_utterance"
	CrossCharacterUtterance Type = "cross_character_utterance"
	ObservationNoted        Type = "observation_noted"
)

// Event is a single notification. Payload is display-ready text; structured
// consumers subscribe by Type and CharacterID rather than parsing it.
type Event struct {
	ID          string    `json:"id"`
	CharacterID string    `json:"character_id"`
	Type        Type      `json:"type"`
	Payload     string    `json:"payload"`
	Timestamp   time.Time `json:"timestamp"`
}

// New stamps an event with a fresh id and the current time.
func New(characterID string, eventType Type, payload string) Event {
	return Event{
		ID:          uuid.New().String(),
		CharacterID: characterID,
		Type:        eventType,
		Payload:     payload,
		Timestamp:   time.Now(),
	}
}
