package domain

import (
	"context"
	"time"
)

// Routing keys for participation lifecycle messages.
const (
	ParticipationConfirmed  = "participation.confirmed"
	ParticipationWaitlisted = "participation.waitlisted"
	ParticipationCancelled  = "participation.cancelled"
	ParticipationPromoted   = "participation.promoted"
)

// ParticipationEvent is published after a participation change is committed.
type ParticipationEvent struct {
	Type            string              `json:"type"`
	ParticipationID string              `json:"participation_id"`
	EventID         string              `json:"event_id"`
	UserID          string              `json:"user_id"`
	Status          ParticipationStatus `json:"status"`
	OccurredAt      time.Time           `json:"occurred_at"`
}

// NewParticipationEvent builds the message for p.
func NewParticipationEvent(eventType string, p *Participation, at time.Time) *ParticipationEvent {
	return &ParticipationEvent{
		Type:            eventType,
		ParticipationID: p.ID,
		EventID:         p.EventID,
		UserID:          p.UserID,
		Status:          p.Status,
		OccurredAt:      at,
	}
}

// ParticipationPublisher publishes participation events to a broker.
type ParticipationPublisher interface {
	Publish(ctx context.Context, evt *ParticipationEvent) error
}
