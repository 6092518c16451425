package domain

import (
	"context"
	"time"
)

// EventStatus is the publication status of an event.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
)

// Event is a company event that users register for.
// swagger:model Event
type Event struct {
	ID        string      `json:"id"`
	CompanyID string      `json:"company_id"`
	Title     string      `json:"title"`
	Status    EventStatus `json:"status"`
	Date      time.Time   `json:"date"`
	// MaxParticipants is nil when the event has no capacity limit.
	MaxParticipants *int      `json:"max_participants"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// OpenAt reports whether the event accepts registrations at t: it must be
// published and must not have started yet.
func (e *Event) OpenAt(t time.Time) bool {
	return e.Status == EventStatusPublished && !e.Date.Before(t)
}

// HasSeatFor reports whether one more confirmed participant fits, given the
// current confirmed count.
func (e *Event) HasSeatFor(confirmed int) bool {
	return e.MaxParticipants == nil || confirmed < *e.MaxParticipants
}

// EventDetail is an event with its derived participant counts.
type EventDetail struct {
	Event  *Event            `json:"event"`
	Counts ParticipantCounts `json:"counts"`
}

// EventRepository defines read access to events.
type EventRepository interface {
	GetByID(ctx context.Context, id string) (*Event, error)
}
