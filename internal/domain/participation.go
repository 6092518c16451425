package domain

import (
	"context"
	"time"
)

// ParticipationStatus is the state of a user's registration for an event.
type ParticipationStatus string

const (
	// StatusConfirmed holds one of the event's capacity slots.
	StatusConfirmed ParticipationStatus = "confirmed"
	// StatusWaitlisted is registered without a slot; eligible for promotion.
	StatusWaitlisted ParticipationStatus = "waitlisted"
	// StatusCancelled is withdrawn, kept for history and reactivatable.
	StatusCancelled ParticipationStatus = "cancelled"
)

// IsActive reports whether the status is confirmed or waitlisted.
func (s ParticipationStatus) IsActive() bool {
	return s == StatusConfirmed || s == StatusWaitlisted
}

// Participation is one user's registration record for one event. There is at
// most one record per (event, user); cancellation only changes its status.
// swagger:model Participation
type Participation struct {
	ID        string              `json:"id"`
	EventID   string              `json:"event_id"`
	UserID    string              `json:"user_id"`
	Status    ParticipationStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// NewParticipation creates a new Participation. ID is typically set by the repository on create.
func NewParticipation(eventID, userID string, status ParticipationStatus, now time.Time) *Participation {
	return &Participation{
		EventID:   eventID,
		UserID:    userID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ParticipantWithUser is a participation enriched with the user's display
// fields. The user fields are empty when the user row could not be resolved.
// swagger:model ParticipantWithUser
type ParticipantWithUser struct {
	Participation
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	UserImage string `json:"user_image"`
}

// ParticipationWithEvent bundles a participation with its event.
type ParticipationWithEvent struct {
	Participation *Participation `json:"participation"`
	Event         *Event         `json:"event"`
}

// ParticipantCounts are derived from participation rows on every read.
type ParticipantCounts struct {
	Confirmed  int `json:"confirmed_count"`
	Waitlisted int `json:"waitlist_count"`
}

// CountParticipants derives counts from a list of participants.
func CountParticipants(list []*ParticipantWithUser) ParticipantCounts {
	var c ParticipantCounts
	for _, p := range list {
		switch p.Status {
		case StatusConfirmed:
			c.Confirmed++
		case StatusWaitlisted:
			c.Waitlisted++
		}
	}
	return c
}

// ParticipationTx groups the operations that run inside one store transaction.
// LockEvent must be called first: it holds the event row lock until the
// transaction ends, serializing register and cancel for that event.
type ParticipationTx interface {
	LockEvent(ctx context.Context, eventID string) (*Event, error)
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*Participation, error)
	CountByStatus(ctx context.Context, eventID string, status ParticipationStatus) (int, error)
	// Create inserts p and sets p.ID. A duplicate (event, user) yields ErrAlreadyRegistered.
	Create(ctx context.Context, p *Participation) error
	// Update writes status, created_at and updated_at of an existing record.
	Update(ctx context.Context, p *Participation) error
	// OldestWaitlisted returns the earliest waitlisted record (created_at, then id), or ErrNotFound.
	OldestWaitlisted(ctx context.Context, eventID string) (*Participation, error)
}

// ParticipationRepository defines storage operations for participations.
type ParticipationRepository interface {
	// WithinEventTx runs fn in a transaction. fn's error rolls it back and is returned unchanged.
	WithinEventTx(ctx context.Context, fn func(tx ParticipationTx) error) error
	ListByEventID(ctx context.Context, eventID string) ([]*ParticipantWithUser, error)
	ListByUserID(ctx context.Context, userID string, params PaginationParams) ([]*Participation, int, error)
	CountsByEventID(ctx context.Context, eventID string) (ParticipantCounts, error)
}

// RegistrationResult is returned by Register.
type RegistrationResult struct {
	Participation *Participation `json:"participation"`
	Waitlisted    bool           `json:"waitlisted"`
	Message       string         `json:"message"`
}

// CancelResult is returned by Cancel. Promoted is the waitlisted record that
// took the freed seat, when there was one.
type CancelResult struct {
	Participation *Participation `json:"participation"`
	Promoted      *Participation `json:"-"`
}

// WasPromoted reports whether the cancellation promoted a waitlisted participant.
func (r *CancelResult) WasPromoted() bool {
	return r.Promoted != nil
}

// RegistrationService defines event registration and waitlist operations.
type RegistrationService interface {
	Register(ctx context.Context, eventID, userID string) (*RegistrationResult, error)
	// Cancel cancels targetUserID's participation, or actingUserID's own when targetUserID is empty.
	Cancel(ctx context.Context, eventID, actingUserID, targetUserID string) (*CancelResult, error)
	ListParticipants(ctx context.Context, eventID string) ([]*ParticipantWithUser, error)
	GetEventDetail(ctx context.Context, eventID string) (*EventDetail, error)
	ListMyParticipations(ctx context.Context, userID string, params PaginationParams) ([]*ParticipationWithEvent, int, error)
}
