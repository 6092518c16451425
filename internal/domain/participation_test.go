package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParticipationStatus_IsActive(t *testing.T) {
	assert.True(t, StatusConfirmed.IsActive())
	assert.True(t, StatusWaitlisted.IsActive())
	assert.False(t, StatusCancelled.IsActive())
	assert.False(t, ParticipationStatus("").IsActive())
}

func TestEvent_OpenAt(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		status EventStatus
		date   time.Time
		want   bool
	}{
		{"published future", EventStatusPublished, now.Add(time.Hour), true},
		{"published starting now", EventStatusPublished, now, true},
		{"published past", EventStatusPublished, now.Add(-time.Second), false},
		{"draft future", EventStatusDraft, now.Add(time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Event{Status: tt.status, Date: tt.date}
			assert.Equal(t, tt.want, e.OpenAt(now))
		})
	}
}

func TestEvent_HasSeatFor(t *testing.T) {
	two := 2
	limited := &Event{MaxParticipants: &two}
	assert.True(t, limited.HasSeatFor(0))
	assert.True(t, limited.HasSeatFor(1))
	assert.False(t, limited.HasSeatFor(2))

	unlimited := &Event{}
	assert.True(t, unlimited.HasSeatFor(10_000))
}

func TestCountParticipants(t *testing.T) {
	list := []*ParticipantWithUser{
		{Participation: Participation{Status: StatusConfirmed}},
		{Participation: Participation{Status: StatusConfirmed}},
		{Participation: Participation{Status: StatusWaitlisted}},
		{Participation: Participation{Status: StatusCancelled}},
	}
	assert.Equal(t, ParticipantCounts{Confirmed: 2, Waitlisted: 1}, CountParticipants(list))
	assert.Equal(t, ParticipantCounts{}, CountParticipants(nil))
}

func TestCancelResult_WasPromoted(t *testing.T) {
	assert.False(t, (&CancelResult{}).WasPromoted())
	assert.True(t, (&CancelResult{Promoted: &Participation{}}).WasPromoted())
}

func TestPaginationParams_Offset(t *testing.T) {
	assert.Equal(t, 0, PaginationParams{Page: 1, PageSize: 20}.Offset())
	assert.Equal(t, 40, PaginationParams{Page: 3, PageSize: 20}.Offset())
	assert.Equal(t, 0, PaginationParams{Page: 0, PageSize: 20}.Offset())
	assert.Equal(t, 0, PaginationParams{Page: 2, PageSize: 0}.Offset())
}
