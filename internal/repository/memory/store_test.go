package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goodplace/internal/domain"
)

func TestStore_LockEventSerializesTransactions(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	s.AddEvent(&domain.Event{ID: "ev-1", Status: domain.EventStatusPublished})
	repo := s.Participations()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.WithinEventTx(ctx, func(tx domain.ParticipationTx) error {
				if _, err := tx.LockEvent(ctx, "ev-1"); err != nil {
					return err
				}
				n := atomic.AddInt32(&inside, 1)
				for {
					cur := atomic.LoadInt32(&maxInside)
					if n <= cur || atomic.CompareAndSwapInt32(&maxInside, cur, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
}

func TestStore_LockEventNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Participations()
	err := repo.WithinEventTx(ctx, func(tx domain.ParticipationTx) error {
		_, err := tx.LockEvent(ctx, "missing")
		return err
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_CreateRejectsDuplicatePair(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	now := time.Now()
	err := s.Participations().WithinEventTx(ctx, func(tx domain.ParticipationTx) error {
		first := domain.NewParticipation("ev-1", "user-1", domain.StatusConfirmed, now)
		require.NoError(t, tx.Create(ctx, first))
		require.NotEmpty(t, first.ID)
		return tx.Create(ctx, domain.NewParticipation("ev-1", "user-1", domain.StatusWaitlisted, now))
	})
	require.ErrorIs(t, err, domain.ErrAlreadyRegistered)
}

func TestStore_ListByEventIDLeftJoinsUsers(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	s.AddUser(&domain.User{ID: "user-1", Name: "Alice", Email: "alice@example.com"})
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	err := s.Participations().WithinEventTx(ctx, func(tx domain.ParticipationTx) error {
		if err := tx.Create(ctx, domain.NewParticipation("ev-1", "user-2", domain.StatusWaitlisted, base.Add(time.Minute))); err != nil {
			return err
		}
		return tx.Create(ctx, domain.NewParticipation("ev-1", "user-1", domain.StatusConfirmed, base))
	})
	require.NoError(t, err)

	list, err := s.Participations().ListByEventID(ctx, "ev-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "user-1", list[0].UserID)
	assert.Equal(t, "Alice", list[0].UserName)
	assert.Equal(t, "user-2", list[1].UserID)
	assert.Empty(t, list[1].UserName)

	counts, err := s.Participations().CountsByEventID(ctx, "ev-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ParticipantCounts{Confirmed: 1, Waitlisted: 1}, counts)
}

func TestStore_ListByUserIDNewestFirstWithPaging(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	err := s.Participations().WithinEventTx(ctx, func(tx domain.ParticipationTx) error {
		for i, ev := range []string{"ev-1", "ev-2", "ev-3"} {
			if err := tx.Create(ctx, domain.NewParticipation(ev, "user-1", domain.StatusConfirmed, base.Add(time.Duration(i)*time.Hour))); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	page1, total, err := s.Participations().ListByUserID(ctx, "user-1", domain.PaginationParams{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page1, 2)
	assert.Equal(t, "ev-3", page1[0].EventID)
	assert.Equal(t, "ev-2", page1[1].EventID)

	page2, _, err := s.Participations().ListByUserID(ctx, "user-1", domain.PaginationParams{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "ev-1", page2[0].EventID)
}
