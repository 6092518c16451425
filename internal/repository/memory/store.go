// Package memory provides an in-process implementation of the repositories.
// LockEvent takes a per-event mutex held until the transaction ends, matching
// the row lock the Postgres store takes. Writes apply immediately, so a failing
// transaction function is not rolled back.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"goodplace/internal/domain"
)

// Store holds events, companies, users and participations in maps.
type Store struct {
	mu             sync.RWMutex
	events         map[string]domain.Event
	companyByOwner map[string]string
	users          map[string]domain.User
	participations map[string]domain.Participation

	locksMu    sync.Mutex
	eventLocks map[string]*sync.Mutex
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		events:         make(map[string]domain.Event),
		companyByOwner: make(map[string]string),
		users:          make(map[string]domain.User),
		participations: make(map[string]domain.Participation),
		eventLocks:     make(map[string]*sync.Mutex),
	}
}

// AddEvent stores a copy of e.
func (s *Store) AddEvent(e *domain.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[e.ID] = *e
}

// AddCompany records ownerID as the owner of companyID.
func (s *Store) AddCompany(companyID, ownerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companyByOwner[ownerID] = companyID
}

// AddUser stores a copy of u.
func (s *Store) AddUser(u *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = *u
}

// Events returns the store as a domain.EventRepository.
func (s *Store) Events() domain.EventRepository { return eventRepo{s} }

// Companies returns the store as a domain.CompanyRepository.
func (s *Store) Companies() domain.CompanyRepository { return companyRepo{s} }

// Users returns the store as a domain.UserRepository.
func (s *Store) Users() domain.UserRepository { return userRepo{s} }

// Participations returns the store as a domain.ParticipationRepository.
func (s *Store) Participations() domain.ParticipationRepository { return participationRepo{s} }

func (s *Store) eventLock(eventID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	m, ok := s.eventLocks[eventID]
	if !ok {
		m = &sync.Mutex{}
		s.eventLocks[eventID] = m
	}
	return m
}

func (s *Store) getEvent(id string) (*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

type eventRepo struct{ s *Store }

func (r eventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	return r.s.getEvent(id)
}

type companyRepo struct{ s *Store }

func (r companyRepo) GetIDByOwnerID(_ context.Context, userID string) (string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.companyByOwner[userID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return id, nil
}

type userRepo struct{ s *Store }

func (r userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

type participationRepo struct{ s *Store }

func (r participationRepo) WithinEventTx(_ context.Context, fn func(tx domain.ParticipationTx) error) error {
	tx := &memTx{s: r.s, locked: make(map[string]*sync.Mutex)}
	defer tx.release()
	return fn(tx)
}

// sorted returns copies of the participations matching keep, oldest first.
func (s *Store) sorted(keep func(p *domain.Participation) bool) []domain.Participation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Participation
	for _, p := range s.participations {
		if keep(&p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r participationRepo) ListByEventID(_ context.Context, eventID string) ([]*domain.ParticipantWithUser, error) {
	rows := r.s.sorted(func(p *domain.Participation) bool { return p.EventID == eventID })

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*domain.ParticipantWithUser, 0, len(rows))
	for _, p := range rows {
		item := &domain.ParticipantWithUser{Participation: p}
		if u, ok := r.s.users[p.UserID]; ok {
			item.UserName = u.Name
			item.UserEmail = u.Email
			item.UserImage = u.Image
		}
		list = append(list, item)
	}
	return list, nil
}

func (r participationRepo) ListByUserID(_ context.Context, userID string, params domain.PaginationParams) ([]*domain.Participation, int, error) {
	rows := r.s.sorted(func(p *domain.Participation) bool { return p.UserID == userID })
	total := len(rows)

	list := make([]*domain.Participation, 0)
	start := params.Offset()
	for i := total - 1 - start; i >= 0 && len(list) < params.PageSize; i-- {
		p := rows[i]
		list = append(list, &p)
	}
	return list, total, nil
}

func (r participationRepo) CountsByEventID(_ context.Context, eventID string) (domain.ParticipantCounts, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var c domain.ParticipantCounts
	for _, p := range r.s.participations {
		if p.EventID != eventID {
			continue
		}
		switch p.Status {
		case domain.StatusConfirmed:
			c.Confirmed++
		case domain.StatusWaitlisted:
			c.Waitlisted++
		}
	}
	return c, nil
}

// memTx implements domain.ParticipationTx on the Store.
type memTx struct {
	s      *Store
	locked map[string]*sync.Mutex
}

func (t *memTx) release() {
	for _, m := range t.locked {
		m.Unlock()
	}
}

func (t *memTx) LockEvent(_ context.Context, eventID string) (*domain.Event, error) {
	if _, ok := t.locked[eventID]; !ok {
		m := t.s.eventLock(eventID)
		m.Lock()
		t.locked[eventID] = m
	}
	return t.s.getEvent(eventID)
}

func (t *memTx) GetByEventAndUser(_ context.Context, eventID, userID string) (*domain.Participation, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	for _, p := range t.s.participations {
		if p.EventID == eventID && p.UserID == userID {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (t *memTx) CountByStatus(_ context.Context, eventID string, status domain.ParticipationStatus) (int, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	n := 0
	for _, p := range t.s.participations {
		if p.EventID == eventID && p.Status == status {
			n++
		}
	}
	return n, nil
}

func (t *memTx) Create(_ context.Context, p *domain.Participation) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for _, existing := range t.s.participations {
		if existing.EventID == p.EventID && existing.UserID == p.UserID {
			return domain.ErrAlreadyRegistered
		}
	}
	p.ID = uuid.NewString()
	t.s.participations[p.ID] = *p
	return nil
}

func (t *memTx) Update(_ context.Context, p *domain.Participation) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	existing, ok := t.s.participations[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.Status = p.Status
	existing.CreatedAt = p.CreatedAt
	existing.UpdatedAt = p.UpdatedAt
	t.s.participations[p.ID] = existing
	return nil
}

func (t *memTx) OldestWaitlisted(_ context.Context, eventID string) (*domain.Participation, error) {
	rows := t.s.sorted(func(p *domain.Participation) bool {
		return p.EventID == eventID && p.Status == domain.StatusWaitlisted
	})
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}
	return &rows[0], nil
}
