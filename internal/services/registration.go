package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"goodplace/internal/domain"
	"goodplace/internal/metrics"
)

// Outcome messages returned with a successful registration.
const (
	MessageConfirmed  = "Registration confirmed"
	MessageWaitlisted = "Event is full, you have been added to the waitlist"
)

type registrationService struct {
	eventRepo         domain.EventRepository
	companyRepo       domain.CompanyRepository
	userRepo          domain.UserRepository
	participationRepo domain.ParticipationRepository
	publisher         domain.ParticipationPublisher
	emailService      domain.EmailService
	logger            *slog.Logger
	contextTimeout    time.Duration
	now               func() time.Time
}

// NewRegistrationService creates a RegistrationService with the given repositories and notifiers.
func NewRegistrationService(
	eventRepo domain.EventRepository,
	companyRepo domain.CompanyRepository,
	userRepo domain.UserRepository,
	participationRepo domain.ParticipationRepository,
	publisher domain.ParticipationPublisher,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.RegistrationService {
	return &registrationService{
		eventRepo:         eventRepo,
		companyRepo:       companyRepo,
		userRepo:          userRepo,
		participationRepo: participationRepo,
		publisher:         publisher,
		emailService:      emailService,
		logger:            logger,
		contextTimeout:    timeout,
		now:               time.Now,
	}
}

func (s *registrationService) Register(ctx context.Context, eventID, userID string) (*domain.RegistrationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var (
		result     *domain.RegistrationResult
		transition string
	)
	err := s.participationRepo.WithinEventTx(ctx, func(tx domain.ParticipationTx) error {
		event, err := tx.LockEvent(ctx, eventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("lock event: %w", err)
		}

		now := s.now()
		if !event.OpenAt(now) {
			return domain.ErrEventNotOpen
		}

		existing, err := tx.GetByEventAndUser(ctx, eventID, userID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("get participation: %w", err)
		}
		if existing != nil && existing.Status.IsActive() {
			return domain.ErrAlreadyRegistered
		}

		confirmed, err := tx.CountByStatus(ctx, eventID, domain.StatusConfirmed)
		if err != nil {
			return fmt.Errorf("count confirmed: %w", err)
		}
		status := domain.StatusWaitlisted
		if event.HasSeatFor(confirmed) {
			status = domain.StatusConfirmed
		}

		if existing == nil {
			p := domain.NewParticipation(eventID, userID, status, now)
			if err := tx.Create(ctx, p); err != nil {
				if errors.Is(err, domain.ErrAlreadyRegistered) {
					return domain.ErrAlreadyRegistered
				}
				return fmt.Errorf("create participation: %w", err)
			}
			result = newRegistrationResult(p)
			transition = string(status)
			return nil
		}

		// Reactivation reuses the cancelled record and queues it as a new registration.
		existing.Status = status
		existing.CreatedAt = now
		existing.UpdatedAt = now
		if err := tx.Update(ctx, existing); err != nil {
			return fmt.Errorf("reactivate participation: %w", err)
		}
		result = newRegistrationResult(existing)
		transition = metrics.TransitionReactivated
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ObserveTransition(transition)
	routingKey := domain.ParticipationConfirmed
	if result.Waitlisted {
		routingKey = domain.ParticipationWaitlisted
	}
	s.publish(ctx, routingKey, result.Participation)
	return result, nil
}

func newRegistrationResult(p *domain.Participation) *domain.RegistrationResult {
	if p.Status == domain.StatusWaitlisted {
		return &domain.RegistrationResult{Participation: p, Waitlisted: true, Message: MessageWaitlisted}
	}
	return &domain.RegistrationResult{Participation: p, Message: MessageConfirmed}
}

func (s *registrationService) Cancel(ctx context.Context, eventID, actingUserID, targetUserID string) (*domain.CancelResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	target := actingUserID
	if targetUserID != "" && targetUserID != actingUserID {
		if err := s.authorizeEventOwner(ctx, event, actingUserID); err != nil {
			return nil, err
		}
		target = targetUserID
	}

	result := &domain.CancelResult{}
	err = s.participationRepo.WithinEventTx(ctx, func(tx domain.ParticipationTx) error {
		if _, err := tx.LockEvent(ctx, eventID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("lock event: %w", err)
		}

		p, err := tx.GetByEventAndUser(ctx, eventID, target)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get participation: %w", err)
		}
		if !p.Status.IsActive() {
			return domain.ErrNotFound
		}

		freedSeat := p.Status == domain.StatusConfirmed
		now := s.now()
		p.Status = domain.StatusCancelled
		p.UpdatedAt = now
		if err := tx.Update(ctx, p); err != nil {
			return fmt.Errorf("cancel participation: %w", err)
		}
		result.Participation = p

		if !freedSeat {
			return nil
		}
		next, err := tx.OldestWaitlisted(ctx, eventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("find oldest waitlisted: %w", err)
		}
		next.Status = domain.StatusConfirmed
		next.UpdatedAt = now
		if err := tx.Update(ctx, next); err != nil {
			return fmt.Errorf("promote participation: %w", err)
		}
		result.Promoted = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ObserveTransition(metrics.TransitionCancelled)
	s.publish(ctx, domain.ParticipationCancelled, result.Participation)
	if result.WasPromoted() {
		metrics.ObserveTransition(metrics.TransitionPromoted)
		s.publish(ctx, domain.ParticipationPromoted, result.Promoted)
		s.sendPromotionNotice(ctx, event, result.Promoted)
	}
	return result, nil
}

// authorizeEventOwner allows userID only when they own the company that owns event.
func (s *registrationService) authorizeEventOwner(ctx context.Context, event *domain.Event, userID string) error {
	companyID, err := s.companyRepo.GetIDByOwnerID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrForbidden
		}
		return fmt.Errorf("get company for user: %w", err)
	}
	if companyID != event.CompanyID {
		return domain.ErrForbidden
	}
	return nil
}

func (s *registrationService) ListParticipants(ctx context.Context, eventID string) ([]*domain.ParticipantWithUser, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	list, err := s.participationRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	if list == nil {
		list = []*domain.ParticipantWithUser{}
	}
	return list, nil
}

func (s *registrationService) GetEventDetail(ctx context.Context, eventID string) (*domain.EventDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	counts, err := s.participationRepo.CountsByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("count participants: %w", err)
	}
	return &domain.EventDetail{Event: event, Counts: counts}, nil
}

func (s *registrationService) ListMyParticipations(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.ParticipationWithEvent, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, total, err := s.participationRepo.ListByUserID(ctx, userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list participations: %w", err)
	}

	eventsByID := make(map[string]*domain.Event)
	result := make([]*domain.ParticipationWithEvent, 0, len(regs))
	for _, reg := range regs {
		ev, ok := eventsByID[reg.EventID]
		if !ok {
			ev, err = s.eventRepo.GetByID(ctx, reg.EventID)
			if err != nil {
				return nil, 0, fmt.Errorf("get event for participation: %w", err)
			}
			eventsByID[reg.EventID] = ev
		}
		result = append(result, &domain.ParticipationWithEvent{Participation: reg, Event: ev})
	}
	return result, total, nil
}

// publish is best effort: the change is already committed.
func (s *registrationService) publish(ctx context.Context, routingKey string, p *domain.Participation) {
	evt := domain.NewParticipationEvent(routingKey, p, s.now())
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.WarnContext(ctx, "publish participation event failed",
			"type", routingKey, "participation_id", p.ID, "event_id", p.EventID, "err", err)
	}
}

func (s *registrationService) sendPromotionNotice(ctx context.Context, event *domain.Event, p *domain.Participation) {
	user, err := s.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		s.logger.WarnContext(ctx, "promotion notice skipped: user lookup failed", "user_id", p.UserID, "err", err)
		return
	}
	data := &domain.WaitlistPromotionEmailData{
		Email:      user.Email,
		Name:       user.Name,
		EventTitle: event.Title,
		EventDate:  event.Date.Format("Monday 2 January 2006, 15:04 MST"),
	}
	if err := s.emailService.SendWaitlistPromotion(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "promotion notice failed", "user_id", p.UserID, "event_id", event.ID, "err", err)
	}
}
