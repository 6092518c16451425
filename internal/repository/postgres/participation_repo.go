package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"goodplace/internal/domain"
)

const participationColumns = `id, event_id, user_id, status, created_at, updated_at`

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

func scanParticipation(row rowScanner) (*domain.Participation, error) {
	p := &domain.Participation{}
	err := row.Scan(&p.ID, &p.EventID, &p.UserID, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

type participationRepository struct {
	DB *sql.DB
}

func NewParticipationRepository(db *sql.DB) domain.ParticipationRepository {
	return &participationRepository{
		DB: db,
	}
}

func (r *participationRepository) WithinEventTx(ctx context.Context, fn func(tx domain.ParticipationTx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	// Rollback after Commit is a no-op. The deferred call releases the event lock if fn panics.
	defer func() { _ = tx.Rollback() }()

	if err := fn(&participationTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *participationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.ParticipantWithUser, error) {
	query := `
		SELECT p.id, p.event_id, p.user_id, p.status, p.created_at, p.updated_at, u.name, u.email, u.image
		FROM event_participants p
		LEFT JOIN users u ON u.id = p.user_id
		WHERE p.event_id = $1
		ORDER BY p.created_at ASC, p.id ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.ParticipantWithUser, 0)
	for rows.Next() {
		p := &domain.ParticipantWithUser{}
		var name, email, image sql.NullString
		if err := rows.Scan(&p.ID, &p.EventID, &p.UserID, &p.Status, &p.CreatedAt, &p.UpdatedAt, &name, &email, &image); err != nil {
			return nil, err
		}
		p.UserName = name.String
		p.UserEmail = email.String
		p.UserImage = image.String
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *participationRepository) ListByUserID(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.Participation, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM event_participants WHERE user_id = $1`
	if err := r.DB.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + participationColumns + `
		FROM event_participants
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, userID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]*domain.Participation, 0)
	for rows.Next() {
		p, err := scanParticipation(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *participationRepository) CountsByEventID(ctx context.Context, eventID string) (domain.ParticipantCounts, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = $2),
			COUNT(*) FILTER (WHERE status = $3)
		FROM event_participants
		WHERE event_id = $1
	`
	var c domain.ParticipantCounts
	err := r.DB.QueryRowContext(ctx, query, eventID, domain.StatusConfirmed, domain.StatusWaitlisted).
		Scan(&c.Confirmed, &c.Waitlisted)
	return c, err
}

// participationTx implements domain.ParticipationTx on a *sql.Tx.
type participationTx struct {
	tx *sql.Tx
}

func (t *participationTx) LockEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`
	return scanEvent(t.tx.QueryRowContext(ctx, query, eventID))
}

func (t *participationTx) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Participation, error) {
	query := `
		SELECT ` + participationColumns + `
		FROM event_participants
		WHERE event_id = $1 AND user_id = $2
	`
	return scanParticipation(t.tx.QueryRowContext(ctx, query, eventID, userID))
}

func (t *participationTx) CountByStatus(ctx context.Context, eventID string, status domain.ParticipationStatus) (int, error) {
	query := `SELECT COUNT(*) FROM event_participants WHERE event_id = $1 AND status = $2`
	var n int
	if err := t.tx.QueryRowContext(ctx, query, eventID, status).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (t *participationTx) Create(ctx context.Context, p *domain.Participation) error {
	query := `
		INSERT INTO event_participants (event_id, user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := t.tx.QueryRowContext(ctx, query, p.EventID, p.UserID, p.Status, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return domain.ErrAlreadyRegistered
		}
		return err
	}
	return nil
}

func (t *participationTx) Update(ctx context.Context, p *domain.Participation) error {
	query := `
		UPDATE event_participants
		SET status = $1, created_at = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := t.tx.ExecContext(ctx, query, p.Status, p.CreatedAt, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (t *participationTx) OldestWaitlisted(ctx context.Context, eventID string) (*domain.Participation, error) {
	query := `
		SELECT ` + participationColumns + `
		FROM event_participants
		WHERE event_id = $1 AND status = $2
		ORDER BY created_at ASC, id ASC
		LIMIT 1
	`
	return scanParticipation(t.tx.QueryRowContext(ctx, query, eventID, domain.StatusWaitlisted))
}
