package postgres

import (
	"context"
	"database/sql"
	"errors"

	"goodplace/internal/domain"
)

const eventColumns = `id, company_id, title, status, date, max_participants, created_at, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var maxNull sql.NullInt64
	err := row.Scan(&e.ID, &e.CompanyID, &e.Title, &e.Status, &e.Date, &maxNull, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if maxNull.Valid {
		max := int(maxNull.Int64)
		e.MaxParticipants = &max
	}
	return e, nil
}

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return scanEvent(r.DB.QueryRowContext(ctx, query, id))
}
