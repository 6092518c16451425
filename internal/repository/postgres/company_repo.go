package postgres

import (
	"context"
	"database/sql"
	"errors"

	"goodplace/internal/domain"
)

type companyRepository struct {
	DB *sql.DB
}

func NewCompanyRepository(db *sql.DB) domain.CompanyRepository {
	return &companyRepository{DB: db}
}

func (r *companyRepository) GetIDByOwnerID(ctx context.Context, userID string) (string, error) {
	query := `
		SELECT id
		FROM companies
		WHERE user_id = $1
		ORDER BY created_at
		LIMIT 1
	`
	var id string
	if err := r.DB.QueryRowContext(ctx, query, userID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return id, nil
}
