package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"goodplace/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		id      string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.User
		wantErr bool
		errIs   error
	}{
		{
			name: "success",
			id:   "user-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, email, name, image, created_at, updated_at`).
					WithArgs("user-1").
					WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "image", "created_at", "updated_at"}).
						AddRow("user-1", "alice@example.com", "Alice", "https://img.example/alice.png", created, created))
			},
			want: &domain.User{
				ID:        "user-1",
				Email:     "alice@example.com",
				Name:      "Alice",
				Image:     "https://img.example/alice.png",
				CreatedAt: created,
				UpdatedAt: created,
			},
		},
		{
			name: "null name and image",
			id:   "user-2",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM users`).
					WithArgs("user-2").
					WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "image", "created_at", "updated_at"}).
						AddRow("user-2", "bob@example.com", nil, nil, created, created))
			},
			want: &domain.User{
				ID:        "user-2",
				Email:     "bob@example.com",
				CreatedAt: created,
				UpdatedAt: created,
			},
		},
		{
			name: "not found",
			id:   "nonexistent",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM users`).
					WithArgs("nonexistent").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: true,
			errIs:   domain.ErrNotFound,
		},
		{
			name: "db error",
			id:   "user-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM users`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewUserRepository(db)
			got, err := repo.GetByID(ctx, tt.id)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.want, got)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
