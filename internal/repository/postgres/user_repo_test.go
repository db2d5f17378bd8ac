package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"conduit/internal/domain"
)

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		user    *domain.User
		mock    func(mock sqlmock.Sqlmock)
		errIs   error
		wantErr bool
	}{
		{
			name: "success assigns id",
			user: &domain.User{Username: "jake", Email: "jake@example.com", PasswordHash: "hash", Salt: "salt"},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WithArgs("jake", "jake@example.com", "hash", "salt", "", "", sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-1"))
			},
		},
		{
			name: "unique violation on email returns ErrDuplicateEmail",
			user: &domain.User{Username: "jake", Email: "taken@example.com"},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})
			},
			errIs:   domain.ErrDuplicateEmail,
			wantErr: true,
		},
		{
			name: "unique violation on username returns ErrDuplicateUsername",
			user: &domain.User{Username: "taken", Email: "jake@example.com"},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})
			},
			errIs:   domain.ErrDuplicateUsername,
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
			err = repo.Create(ctx, tt.user)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
				return
			}
			require.NoError(t, err)
			require.Equal(t, "user-1", tt.user.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByUsername(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	userColumns := []string{"id", "username", "email", "password_hash", "salt", "bio", "image", "created_at", "updated_at"}

	tests := []struct {
		name     string
		username string
		mock     func(mock sqlmock.Sqlmock)
		want     *domain.User
		errIs    error
	}{
		{
			name:     "found",
			username: "jake",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, username, email, password_hash, salt, bio, image, created_at, updated_at`).
					WithArgs("jake").
					WillReturnRows(sqlmock.NewRows(userColumns).
						AddRow("user-1", "jake", "jake@example.com", "hash", "salt", "I work at statefarm", "", now, now))
			},
			want: &domain.User{
				ID: "user-1", Username: "jake", Email: "jake@example.com",
				PasswordHash: "hash", Salt: "salt", Bio: "I work at statefarm",
				CreatedAt: now, UpdatedAt: now,
			},
		},
		{
			name:     "unknown username returns ErrUserNotFound",
			username: "ghost",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, username, email, password_hash, salt, bio, image, created_at, updated_at`).
					WithArgs("ghost").
					WillReturnRows(sqlmock.NewRows(userColumns))
			},
			errIs: domain.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewUserRepository(db)
			got, err := repo.GetByUsername(ctx, tt.username)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Update(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	user := &domain.User{
		ID: "user-1", Username: "jake", Email: "jake@example.com",
		PasswordHash: "hash", Salt: "salt", Bio: "bio", Image: "http://img",
		UpdatedAt: now,
	}

	tests := []struct {
		name  string
		mock  func(mock sqlmock.Sqlmock)
		errIs error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE users`).
					WithArgs("jake", "jake@example.com", "hash", "salt", "bio", "http://img", now, "user-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "missing row returns ErrUserNotFound",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE users`).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			errIs: domain.ErrUserNotFound,
		},
		{
			name: "unique violation returns ErrDuplicateEmail",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE users`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})
			},
			errIs: domain.ErrDuplicateEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewUserRepository(db)
			err = repo.Update(ctx, user)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
