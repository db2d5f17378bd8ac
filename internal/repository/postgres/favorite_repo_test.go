package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"conduit/internal/domain"
)

func TestFavoriteRepository_Add(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		articleID string
		userID    string
		mock      func(mock sqlmock.Sqlmock)
		wantErr   error
	}{
		{
			name:      "success",
			articleID: "art-1",
			userID:    "user-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO article_favorites \(article_id, user_id\)`).
					WithArgs("art-1", "user-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantErr: nil,
		},
		{
			name:      "duplicate returns ErrAlreadyFavorited",
			articleID: "art-1",
			userID:    "user-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO article_favorites \(article_id, user_id\)`).
					WithArgs("art-1", "user-1").
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: domain.ErrAlreadyFavorited,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewFavoriteRepository(db)
			err = repo.Add(ctx, tt.articleID, tt.userID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestFavoriteRepository_Remove(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		articleID string
		userID    string
		mock      func(mock sqlmock.Sqlmock)
		wantErr   error
	}{
		{
			name:      "success",
			articleID: "art-1",
			userID:    "user-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM article_favorites WHERE article_id = \$1 AND user_id = \$2`).
					WithArgs("art-1", "user-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantErr: nil,
		},
		{
			name:      "no mark returns ErrNotFavorited",
			articleID: "art-1",
			userID:    "user-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM article_favorites WHERE article_id = \$1 AND user_id = \$2`).
					WithArgs("art-1", "user-1").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFavorited,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewFavoriteRepository(db)
			err = repo.Remove(ctx, tt.articleID, tt.userID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestFavoriteRepository_CountByArticleIDs(t *testing.T) {
	ctx := context.Background()

	t.Run("empty input skips the database", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewFavoriteRepository(db)
		got, err := repo.CountByArticleIDs(ctx, nil)
		require.NoError(t, err)
		require.Empty(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("counts grouped by article", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		ids := []string{"art-1", "art-2"}
		mock.ExpectQuery(`SELECT article_id, COUNT\(\*\)(.|\n)+GROUP BY article_id`).
			WithArgs(pq.Array(ids)).
			WillReturnRows(sqlmock.NewRows([]string{"article_id", "count"}).
				AddRow("art-1", 3))

		repo := NewFavoriteRepository(db)
		got, err := repo.CountByArticleIDs(ctx, ids)
		require.NoError(t, err)
		require.Equal(t, map[string]int{"art-1": 3}, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFavoriteRepository_ListFavoritedByUser(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ids := []string{"art-1", "art-2"}
	mock.ExpectQuery(`SELECT article_id FROM article_favorites WHERE user_id = \$1 AND article_id = ANY\(\$2\)`).
		WithArgs("user-1", pq.Array(ids)).
		WillReturnRows(sqlmock.NewRows([]string{"article_id"}).AddRow("art-2"))

	repo := NewFavoriteRepository(db)
	got, err := repo.ListFavoritedByUser(ctx, "user-1", ids)
	require.NoError(t, err)
	require.Equal(t, map[string]bool{"art-2": true}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}
