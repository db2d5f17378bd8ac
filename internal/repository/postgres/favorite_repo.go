package postgres

import (
	"context"
	"database/sql"

	"conduit/internal/domain"

	"github.com/lib/pq"
)

type favoriteRepository struct {
	DB *sql.DB
}

// NewFavoriteRepository returns a domain.FavoriteRepository implemented with Postgres.
func NewFavoriteRepository(db *sql.DB) domain.FavoriteRepository {
	return &favoriteRepository{DB: db}
}

func (r *favoriteRepository) Add(ctx context.Context, articleID, userID string) error {
	query := `INSERT INTO article_favorites (article_id, user_id) VALUES ($1, $2)`
	_, err := r.DB.ExecContext(ctx, query, articleID, userID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrAlreadyFavorited
		}
		return err
	}
	return nil
}

func (r *favoriteRepository) Remove(ctx context.Context, articleID, userID string) error {
	query := `DELETE FROM article_favorites WHERE article_id = $1 AND user_id = $2`
	result, err := r.DB.ExecContext(ctx, query, articleID, userID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFavorited
	}
	return nil
}

func (r *favoriteRepository) CountByArticleIDs(ctx context.Context, articleIDs []string) (map[string]int, error) {
	counts := make(map[string]int)
	if len(articleIDs) == 0 {
		return counts, nil
	}
	query := `
		SELECT article_id, COUNT(*)
		FROM article_favorites
		WHERE article_id = ANY($1)
		GROUP BY article_id
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(articleIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var articleID string
		var count int
		if err := rows.Scan(&articleID, &count); err != nil {
			return nil, err
		}
		counts[articleID] = count
	}
	return counts, rows.Err()
}

func (r *favoriteRepository) ListFavoritedByUser(ctx context.Context, userID string, articleIDs []string) (map[string]bool, error) {
	favorited := make(map[string]bool)
	if len(articleIDs) == 0 {
		return favorited, nil
	}
	query := `SELECT article_id FROM article_favorites WHERE user_id = $1 AND article_id = ANY($2)`
	rows, err := r.DB.QueryContext(ctx, query, userID, pq.Array(articleIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var articleID string
		if err := rows.Scan(&articleID); err != nil {
			return nil, err
		}
		favorited[articleID] = true
	}
	return favorited, rows.Err()
}
