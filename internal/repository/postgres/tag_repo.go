package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"conduit/internal/domain"
)

type tagRepository struct {
	DB *sql.DB
}

// NewTagRepository returns a domain.TagRepository implemented with Postgres.
func NewTagRepository(db *sql.DB) domain.TagRepository {
	return &tagRepository{DB: db}
}

// Create bulk-inserts tags in a single statement. Tags already present are
// skipped by the ON CONFLICT clause, so re-inserting is a no-op rather than
// an error.
func (r *tagRepository) Create(ctx context.Context, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	now := time.Now().UTC()
	values := make([]string, 0, len(tags))
	args := make([]interface{}, 0, len(tags)+1)
	args = append(args, now)
	for i, tag := range tags {
		values = append(values, fmt.Sprintf("($%d, $1)", i+2))
		args = append(args, tag)
	}
	query := fmt.Sprintf(
		`INSERT INTO tags (tag, created_at) VALUES %s ON CONFLICT (tag) DO NOTHING`,
		strings.Join(values, ", "),
	)
	_, err := r.DB.ExecContext(ctx, query, args...)
	return err
}

func (r *tagRepository) GetAll(ctx context.Context) ([]*domain.Tag, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT tag, created_at FROM tags`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.Tag, &tag.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, &tag)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}
