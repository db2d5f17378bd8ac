package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"conduit/internal/domain"

	"github.com/lib/pq"
)

type articleRepository struct {
	DB *sql.DB
}

// NewArticleRepository returns a domain.ArticleRepository implemented with Postgres.
func NewArticleRepository(db *sql.DB) domain.ArticleRepository {
	return &articleRepository{DB: db}
}

const articleColumns = `
	a.id, a.slug, a.title, a.description, a.body, a.author_id, a.created_at, a.updated_at,
	u.username, u.bio, u.image
`

func (r *articleRepository) Create(ctx context.Context, a *domain.Article) error {
	query := `
		INSERT INTO articles (slug, title, description, body, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, a.Slug, a.Title, a.Description, a.Body, a.AuthorID, a.CreatedAt, a.UpdatedAt).Scan(&a.ID)
	if err != nil {
		var perr *pq.Error
		if errors.As(err, &perr) && perr.Code == "23505" {
			return domain.ErrDuplicateSlug
		}
		return err
	}
	return nil
}

func (r *articleRepository) GetBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM articles a
		JOIN users u ON u.id = a.author_id
		WHERE a.slug = $1
	`, articleColumns)
	a, err := scanArticle(r.DB.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *articleRepository) Update(ctx context.Context, a *domain.Article) error {
	query := `
		UPDATE articles
		SET title = $1, description = $2, body = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := r.DB.ExecContext(ctx, query, a.Title, a.Description, a.Body, a.UpdatedAt, a.ID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

func (r *articleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

// List returns one page of articles matching the filter plus the total
// match count, newest first.
func (r *articleRepository) List(ctx context.Context, filter domain.ArticleFilter) ([]*domain.Article, int, error) {
	conditions := []string{}
	args := []interface{}{}
	n := 1
	if filter.Tag != "" {
		conditions = append(conditions, fmt.Sprintf("a.id IN (SELECT article_id FROM article_tags WHERE tag = $%d)", n))
		args = append(args, filter.Tag)
		n++
	}
	if filter.Author != "" {
		conditions = append(conditions, fmt.Sprintf("u.username = $%d", n))
		args = append(args, filter.Author)
		n++
	}
	if filter.FavoritedBy != "" {
		conditions = append(conditions, fmt.Sprintf(
			"a.id IN (SELECT f.article_id FROM article_favorites f JOIN users fu ON fu.id = f.user_id WHERE fu.username = $%d)", n))
		args = append(args, filter.FavoritedBy)
		n++
	}
	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM articles a
		JOIN users u ON u.id = a.author_id
		%s
	`, whereClause)
	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM articles a
		JOIN users u ON u.id = a.author_id
		%s
		ORDER BY a.created_at DESC
		LIMIT $%d OFFSET $%d
	`, articleColumns, whereClause, n, n+1)
	args = append(args, filter.Limit, filter.Offset)

	articles, err := r.queryArticles(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// ListByAuthorIDs returns one page of articles written by any of the given
// authors plus the total count, newest first. An empty author set yields an
// empty page without touching the database.
func (r *articleRepository) ListByAuthorIDs(ctx context.Context, authorIDs []string, params domain.ListParams) ([]*domain.Article, int, error) {
	if len(authorIDs) == 0 {
		return []*domain.Article{}, 0, nil
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM articles a WHERE a.author_id = ANY($1)`
	if err := r.DB.QueryRowContext(ctx, countQuery, pq.Array(authorIDs)).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM articles a
		JOIN users u ON u.id = a.author_id
		WHERE a.author_id = ANY($1)
		ORDER BY a.created_at DESC
		LIMIT $2 OFFSET $3
	`, articleColumns)
	articles, err := r.queryArticles(ctx, query, pq.Array(authorIDs), params.Limit, params.Offset)
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

func (r *articleRepository) AddTags(ctx context.Context, articleID string, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	values := make([]string, 0, len(tags))
	args := make([]interface{}, 0, len(tags)+1)
	args = append(args, articleID)
	for i, tag := range tags {
		values = append(values, fmt.Sprintf("($1, $%d)", i+2))
		args = append(args, tag)
	}
	query := fmt.Sprintf(
		`INSERT INTO article_tags (article_id, tag) VALUES %s ON CONFLICT (article_id, tag) DO NOTHING`,
		strings.Join(values, ", "),
	)
	_, err := r.DB.ExecContext(ctx, query, args...)
	return err
}

func (r *articleRepository) ListTagsByArticleIDs(ctx context.Context, articleIDs []string) (map[string][]string, error) {
	tagsByArticle := make(map[string][]string)
	if len(articleIDs) == 0 {
		return tagsByArticle, nil
	}
	query := `SELECT article_id, tag FROM article_tags WHERE article_id = ANY($1)`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(articleIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var articleID, tag string
		if err := rows.Scan(&articleID, &tag); err != nil {
			return nil, err
		}
		tagsByArticle[articleID] = append(tagsByArticle[articleID], tag)
	}
	return tagsByArticle, rows.Err()
}

func (r *articleRepository) queryArticles(ctx context.Context, query string, args ...interface{}) ([]*domain.Article, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := make([]*domain.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row rowScanner) (*domain.Article, error) {
	a := &domain.Article{Author: &domain.Profile{}}
	err := row.Scan(
		&a.ID, &a.Slug, &a.Title, &a.Description, &a.Body, &a.AuthorID, &a.CreatedAt, &a.UpdatedAt,
		&a.Author.Username, &a.Author.Bio, &a.Author.Image,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}
