package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for article operations.
var (
	ErrArticleNotFound  = errors.New("article not found")
	ErrDuplicateSlug    = errors.New("slug already in use")
	ErrAlreadyFavorited = errors.New("article already favorited")
	ErrNotFavorited     = errors.New("article not favorited")
)

// Article represents a published article. Favorited is relative to the
// requesting viewer; Author carries the author profile with its follow
// state resolved the same way.
// swagger:model Article
type Article struct {
	ID             string    `json:"-"`
	Slug           string    `json:"slug"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Body           string    `json:"body"`
	AuthorID       string    `json:"-"`
	TagList        []string  `json:"tagList"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Favorited      bool      `json:"favorited"`
	FavoritesCount int       `json:"favoritesCount"`
	Author         *Profile  `json:"author"`
}

// NewArticle returns a new Article with the given fields. ID is typically set by the repository on create.
func NewArticle(slug, title, description, body, authorID string, createdAt, updatedAt time.Time) *Article {
	return &Article{
		Slug:        slug,
		Title:       title,
		Description: description,
		Body:        body,
		AuthorID:    authorID,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// CreateArticleParams carries the fields of an article creation request.
type CreateArticleParams struct {
	Title       string
	Description string
	Body        string
	TagList     []string
}

// UpdateArticleParams carries the optional fields of a partial article
// update. Nil means "leave unchanged". The slug is stable across updates.
type UpdateArticleParams struct {
	Title       *string
	Description *string
	Body        *string
}

// ArticleFilter narrows article listings. Zero-value fields are ignored.
type ArticleFilter struct {
	Tag         string
	Author      string
	FavoritedBy string
	ListParams
}

// ArticleRepository defines the interface for article storage. Listing
// methods return rows with the author columns joined in; tag lists and
// favorite counts are fetched in batch by their own methods.
type ArticleRepository interface {
	Create(ctx context.Context, article *Article) error
	GetBySlug(ctx context.Context, slug string) (*Article, error)
	Update(ctx context.Context, article *Article) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ArticleFilter) ([]*Article, int, error)
	ListByAuthorIDs(ctx context.Context, authorIDs []string, params ListParams) ([]*Article, int, error)
	AddTags(ctx context.Context, articleID string, tags []string) error
	ListTagsByArticleIDs(ctx context.Context, articleIDs []string) (map[string][]string, error)
}

// FavoriteRepository defines storage for article favorite marks, unique
// per (article, user) pair.
type FavoriteRepository interface {
	Add(ctx context.Context, articleID, userID string) error
	Remove(ctx context.Context, articleID, userID string) error
	CountByArticleIDs(ctx context.Context, articleIDs []string) (map[string]int, error)
	ListFavoritedByUser(ctx context.Context, userID string, articleIDs []string) (map[string]bool, error)
}

// ArticleService defines the business logic for article CRUD, listings,
// the personal feed, and favorite transitions. viewerID is empty for
// anonymous reads.
type ArticleService interface {
	Create(ctx context.Context, authorID string, params CreateArticleParams) (*Article, error)
	GetBySlug(ctx context.Context, slug, viewerID string) (*Article, error)
	Update(ctx context.Context, userID, slug string, params UpdateArticleParams) (*Article, error)
	Delete(ctx context.Context, userID, slug string) error
	List(ctx context.Context, viewerID string, filter ArticleFilter) ([]*Article, int, error)
	Feed(ctx context.Context, userID string, params ListParams) ([]*Article, int, error)
	Favorite(ctx context.Context, userID, slug string) (*Article, error)
	Unfavorite(ctx context.Context, userID, slug string) (*Article, error)
}
