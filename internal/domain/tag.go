package domain

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by TagCache implementations when the key is
// absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Tag represents a named tag shared across articles.
type Tag struct {
	Tag       string    `json:"tag"`
	CreatedAt time.Time `json:"created_at"`
}

// TagRepository defines storage for the global tag set.
type TagRepository interface {
	// Create bulk-inserts the given tag names. Names already present are
	// silently skipped; an empty slice is a no-op.
	Create(ctx context.Context, tags []string) error
	// GetAll returns every stored tag. Order is unspecified.
	GetAll(ctx context.Context) ([]*Tag, error)
}

// TagCache caches the full tag name list (infrastructure port).
type TagCache interface {
	Get(ctx context.Context) ([]string, error)
	Set(ctx context.Context, tags []string) error
	Invalidate(ctx context.Context) error
}

// TagService exposes the tag list to the HTTP layer.
type TagService interface {
	List(ctx context.Context) ([]string, error)
}
